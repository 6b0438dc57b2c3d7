// Package migration owns the schema. AutoMigrate is run explicitly by the
// migrate entrypoint, never implicitly at serve time.
package migration

import (
	"errors"

	billdomain "github.com/aquabill-labs/aquabill/internal/bill/domain"
	readingdomain "github.com/aquabill-labs/aquabill/internal/reading/domain"
	settingsdomain "github.com/aquabill-labs/aquabill/internal/settings/domain"
	tenantdomain "github.com/aquabill-labs/aquabill/internal/tenant/domain"
	"gorm.io/gorm"
)

// Models lists every persisted type, in dependency order.
func Models() []any {
	return []any{
		&tenantdomain.Tenant{},
		&readingdomain.Reading{},
		&billdomain.Bill{},
		&settingsdomain.Setting{},
	}
}

// Run applies the schema for all registered models.
func Run(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}
	return db.AutoMigrate(Models()...)
}
