package domain

import (
	"math"
	"time"

	readingdomain "github.com/aquabill-labs/aquabill/internal/reading/domain"
	settingsdomain "github.com/aquabill-labs/aquabill/internal/settings/domain"
	"github.com/bwmarrin/snowflake"
)

// Compute turns two bounding readings and a settings snapshot into a bill
// draft. It is a pure function: reading resolution and persistence are the
// service's responsibility.
//
// start may equal end (zero consumption, new-tenant baseline). A decreasing
// value fails with ErrNegativeConsumption instead of being clamped; a
// decrease signals meter rollover or a data-entry error and must be visible.
func Compute(
	tenantID snowflake.ID,
	periodStart, periodEnd time.Time,
	snap settingsdomain.Snapshot,
	start, end *readingdomain.Reading,
) (*Draft, error) {
	if !periodEnd.After(periodStart) {
		return nil, ErrInvalidPeriod
	}
	if start == nil || end == nil {
		return nil, ErrInsufficientData
	}

	units := end.Value - start.Value
	if units < 0 {
		return nil, ErrNegativeConsumption
	}

	draft := &Draft{
		TenantID:      tenantID,
		PeriodStart:   periodStart.UTC(),
		PeriodEnd:     periodEnd.UTC(),
		UnitsConsumed: units,
		RatePerUnit:   snap.RatePerUnit,
		Amount:        RoundAmount(units * snap.RatePerUnit),
		Currency:      snap.Currency,
	}

	startID := start.ID
	endID := end.ID
	draft.StartReadingID = &startID
	draft.EndReadingID = &endID

	return draft, nil
}

// RoundAmount rounds to 2 decimal places, the precision every supported
// currency is stored at.
func RoundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}
