package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aquabill-labs/aquabill/internal/clock"
	settingsdomain "github.com/aquabill-labs/aquabill/internal/settings/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  settingsdomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  settingsdomain.Repository
}

func NewService(p ServiceParam) settingsdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("settings.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Get resolves the raw stored string into a tagged Value: numeric when the
// text parses as a float, text otherwise.
func (s *Service) Get(ctx context.Context, key string) (settingsdomain.Value, error) {
	setting, err := s.repo.FindByKey(ctx, s.db, strings.TrimSpace(key))
	if err != nil {
		return settingsdomain.Value{}, err
	}
	if setting == nil {
		return settingsdomain.Value{}, settingsdomain.ErrSettingNotFound
	}

	if n, err := strconv.ParseFloat(strings.TrimSpace(setting.Value), 64); err == nil {
		return settingsdomain.Value{Kind: settingsdomain.KindNumeric, Number: n, Text: setting.Value}, nil
	}
	return settingsdomain.Value{Kind: settingsdomain.KindText, Text: setting.Value}, nil
}

func (s *Service) GetText(ctx context.Context, key string) (string, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return value.Text, nil
}

func (s *Service) GetNumber(ctx context.Context, key string) (float64, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if value.Kind != settingsdomain.KindNumeric {
		return 0, fmt.Errorf("%w: key %q holds %q", settingsdomain.ErrInvalidValue, key, value.Text)
	}
	return value.Number, nil
}

func (s *Service) Set(ctx context.Context, key, value string, description *string) (*settingsdomain.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("setting key is required")
	}

	setting := &settingsdomain.Setting{
		ID:          s.genID.Generate(),
		Key:         key,
		Value:       value,
		Description: description,
		UpdatedAt:   s.clock.Now(ctx),
	}
	if err := s.repo.Upsert(ctx, s.db, setting); err != nil {
		return nil, err
	}

	s.log.Info("setting updated", zap.String("key", key), zap.String("value", value))
	return setting, nil
}

func (s *Service) List(ctx context.Context) ([]settingsdomain.Setting, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Snapshot(ctx context.Context) (settingsdomain.Snapshot, error) {
	snap := settingsdomain.DefaultSnapshot()

	settings, err := s.repo.List(ctx, s.db)
	if err != nil {
		return settingsdomain.Snapshot{}, err
	}

	for _, setting := range settings {
		switch setting.Key {
		case settingsdomain.KeyCurrency:
			snap.Currency = setting.Value
		case settingsdomain.KeyRatePerUnit:
			if snap.RatePerUnit, err = parseNumber(setting); err != nil {
				return settingsdomain.Snapshot{}, err
			}
		case settingsdomain.KeyLateFeePercent:
			if snap.LateFeePercent, err = parseNumber(setting); err != nil {
				return settingsdomain.Snapshot{}, err
			}
		case settingsdomain.KeyBillingCycleDays:
			if snap.BillingCycleDays, err = parseDays(setting); err != nil {
				return settingsdomain.Snapshot{}, err
			}
		case settingsdomain.KeyGraceDays:
			if snap.GraceDays, err = parseDays(setting); err != nil {
				return settingsdomain.Snapshot{}, err
			}
		case settingsdomain.KeyDueDays:
			if snap.DueDays, err = parseDays(setting); err != nil {
				return settingsdomain.Snapshot{}, err
			}
		}
	}

	return snap, nil
}

func parseNumber(setting settingsdomain.Setting) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(setting.Value), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: key %q holds %q", settingsdomain.ErrInvalidValue, setting.Key, setting.Value)
	}
	return n, nil
}

func parseDays(setting settingsdomain.Setting) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(setting.Value))
	if err != nil {
		return 0, fmt.Errorf("%w: key %q holds %q", settingsdomain.ErrInvalidValue, setting.Key, setting.Value)
	}
	return n, nil
}
