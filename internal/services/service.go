package services

import (
	"context"

	"github.com/bancalot/pool-admin-backend/internal/models"
	"github.com/bancalot/pool-admin-backend/pkg/lotoapi"
)

// PlatformClient defines the slice of the lottery platform API the services
// depend on. pkg/lotoapi provides the real implementation; tests substitute
// fakes.
type PlatformClient interface {
	FetchBetTypes(ctx context.Context) ([]models.BetType, error)
	FetchDraws(ctx context.Context, poolID int) ([]models.Draw, error)
	FetchGeneralPrizeConfig(ctx context.Context, poolID int) ([]lotoapi.PrizeConfigValue, error)
	SaveGeneralPrizeConfig(ctx context.Context, poolID int, configs []lotoapi.PrizeConfigWrite) error
	FetchDrawPrizeConfig(ctx context.Context, poolID, drawID int) ([]lotoapi.PrizeConfigValue, error)
	SaveDrawPrizeConfigBatch(ctx context.Context, poolID int, groups []lotoapi.DrawConfigGroup) error
	FetchCommissions(ctx context.Context, poolID int) ([]lotoapi.CommissionConfig, error)
	SaveCommissionsBatch(ctx context.Context, poolID int, configs []lotoapi.CommissionConfig) error
}

// PoolConfigService defines the operations the console invokes against one
// betting pool's override configuration.
type PoolConfigService interface {
	// Overrides returns the pool's current flat override map.
	Overrides(ctx context.Context, poolID int) (map[string]string, error)

	// ReplaceOverrides syncs the working store from external form state.
	ReplaceOverrides(ctx context.Context, poolID int, flat map[string]string) error

	// Resolve computes the effective value and provenance for one coordinate.
	Resolve(ctx context.Context, poolID int, coord models.OverrideCoordinate) (models.Resolution, error)

	// Save diffs the working store against the baseline and persists the
	// change-set. A non-nil drawID restricts the save to that draw's keys.
	Save(ctx context.Context, poolID int, drawID *int) (models.PersistResult, error)

	// LoadDrawValues lazily fetches one draw's override values, memoized for
	// the session.
	LoadDrawValues(ctx context.Context, poolID, drawID int) (map[string]string, error)

	// SetActiveDraw records which draw tab the console currently shows.
	SetActiveDraw(ctx context.Context, poolID, drawID int) error

	// ImportTemplate copies another pool's override set into this pool's
	// working store.
	ImportTemplate(ctx context.Context, poolID int, req TemplateImportRequest) (TemplateImportResult, error)
}
