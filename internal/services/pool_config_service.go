package services

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/bancalot/pool-admin-backend/internal/catalog"
	"github.com/bancalot/pool-admin-backend/internal/models"
	"github.com/bancalot/pool-admin-backend/internal/overrides"
	"github.com/bancalot/pool-admin-backend/pkg/lotoapi"
)

// poolConfigService implements PoolConfigService over per-pool sessions, the
// catalog cache and the reconciler.
type poolConfigService struct {
	client     PlatformClient
	catalog    *catalog.Cache
	sessions   *SessionRegistry
	reconciler *Reconciler
	importer   *TemplateImporter
}

// NewPoolConfigService creates the service the console handlers talk to.
func NewPoolConfigService(client PlatformClient, catalogCache *catalog.Cache) PoolConfigService {
	return &poolConfigService{
		client:     client,
		catalog:    catalogCache,
		sessions:   NewSessionRegistry(),
		reconciler: NewReconciler(client),
		importer:   NewTemplateImporter(client, catalogCache),
	}
}

// ensureLoaded populates a fresh session: draws directory, general prize
// overrides and commission configs are fetched together and awaited jointly.
// The session mutex must be held.
func (p *poolConfigService) ensureLoaded(ctx context.Context, s *Session) error {
	if s.loaded {
		return nil
	}

	ix, err := p.catalog.Index(ctx)
	if err != nil {
		return fmt.Errorf("catalog unavailable: %w", err)
	}

	var (
		draws       []models.Draw
		prizeCfg    []lotoapi.PrizeConfigValue
		commissions []lotoapi.CommissionConfig
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		draws, err = p.client.FetchDraws(gctx, s.poolID)
		return err
	})
	g.Go(func() error {
		var err error
		prizeCfg, err = p.client.FetchGeneralPrizeConfig(gctx, s.poolID)
		return err
	})
	g.Go(func() error {
		var err error
		commissions, err = p.client.FetchCommissions(gctx, s.poolID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load betting pool %d: %w", s.poolID, err)
	}

	for _, d := range draws {
		s.draws[d.ID] = d
	}

	flat := make(map[string]string)
	for _, pc := range prizeCfg {
		key, ok := prizeValueKey(ix, models.GeneralScope(), pc)
		if !ok {
			log.Printf("pool %d: dropping prize config with unknown prizeTypeId %d (%s)", s.poolID, pc.PrizeTypeID, pc.FieldCode)
			continue
		}
		flat[key] = formatValue(pc.CustomValue)
	}
	for _, cc := range commissions {
		if cc.LotteryID == nil {
			mergeCommissionConfig(flat, models.GeneralScope(), cc)
			continue
		}
		s.lotteryCommissions[*cc.LotteryID] = append(s.lotteryCommissions[*cc.LotteryID], cc)
	}

	store, errs := overrides.FromFlatMap(flat)
	for _, err := range errs {
		log.Printf("pool %d: %v", s.poolID, err)
	}
	s.store = store
	s.baseline = overrides.NewSnapshot(flat)
	s.loaded = true
	return nil
}

func (p *poolConfigService) Overrides(ctx context.Context, poolID int) (map[string]string, error) {
	s := p.sessions.Get(poolID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := p.ensureLoaded(ctx, s); err != nil {
		return nil, err
	}
	return s.store.ToFlatMap(), nil
}

func (p *poolConfigService) ReplaceOverrides(ctx context.Context, poolID int, flat map[string]string) error {
	s := p.sessions.Get(poolID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := p.ensureLoaded(ctx, s); err != nil {
		return err
	}
	// Keys missing from the payload belong to parts of the form not on
	// screen; only keys the form actually sent are applied. Empty values
	// normalize to explicit clears.
	for key, value := range flat {
		if err := s.store.SetKey(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (p *poolConfigService) Resolve(ctx context.Context, poolID int, coord models.OverrideCoordinate) (models.Resolution, error) {
	s := p.sessions.Get(poolID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := p.ensureLoaded(ctx, s); err != nil {
		return models.Resolution{}, err
	}
	ix, err := p.catalog.Index(ctx)
	if err != nil {
		return models.Resolution{}, fmt.Errorf("catalog unavailable: %w", err)
	}
	return overrides.Resolve(s.store, ix, coord), nil
}

func (p *poolConfigService) Save(ctx context.Context, poolID int, drawID *int) (models.PersistResult, error) {
	s := p.sessions.Get(poolID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := p.ensureLoaded(ctx, s); err != nil {
		return models.PersistResult{}, err
	}
	ix, err := p.catalog.Index(ctx)
	if err != nil {
		return models.PersistResult{}, fmt.Errorf("catalog unavailable: %w", err)
	}

	cs := overrides.ComputeChangeSet(s.store, s.baseline, overrides.DiffOptions{
		Decode: overrides.DecodeOptions{
			Catalog:     ix,
			LotteryDraw: s.lotteryDrawResolver(),
		},
		OnlyDrawID: drawID,
	})
	if cs.Empty() {
		return models.PersistResult{}, nil
	}

	res := p.reconciler.Persist(ctx, poolID, cs, ix, s.drawByID)
	p.advanceBaseline(s, res.Applied)
	return res, nil
}

// advanceBaseline moves the diff baseline forward for the entries that were
// actually persisted, leaving failed entries diffable for a retry.
func (p *poolConfigService) advanceBaseline(s *Session, applied []models.OverrideEntry) {
	if len(applied) == 0 {
		return
	}
	records := make([]overrides.AppliedEntry, 0, len(applied))
	var clearedKeys []string
	for _, e := range applied {
		key := overrides.Encode(e.Coordinate)
		records = append(records, overrides.AppliedEntry{Key: key, Value: e.Value, Cleared: e.Cleared})
		if e.Cleared {
			clearedKeys = append(clearedKeys, key)
		}
	}
	s.baseline = s.baseline.Advance(records)
	s.store.CommitCleared(clearedKeys)
}

func (p *poolConfigService) LoadDrawValues(ctx context.Context, poolID, drawID int) (map[string]string, error) {
	s := p.sessions.Get(poolID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := p.ensureLoaded(ctx, s); err != nil {
		return nil, err
	}

	if cached, ok := s.drawValues[drawID]; ok {
		p.mergeDrawValues(s, drawID, cached)
		return copyFlat(cached), nil
	}

	draw, ok := s.drawByID(drawID)
	if !ok {
		return nil, fmt.Errorf("draw %d does not belong to betting pool %d", drawID, poolID)
	}
	ix, err := p.catalog.Index(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog unavailable: %w", err)
	}

	prizeCfg, err := p.client.FetchDrawPrizeConfig(ctx, poolID, drawID)
	if err != nil {
		return nil, fmt.Errorf("load draw %d values: %w", drawID, err)
	}

	scope := models.DrawScope(drawID)
	flat := make(map[string]string)
	for _, pc := range prizeCfg {
		key, ok := prizeValueKey(ix, scope, pc)
		if !ok {
			log.Printf("pool %d draw %d: dropping prize config with unknown prizeTypeId %d (%s)", poolID, drawID, pc.PrizeTypeID, pc.FieldCode)
			continue
		}
		flat[key] = formatValue(pc.CustomValue)
	}
	for _, cc := range s.lotteryCommissions[draw.LotteryID] {
		mergeCommissionConfig(flat, scope, cc)
	}

	s.drawValues[drawID] = copyFlat(flat)
	p.mergeDrawValues(s, drawID, flat)

	return copyFlat(flat), nil
}

// mergeDrawValues applies one draw's loaded values to the working store and
// the baseline, at most once per draw. A fetch may outlive a tab switch, so
// values land only while the draw is the active one; a response that lost the
// switch stays memoized and catches up on the next request for that draw.
func (p *poolConfigService) mergeDrawValues(s *Session, drawID int, flat map[string]string) {
	if s.mergedDraws[drawID] {
		return
	}
	if s.activeDrawID != 0 && s.activeDrawID != drawID {
		return
	}
	s.store.Merge(flat, false)
	records := make([]overrides.AppliedEntry, 0, len(flat))
	for key, value := range flat {
		records = append(records, overrides.AppliedEntry{Key: key, Value: value})
	}
	s.baseline = s.baseline.Advance(records)
	s.mergedDraws[drawID] = true
}

func (p *poolConfigService) SetActiveDraw(ctx context.Context, poolID, drawID int) error {
	s := p.sessions.Get(poolID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeDrawID = drawID
	return nil
}

func (p *poolConfigService) ImportTemplate(ctx context.Context, poolID int, req TemplateImportRequest) (TemplateImportResult, error) {
	s := p.sessions.Get(poolID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := p.ensureLoaded(ctx, s); err != nil {
		return TemplateImportResult{}, err
	}

	result, err := p.importer.ImportFrom(ctx, req)
	if err != nil {
		return TemplateImportResult{}, err
	}

	// The patch lands as if the user had typed every value, so the normal
	// diff/save path persists it against the unchanged baseline.
	s.store.Merge(result.Patch, true)
	return result, nil
}

// prizeValueKey renders the flat key for a fetched prize config value. The
// prizeTypeId is authoritative; the fieldCode is a fallback for entries the
// index cannot reverse.
func prizeValueKey(ix *catalog.Index, scope models.Scope, pc lotoapi.PrizeConfigValue) (string, bool) {
	ref, ok := ix.FieldByPrizeTypeID(pc.PrizeTypeID)
	if !ok {
		return "", false
	}
	return overrides.Encode(models.OverrideCoordinate{
		Scope:       scope,
		BetTypeCode: ref.BetTypeCode,
		Domain:      models.DomainPrize,
		FieldCode:   ref.Field.FieldCode,
	}), true
}

// mergeCommissionConfig expands one commission config into flat keys at the
// given scope.
func mergeCommissionConfig(flat map[string]string, scope models.Scope, cc lotoapi.CommissionConfig) {
	for _, slot := range cc.Slots {
		if slot.Value == nil {
			continue
		}
		domain := models.DomainCommission
		if slot.Domain == 2 {
			domain = models.DomainCommission2
		}
		key := overrides.Encode(models.OverrideCoordinate{
			Scope:       scope,
			BetTypeCode: cc.GameType,
			Domain:      domain,
			FieldCode:   models.CommissionFieldCode(slot.SlotIndex),
		})
		flat[key] = formatValue(*slot.Value)
	}
}

func formatValue(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func copyFlat(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
