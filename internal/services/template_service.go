package services

import (
	"context"
	"fmt"
	"log"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"

	"github.com/bancalot/pool-admin-backend/internal/catalog"
	"github.com/bancalot/pool-admin-backend/internal/models"
	"github.com/bancalot/pool-admin-backend/pkg/lotoapi"
)

// TemplateImportRequest names the source betting pool and which field
// domains to copy from it.
type TemplateImportRequest struct {
	SourcePoolID int                  `json:"sourcePoolId"`
	Domains      []models.FieldDomain `json:"domains"`
}

// TemplateImportResult is the patch produced by an import: a flat override
// map to merge into the target store, plus the draws that carried explicit
// overrides in the source. Draws absent from ExplicitDrawIDs were showing
// inherited general values in the source and must not gain per-draw entries
// in the target; copying those would freeze a fallback into a redundant
// override.
type TemplateImportResult struct {
	Patch           map[string]string `json:"patch"`
	ExplicitDrawIDs mapset.Set[int]   `json:"explicitDrawIds"`
}

// TemplateImporter copies a whole override set from a template betting pool.
type TemplateImporter struct {
	client PlatformClient
	cat    *catalog.Cache
}

// NewTemplateImporter creates an importer over the platform client and the
// catalog cache.
func NewTemplateImporter(client PlatformClient, cat *catalog.Cache) *TemplateImporter {
	return &TemplateImporter{client: client, cat: cat}
}

// ImportFrom builds the override patch for copying the source pool's
// configuration. General-scope values are always copied for the selected
// domains; per-draw values only for draws with explicit overrides of their
// own in the source.
func (t *TemplateImporter) ImportFrom(ctx context.Context, req TemplateImportRequest) (TemplateImportResult, error) {
	ix, err := t.cat.Index(ctx)
	if err != nil {
		return TemplateImportResult{}, fmt.Errorf("catalog unavailable: %w", err)
	}

	wantPrize := false
	wantCommissions := map[int]bool{}
	for _, d := range req.Domains {
		switch d {
		case models.DomainPrize:
			wantPrize = true
		case models.DomainCommission:
			wantCommissions[1] = true
		case models.DomainCommission2:
			wantCommissions[2] = true
		}
	}

	var (
		draws       []models.Draw
		prizeCfg    []lotoapi.PrizeConfigValue
		commissions []lotoapi.CommissionConfig
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		draws, err = t.client.FetchDraws(gctx, req.SourcePoolID)
		return err
	})
	g.Go(func() error {
		var err error
		prizeCfg, err = t.client.FetchGeneralPrizeConfig(gctx, req.SourcePoolID)
		return err
	})
	g.Go(func() error {
		var err error
		commissions, err = t.client.FetchCommissions(gctx, req.SourcePoolID)
		return err
	})
	if err := g.Wait(); err != nil {
		return TemplateImportResult{}, fmt.Errorf("load template pool %d: %w", req.SourcePoolID, err)
	}

	result := TemplateImportResult{
		Patch:           make(map[string]string),
		ExplicitDrawIDs: mapset.NewSet[int](),
	}

	if wantPrize {
		for _, pc := range prizeCfg {
			key, ok := prizeValueKey(ix, models.GeneralScope(), pc)
			if !ok {
				log.Printf("template import: dropping prize config with unknown prizeTypeId %d (%s)", pc.PrizeTypeID, pc.FieldCode)
				continue
			}
			result.Patch[key] = formatValue(pc.CustomValue)
		}
	}

	commissionsByLottery := make(map[int][]lotoapi.CommissionConfig)
	for _, cc := range commissions {
		filtered := filterCommissionDomains(cc, wantCommissions)
		if len(filtered.Slots) == 0 {
			continue
		}
		if cc.LotteryID == nil {
			mergeCommissionConfig(result.Patch, models.GeneralScope(), filtered)
			continue
		}
		commissionsByLottery[*cc.LotteryID] = append(commissionsByLottery[*cc.LotteryID], filtered)
	}

	// A source draw qualifies as explicit only when it has per-draw prize
	// overrides of its own. Per-lottery commissions piggyback on the draws
	// that already qualified. The fetches are independent per draw, so they
	// go out together under a bounded group and the patch is assembled from
	// the collected results in draw order.
	if wantPrize || len(wantCommissions) > 0 {
		drawCfgs := make([][]lotoapi.PrizeConfigValue, len(draws))
		fg, fctx := errgroup.WithContext(ctx)
		fg.SetLimit(4)
		for i, draw := range draws {
			i, draw := i, draw
			fg.Go(func() error {
				cfg, err := t.client.FetchDrawPrizeConfig(fctx, req.SourcePoolID, draw.ID)
				if err != nil {
					return fmt.Errorf("load template draw %d: %w", draw.ID, err)
				}
				drawCfgs[i] = cfg
				return nil
			})
		}
		if err := fg.Wait(); err != nil {
			return TemplateImportResult{}, err
		}

		for i, draw := range draws {
			drawCfg := drawCfgs[i]
			if len(drawCfg) == 0 {
				continue
			}
			result.ExplicitDrawIDs.Add(draw.ID)

			scope := models.DrawScope(draw.ID)
			if wantPrize {
				for _, pc := range drawCfg {
					key, ok := prizeValueKey(ix, scope, pc)
					if !ok {
						log.Printf("template import: dropping draw %d prize config with unknown prizeTypeId %d", draw.ID, pc.PrizeTypeID)
						continue
					}
					result.Patch[key] = formatValue(pc.CustomValue)
				}
			}
			for _, cc := range commissionsByLottery[draw.LotteryID] {
				mergeCommissionConfig(result.Patch, scope, cc)
			}
		}
	}

	return result, nil
}

// filterCommissionDomains keeps only the slots whose domain was selected.
func filterCommissionDomains(cc lotoapi.CommissionConfig, want map[int]bool) lotoapi.CommissionConfig {
	out := lotoapi.CommissionConfig{GameType: cc.GameType, LotteryID: cc.LotteryID}
	for _, slot := range cc.Slots {
		if want[slot.Domain] {
			out.Slots = append(out.Slots, slot)
		}
	}
	return out
}
