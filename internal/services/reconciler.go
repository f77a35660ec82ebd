package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/hashicorp/go-multierror"

	"github.com/bancalot/pool-admin-backend/internal/catalog"
	"github.com/bancalot/pool-admin-backend/internal/models"
	"github.com/bancalot/pool-admin-backend/internal/overrides"
	"github.com/bancalot/pool-admin-backend/pkg/lotoapi"
)

// Reconciler translates a change-set into platform write requests. It emits
// at most four requests per save: general prizes, general commissions, one
// draw-prize batch covering every touched draw, and one draw-commission
// batch. Batches fail independently; the aggregate result reports entry
// counts, and the Reconciler never mutates the store or the baseline.
type Reconciler struct {
	client PlatformClient
}

// NewReconciler creates a Reconciler over a platform client.
func NewReconciler(client PlatformClient) *Reconciler {
	return &Reconciler{client: client}
}

// DrawResolver looks a draw up in the session's draws directory, used to
// resolve each draw's parent lottery for commission writes.
type DrawResolver func(drawID int) (models.Draw, bool)

type prizeWrite struct {
	entry models.OverrideEntry
	write lotoapi.PrizeConfigWrite
}

type commissionWrite struct {
	entry     models.OverrideEntry
	gameType  string
	lotteryID *int
	slot      lotoapi.CommissionSlot
}

// Persist validates and writes a change-set for one betting pool.
//
// Entries whose field code cannot be resolved against the catalog (or the
// fixed commission schema) fail locally without a network call. Network and
// HTTP failures are caught per batch and folded into the result; nothing
// escapes as an error return because the pool record itself has already been
// committed by the time configuration writes run.
func (r *Reconciler) Persist(ctx context.Context, poolID int, cs *models.ChangeSet, ix *catalog.Index, drawOf DrawResolver) models.PersistResult {
	var res models.PersistResult
	var errs *multierror.Error

	failLocal := func(format string, args ...interface{}) {
		res.Failed++
		errs = multierror.Append(errs, fmt.Errorf(format, args...))
	}

	var generalPrize []prizeWrite
	drawPrize := make(map[int][]prizeWrite)
	var generalComm []commissionWrite
	var drawComm []commissionWrite

	classify := func(entry models.OverrideEntry) {
		coord := entry.Coordinate

		var value *float64
		if !entry.Cleared {
			f, err := strconv.ParseFloat(entry.Value, 64)
			if err != nil {
				failLocal("unparsable value %q at %s", entry.Value, overrides.Encode(coord))
				return
			}
			value = &f
		}

		var lotteryID *int
		if !coord.Scope.IsGeneral() {
			draw, ok := drawOf(coord.Scope.DrawID)
			if !ok {
				failLocal("unknown draw %d at %s", coord.Scope.DrawID, overrides.Encode(coord))
				return
			}
			id := draw.LotteryID
			lotteryID = &id
		}

		switch coord.Domain {
		case models.DomainPrize:
			field, ok := ix.Field(coord.BetTypeCode, coord.FieldCode)
			if !ok {
				failLocal("field %s/%s not in catalog", coord.BetTypeCode, coord.FieldCode)
				return
			}
			w := prizeWrite{entry: entry, write: lotoapi.PrizeConfigWrite{
				PrizeTypeID: field.PrizeTypeID,
				FieldCode:   coord.FieldCode,
				Value:       value,
			}}
			if coord.Scope.IsGeneral() {
				generalPrize = append(generalPrize, w)
			} else {
				drawPrize[coord.Scope.DrawID] = append(drawPrize[coord.Scope.DrawID], w)
			}
		case models.DomainCommission, models.DomainCommission2:
			slotIndex, ok := models.CommissionSlotIndex(coord.FieldCode)
			if !ok {
				failLocal("field %s is not a commission slot", coord.FieldCode)
				return
			}
			if _, ok := ix.BetType(coord.BetTypeCode); !ok {
				failLocal("bet type %s not in catalog", coord.BetTypeCode)
				return
			}
			domainNum := 1
			if coord.Domain == models.DomainCommission2 {
				domainNum = 2
			}
			w := commissionWrite{
				entry:     entry,
				gameType:  coord.BetTypeCode,
				lotteryID: lotteryID,
				slot:      lotoapi.CommissionSlot{Domain: domainNum, SlotIndex: slotIndex, Value: value},
			}
			if coord.Scope.IsGeneral() {
				generalComm = append(generalComm, w)
			} else {
				drawComm = append(drawComm, w)
			}
		default:
			failLocal("unknown field domain %q", coord.Domain)
		}
	}

	for _, entry := range cs.General {
		classify(entry)
	}
	drawIDs := cs.DrawIDs()
	sort.Ints(drawIDs)
	for _, drawID := range drawIDs {
		for _, entry := range cs.ByDraw[drawID] {
			classify(entry)
		}
	}

	runBatch := func(label string, entries []models.OverrideEntry, call func() error) {
		if len(entries) == 0 {
			return
		}
		if err := call(); err != nil {
			res.Failed += len(entries)
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", label, err))
			return
		}
		res.Successful += len(entries)
		res.Applied = append(res.Applied, entries...)
	}

	runBatch("general prize config", entriesOfPrize(generalPrize), func() error {
		return r.client.SaveGeneralPrizeConfig(ctx, poolID, writesOfPrize(generalPrize))
	})

	runBatch("general commissions", entriesOfCommission(generalComm), func() error {
		return r.client.SaveCommissionsBatch(ctx, poolID, groupCommissions(generalComm))
	})

	runBatch("draw prize batch", entriesOfDrawPrize(drawPrize, drawIDs), func() error {
		return r.client.SaveDrawPrizeConfigBatch(ctx, poolID, groupDrawPrizes(drawPrize, drawIDs))
	})

	runBatch("draw commissions", entriesOfCommission(drawComm), func() error {
		return r.client.SaveCommissionsBatch(ctx, poolID, groupCommissions(drawComm))
	})

	if errs != nil {
		for _, err := range errs.Errors {
			res.Errors = append(res.Errors, err.Error())
		}
	}
	return res
}

func entriesOfPrize(writes []prizeWrite) []models.OverrideEntry {
	out := make([]models.OverrideEntry, 0, len(writes))
	for _, w := range writes {
		out = append(out, w.entry)
	}
	return out
}

func writesOfPrize(writes []prizeWrite) []lotoapi.PrizeConfigWrite {
	out := make([]lotoapi.PrizeConfigWrite, 0, len(writes))
	for _, w := range writes {
		out = append(out, w.write)
	}
	return out
}

func entriesOfDrawPrize(byDraw map[int][]prizeWrite, order []int) []models.OverrideEntry {
	var out []models.OverrideEntry
	for _, drawID := range order {
		out = append(out, entriesOfPrize(byDraw[drawID])...)
	}
	return out
}

func groupDrawPrizes(byDraw map[int][]prizeWrite, order []int) []lotoapi.DrawConfigGroup {
	var groups []lotoapi.DrawConfigGroup
	for _, drawID := range order {
		writes := byDraw[drawID]
		if len(writes) == 0 {
			continue
		}
		groups = append(groups, lotoapi.DrawConfigGroup{
			DrawID:       drawID,
			PrizeConfigs: writesOfPrize(writes),
		})
	}
	return groups
}

func entriesOfCommission(writes []commissionWrite) []models.OverrideEntry {
	out := make([]models.OverrideEntry, 0, len(writes))
	for _, w := range writes {
		out = append(out, w.entry)
	}
	return out
}

// groupCommissions merges slot writes into one config per (gameType,
// lottery) pair, both domains together.
func groupCommissions(writes []commissionWrite) []lotoapi.CommissionConfig {
	type pairKey struct {
		gameType  string
		lotteryID int // 0 means general (nil lottery)
	}
	grouped := make(map[pairKey]*lotoapi.CommissionConfig)
	var order []pairKey
	for _, w := range writes {
		key := pairKey{gameType: w.gameType}
		if w.lotteryID != nil {
			key.lotteryID = *w.lotteryID
		}
		cfg, ok := grouped[key]
		if !ok {
			cfg = &lotoapi.CommissionConfig{GameType: w.gameType, LotteryID: w.lotteryID}
			grouped[key] = cfg
			order = append(order, key)
		}
		cfg.Slots = append(cfg.Slots, w.slot)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].gameType != order[j].gameType {
			return order[i].gameType < order[j].gameType
		}
		return order[i].lotteryID < order[j].lotteryID
	})
	out := make([]lotoapi.CommissionConfig, 0, len(order))
	for _, key := range order {
		out = append(out, *grouped[key])
	}
	return out
}
