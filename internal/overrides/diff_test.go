package overrides_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bancalot/pool-admin-backend/internal/models"
	"github.com/bancalot/pool-admin-backend/internal/overrides"
)

func diffOpts() overrides.DiffOptions {
	return overrides.DiffOptions{
		Decode: overrides.DecodeOptions{Catalog: testIndex(), LotteryDraw: resolveLottery},
	}
}

func TestDiffNoChangesIsEmpty(t *testing.T) {
	flat := map[string]string{
		"general_DIRECTO_DIRECTO_PRIMER_PAGO": "65",
		"draw_181_SUPER_PALE_TODO_EN_PRIMERA": "1800",
	}
	store, errs := overrides.FromFlatMap(flat)
	require.Empty(t, errs)

	cs := overrides.ComputeChangeSet(store, overrides.NewSnapshot(flat), diffOpts())
	assert.True(t, cs.Empty())
}

func TestDiffNumericComparisonIgnoresFormatting(t *testing.T) {
	store, _ := overrides.FromFlatMap(map[string]string{
		"general_DIRECTO_DIRECTO_PRIMER_PAGO": "60.0",
	})
	baseline := overrides.NewSnapshot(map[string]string{
		"general_DIRECTO_DIRECTO_PRIMER_PAGO": "60",
	})

	cs := overrides.ComputeChangeSet(store, baseline, diffOpts())
	assert.True(t, cs.Empty())
}

func TestDiffSingleGeneralChange(t *testing.T) {
	baseline := overrides.NewSnapshot(map[string]string{
		"general_DIRECTO_DIRECTO_PRIMER_PAGO":  "60",
		"general_DIRECTO_DIRECTO_SEGUNDO_PAGO": "10",
	})
	store, _ := overrides.FromFlatMap(map[string]string{
		"general_DIRECTO_DIRECTO_PRIMER_PAGO":  "65",
		"general_DIRECTO_DIRECTO_SEGUNDO_PAGO": "10",
	})

	cs := overrides.ComputeChangeSet(store, baseline, diffOpts())
	require.Equal(t, 1, cs.Size())
	require.Len(t, cs.General, 1)
	entry := cs.General[0]
	assert.Equal(t, "DIRECTO", entry.Coordinate.BetTypeCode)
	assert.Equal(t, "DIRECTO_PRIMER_PAGO", entry.Coordinate.FieldCode)
	assert.Equal(t, "65", entry.Value)
	assert.False(t, entry.Cleared)
}

func TestDiffClearedEntryEmitsRemoval(t *testing.T) {
	key := "draw_181_DIRECTO_DIRECTO_PRIMER_PAGO"
	baseline := overrides.NewSnapshot(map[string]string{key: "72"})
	store, _ := overrides.FromFlatMap(map[string]string{key: "72"})
	store.ClearKey(key)

	cs := overrides.ComputeChangeSet(store, baseline, diffOpts())
	require.Equal(t, 1, cs.Size())
	entries := cs.ByDraw[181]
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Cleared)
	assert.Equal(t, models.DrawScope(181), entries[0].Coordinate.Scope)
}

func TestDiffClearingUnpersistedValueEmitsNothing(t *testing.T) {
	key := "draw_181_DIRECTO_DIRECTO_PRIMER_PAGO"
	store := overrides.NewStore()
	require.NoError(t, store.SetKey(key, "72"))
	store.ClearKey(key)

	cs := overrides.ComputeChangeSet(store, overrides.EmptySnapshot(), diffOpts())
	assert.True(t, cs.Empty())
}

func TestDiffNewlySetValue(t *testing.T) {
	store, _ := overrides.FromFlatMap(map[string]string{
		"draw_43_SUPER_PALE_TODO_EN_PRIMERA": "1500",
	})

	cs := overrides.ComputeChangeSet(store, overrides.EmptySnapshot(), diffOpts())
	require.Equal(t, 1, cs.Size())
	require.Len(t, cs.ByDraw[43], 1)
	assert.Equal(t, "1500", cs.ByDraw[43][0].Value)
}

func TestDiffPartitionsByDraw(t *testing.T) {
	store, _ := overrides.FromFlatMap(map[string]string{
		"general_DIRECTO_DIRECTO_PRIMER_PAGO":    "65",
		"draw_43_DIRECTO_DIRECTO_PRIMER_PAGO":    "70",
		"draw_44_DIRECTO_DIRECTO_PRIMER_PAGO":    "71",
		"draw_181_SUPER_PALE_TODO_EN_PRIMERA":    "1800",
		"general_COMMISSION_DIRECTO_DESCUENTO_1": "12",
	})

	cs := overrides.ComputeChangeSet(store, overrides.EmptySnapshot(), diffOpts())
	assert.Equal(t, 5, cs.Size())
	assert.Len(t, cs.General, 2)
	assert.Len(t, cs.ByDraw, 3)
	assert.Len(t, cs.ByDraw[43], 1)
	assert.Len(t, cs.ByDraw[44], 1)
	assert.Len(t, cs.ByDraw[181], 1)
}

func TestDiffRestrictedToOneDraw(t *testing.T) {
	store, _ := overrides.FromFlatMap(map[string]string{
		"general_DIRECTO_DIRECTO_PRIMER_PAGO": "65",
		"draw_43_DIRECTO_DIRECTO_PRIMER_PAGO": "70",
		"draw_44_DIRECTO_DIRECTO_PRIMER_PAGO": "71",
	})

	opts := diffOpts()
	drawID := 43
	opts.OnlyDrawID = &drawID

	cs := overrides.ComputeChangeSet(store, overrides.EmptySnapshot(), opts)
	assert.Equal(t, 1, cs.Size())
	assert.Empty(t, cs.General)
	assert.Len(t, cs.ByDraw[43], 1)
}

func TestDiffLegacyKeysJoinTheirDraw(t *testing.T) {
	store, _ := overrides.FromFlatMap(map[string]string{
		"lottery_7_DIRECTO_DIRECTO_PRIMER_PAGO": "66",
	})

	cs := overrides.ComputeChangeSet(store, overrides.EmptySnapshot(), diffOpts())
	require.Equal(t, 1, cs.Size())
	assert.Len(t, cs.ByDraw[181], 1)
}

func TestDiffDropsUndecodableKeys(t *testing.T) {
	store := overrides.NewStore()
	require.NoError(t, store.SetKey("general_DIRECTO_DIRECTO_PRIMER_PAGO", "65"))
	require.NoError(t, store.SetKey("mystery_key_9", "1"))

	cs := overrides.ComputeChangeSet(store, overrides.EmptySnapshot(), diffOpts())
	assert.Equal(t, 1, cs.Size())
	assert.Len(t, cs.General, 1)
}
