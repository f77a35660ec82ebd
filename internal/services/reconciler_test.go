package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bancalot/pool-admin-backend/internal/catalog"
	"github.com/bancalot/pool-admin-backend/internal/models"
	"github.com/bancalot/pool-admin-backend/internal/services"
)

func entry(scope models.Scope, betType string, domain models.FieldDomain, fieldCode, value string) models.OverrideEntry {
	return models.OverrideEntry{
		Coordinate: models.OverrideCoordinate{
			Scope:       scope,
			BetTypeCode: betType,
			Domain:      domain,
			FieldCode:   fieldCode,
		},
		Value: value,
	}
}

func clearedEntry(scope models.Scope, betType string, domain models.FieldDomain, fieldCode string) models.OverrideEntry {
	e := entry(scope, betType, domain, fieldCode, "")
	e.Cleared = true
	return e
}

func testDrawResolver() services.DrawResolver {
	draws := map[int]models.Draw{}
	for _, d := range testDraws() {
		draws[d.ID] = d
	}
	return func(drawID int) (models.Draw, bool) {
		d, ok := draws[drawID]
		return d, ok
	}
}

func TestPersistGeneralPrizesInOneRequest(t *testing.T) {
	client := newFakeClient()
	r := services.NewReconciler(client)
	ix := catalog.NewIndex(testBetTypes())

	cs := models.NewChangeSet()
	cs.Add(entry(models.GeneralScope(), "DIRECTO", models.DomainPrize, "DIRECTO_PRIMER_PAGO", "65"))
	cs.Add(entry(models.GeneralScope(), "DIRECTO", models.DomainPrize, "DIRECTO_SEGUNDO_PAGO", "12"))

	res := r.Persist(context.Background(), 9, cs, ix, testDrawResolver())

	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 0, res.Failed)
	require.Len(t, client.savedGeneralPrize, 1)
	writes := client.savedGeneralPrize[0]
	require.Len(t, writes, 2)
	assert.Equal(t, 1, writes[0].PrizeTypeID)
	require.NotNil(t, writes[0].Value)
	assert.Equal(t, float64(65), *writes[0].Value)
}

func TestPersistBatchesAllDrawsIntoOneRequest(t *testing.T) {
	client := newFakeClient()
	r := services.NewReconciler(client)
	ix := catalog.NewIndex(testBetTypes())

	cs := models.NewChangeSet()
	cs.Add(entry(models.DrawScope(182), "DIRECTO", models.DomainPrize, "DIRECTO_PRIMER_PAGO", "70"))
	cs.Add(entry(models.DrawScope(43), "DIRECTO", models.DomainPrize, "DIRECTO_PRIMER_PAGO", "71"))
	cs.Add(entry(models.DrawScope(181), "PALE", models.DomainPrize, "PALE_PRIMERA", "1200"))

	res := r.Persist(context.Background(), 9, cs, ix, testDrawResolver())

	assert.Equal(t, 3, res.Successful)
	require.Len(t, client.savedDrawBatches, 1)
	groups := client.savedDrawBatches[0]
	require.Len(t, groups, 3)
	assert.Equal(t, 43, groups[0].DrawID)
	assert.Equal(t, 181, groups[1].DrawID)
	assert.Equal(t, 182, groups[2].DrawID)
}

func TestPersistEmitsAtMostFourRequests(t *testing.T) {
	client := newFakeClient()
	r := services.NewReconciler(client)
	ix := catalog.NewIndex(testBetTypes())

	cs := models.NewChangeSet()
	cs.Add(entry(models.GeneralScope(), "DIRECTO", models.DomainPrize, "DIRECTO_PRIMER_PAGO", "65"))
	cs.Add(entry(models.GeneralScope(), "DIRECTO", models.DomainCommission, "DESCUENTO_1", "12"))
	cs.Add(entry(models.DrawScope(181), "DIRECTO", models.DomainPrize, "DIRECTO_PRIMER_PAGO", "70"))
	cs.Add(entry(models.DrawScope(182), "DIRECTO", models.DomainPrize, "DIRECTO_PRIMER_PAGO", "72"))
	cs.Add(entry(models.DrawScope(181), "DIRECTO", models.DomainCommission2, "DESCUENTO_2", "5"))
	cs.Add(entry(models.DrawScope(43), "PALE", models.DomainCommission, "DESCUENTO_1", "8"))

	res := r.Persist(context.Background(), 9, cs, ix, testDrawResolver())

	assert.Equal(t, 6, res.Successful)
	assert.Len(t, client.savedGeneralPrize, 1)
	assert.Len(t, client.savedDrawBatches, 1)
	// One batched call for general commissions, one for every draw commission.
	assert.Len(t, client.savedCommissions, 2)
}

func TestPersistClearedEntrySendsNilValue(t *testing.T) {
	client := newFakeClient()
	r := services.NewReconciler(client)
	ix := catalog.NewIndex(testBetTypes())

	cs := models.NewChangeSet()
	cs.Add(clearedEntry(models.GeneralScope(), "DIRECTO", models.DomainPrize, "DIRECTO_PRIMER_PAGO"))

	res := r.Persist(context.Background(), 9, cs, ix, testDrawResolver())

	assert.Equal(t, 1, res.Successful)
	require.Len(t, client.savedGeneralPrize, 1)
	require.Len(t, client.savedGeneralPrize[0], 1)
	assert.Nil(t, client.savedGeneralPrize[0][0].Value)
}

func TestPersistUnknownFieldFailsWithoutNetwork(t *testing.T) {
	client := newFakeClient()
	r := services.NewReconciler(client)
	ix := catalog.NewIndex(testBetTypes())

	cs := models.NewChangeSet()
	cs.Add(entry(models.GeneralScope(), "DIRECTO", models.DomainPrize, "NO_SUCH_FIELD", "65"))

	res := r.Persist(context.Background(), 9, cs, ix, testDrawResolver())

	assert.Equal(t, 0, res.Successful)
	assert.Equal(t, 1, res.Failed)
	assert.NotEmpty(t, res.Errors)
	assert.Empty(t, client.savedGeneralPrize)
	assert.Empty(t, client.savedDrawBatches)
	assert.Empty(t, client.savedCommissions)
}

func TestPersistUnknownDrawFailsWithoutNetwork(t *testing.T) {
	client := newFakeClient()
	r := services.NewReconciler(client)
	ix := catalog.NewIndex(testBetTypes())

	cs := models.NewChangeSet()
	cs.Add(entry(models.DrawScope(999), "DIRECTO", models.DomainPrize, "DIRECTO_PRIMER_PAGO", "70"))

	res := r.Persist(context.Background(), 9, cs, ix, testDrawResolver())

	assert.Equal(t, 1, res.Failed)
	assert.Empty(t, client.savedDrawBatches)
}

func TestPersistPartialFailureReportsBoth(t *testing.T) {
	client := newFakeClient()
	client.errCommissionsSave = errors.New("upstream 500")
	r := services.NewReconciler(client)
	ix := catalog.NewIndex(testBetTypes())

	prize := entry(models.GeneralScope(), "DIRECTO", models.DomainPrize, "DIRECTO_PRIMER_PAGO", "65")
	comm := entry(models.GeneralScope(), "DIRECTO", models.DomainCommission, "DESCUENTO_1", "12")
	cs := models.NewChangeSet()
	cs.Add(prize)
	cs.Add(comm)

	res := r.Persist(context.Background(), 9, cs, ix, testDrawResolver())

	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Applied, 1)
	assert.Equal(t, prize.Coordinate, res.Applied[0].Coordinate)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "upstream 500")
}

func TestPersistGroupsCommissionSlotsByLottery(t *testing.T) {
	client := newFakeClient()
	r := services.NewReconciler(client)
	ix := catalog.NewIndex(testBetTypes())

	cs := models.NewChangeSet()
	cs.Add(entry(models.DrawScope(181), "DIRECTO", models.DomainCommission, "DESCUENTO_1", "12"))
	cs.Add(entry(models.DrawScope(181), "DIRECTO", models.DomainCommission2, "DESCUENTO_3", "4"))
	cs.Add(entry(models.GeneralScope(), "DIRECTO", models.DomainCommission, "DESCUENTO_2", "9"))

	res := r.Persist(context.Background(), 9, cs, ix, testDrawResolver())
	require.Equal(t, 3, res.Successful)
	require.Len(t, client.savedCommissions, 2)

	general := client.savedCommissions[0]
	require.Len(t, general, 1)
	assert.Nil(t, general[0].LotteryID)
	require.Len(t, general[0].Slots, 1)
	assert.Equal(t, 2, general[0].Slots[0].SlotIndex)

	draw := client.savedCommissions[1]
	require.Len(t, draw, 1)
	require.NotNil(t, draw[0].LotteryID)
	assert.Equal(t, 7, *draw[0].LotteryID)
	assert.Equal(t, "DIRECTO", draw[0].GameType)
	require.Len(t, draw[0].Slots, 2)
	assert.Equal(t, 1, draw[0].Slots[0].Domain)
	assert.Equal(t, 2, draw[0].Slots[1].Domain)
}
