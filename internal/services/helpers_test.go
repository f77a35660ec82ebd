package services_test

import (
	"context"
	"sync"

	"github.com/bancalot/pool-admin-backend/internal/models"
	"github.com/bancalot/pool-admin-backend/pkg/lotoapi"
)

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func testBetTypes() []models.BetType {
	return []models.BetType{
		{
			Code: "DIRECTO",
			Name: "Directo",
			Fields: []models.PrizeField{
				{PrizeTypeID: 1, FieldCode: "DIRECTO_PRIMER_PAGO", Name: "Primer pago", DefaultMultiplier: 60},
				{PrizeTypeID: 2, FieldCode: "DIRECTO_SEGUNDO_PAGO", Name: "Segundo pago", DefaultMultiplier: 10},
			},
		},
		{
			Code: "PALE",
			Name: "Pale",
			Fields: []models.PrizeField{
				{PrizeTypeID: 3, FieldCode: "PALE_PRIMERA", Name: "Todo en primera", DefaultMultiplier: 1000},
			},
		},
	}
}

func testDraws() []models.Draw {
	return []models.Draw{
		{ID: 181, LotteryID: 7, Name: "Nacional Tarde", GameType: "DIRECTO"},
		{ID: 182, LotteryID: 7, Name: "Nacional Noche", GameType: "DIRECTO"},
		{ID: 43, LotteryID: 3, Name: "Leidsa", GameType: "DIRECTO"},
	}
}

// fakePlatformClient is an in-memory stand-in for pkg/lotoapi. Reads serve
// canned fixtures and count calls; writes record their payloads and can be
// armed to fail per endpoint.
type fakePlatformClient struct {
	mu sync.Mutex

	betTypes     []models.BetType
	draws        map[int][]models.Draw
	generalPrize map[int][]lotoapi.PrizeConfigValue
	drawPrize    map[int]map[int][]lotoapi.PrizeConfigValue
	commissions  map[int][]lotoapi.CommissionConfig

	errGeneralPrizeSave error
	errDrawPrizeSave    error
	errCommissionsSave  error

	savedGeneralPrize [][]lotoapi.PrizeConfigWrite
	savedDrawBatches  [][]lotoapi.DrawConfigGroup
	savedCommissions  [][]lotoapi.CommissionConfig

	fetchDrawsCalls       int
	fetchGeneralCalls     int
	fetchCommissionsCalls int
	fetchDrawPrizeCalls   int
}

func newFakeClient() *fakePlatformClient {
	return &fakePlatformClient{
		betTypes:     testBetTypes(),
		draws:        map[int][]models.Draw{},
		generalPrize: map[int][]lotoapi.PrizeConfigValue{},
		drawPrize:    map[int]map[int][]lotoapi.PrizeConfigValue{},
		commissions:  map[int][]lotoapi.CommissionConfig{},
	}
}

func (f *fakePlatformClient) setDrawPrize(poolID, drawID int, cfg []lotoapi.PrizeConfigValue) {
	if f.drawPrize[poolID] == nil {
		f.drawPrize[poolID] = map[int][]lotoapi.PrizeConfigValue{}
	}
	f.drawPrize[poolID][drawID] = cfg
}

func (f *fakePlatformClient) FetchBetTypes(ctx context.Context) ([]models.BetType, error) {
	return f.betTypes, nil
}

func (f *fakePlatformClient) FetchDraws(ctx context.Context, poolID int) ([]models.Draw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchDrawsCalls++
	return f.draws[poolID], nil
}

func (f *fakePlatformClient) FetchGeneralPrizeConfig(ctx context.Context, poolID int) ([]lotoapi.PrizeConfigValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchGeneralCalls++
	return f.generalPrize[poolID], nil
}

func (f *fakePlatformClient) SaveGeneralPrizeConfig(ctx context.Context, poolID int, configs []lotoapi.PrizeConfigWrite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errGeneralPrizeSave != nil {
		return f.errGeneralPrizeSave
	}
	f.savedGeneralPrize = append(f.savedGeneralPrize, configs)
	return nil
}

func (f *fakePlatformClient) FetchDrawPrizeConfig(ctx context.Context, poolID, drawID int) ([]lotoapi.PrizeConfigValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchDrawPrizeCalls++
	return f.drawPrize[poolID][drawID], nil
}

func (f *fakePlatformClient) SaveDrawPrizeConfigBatch(ctx context.Context, poolID int, groups []lotoapi.DrawConfigGroup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errDrawPrizeSave != nil {
		return f.errDrawPrizeSave
	}
	f.savedDrawBatches = append(f.savedDrawBatches, groups)
	return nil
}

func (f *fakePlatformClient) FetchCommissions(ctx context.Context, poolID int) ([]lotoapi.CommissionConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCommissionsCalls++
	return f.commissions[poolID], nil
}

func (f *fakePlatformClient) SaveCommissionsBatch(ctx context.Context, poolID int, configs []lotoapi.CommissionConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errCommissionsSave != nil {
		return f.errCommissionsSave
	}
	f.savedCommissions = append(f.savedCommissions, configs)
	return nil
}
