package overrides_test

import (
	"github.com/bancalot/pool-admin-backend/internal/catalog"
	"github.com/bancalot/pool-admin-backend/internal/models"
)

func testBetTypes() []models.BetType {
	return []models.BetType{
		{
			Code: "DIRECTO",
			Name: "Directo",
			Fields: []models.PrizeField{
				{PrizeTypeID: 1, FieldCode: "DIRECTO_PRIMER_PAGO", DefaultMultiplier: 60, MinMultiplier: 1, MaxMultiplier: 100},
				{PrizeTypeID: 2, FieldCode: "DIRECTO_SEGUNDO_PAGO", DefaultMultiplier: 10, MinMultiplier: 1, MaxMultiplier: 50},
			},
		},
		{
			Code: "SUPER_PALE",
			Name: "Super Pale",
			Fields: []models.PrizeField{
				{PrizeTypeID: 3, FieldCode: "TODO_EN_PRIMERA", DefaultMultiplier: 2000, MinMultiplier: 100, MaxMultiplier: 5000},
			},
		},
	}
}

func testIndex() *catalog.Index {
	return catalog.NewIndex(testBetTypes())
}

// resolveLottery maps lottery 7 to its first draw, 181.
func resolveLottery(lotteryID int) (int, bool) {
	if lotteryID == 7 {
		return 181, true
	}
	return 0, false
}
