package lotoapi

import "github.com/bancalot/pool-admin-backend/internal/models"

// Mock data for local development without a reachable platform, mirroring a
// typical banca catalog.

func mockBetTypes() []models.BetType {
	return []models.BetType{
		{
			Code: "DIRECTO",
			Name: "Directo",
			Fields: []models.PrizeField{
				{PrizeTypeID: 1, FieldCode: "DIRECTO_PRIMER_PAGO", Name: "Primer pago", DefaultMultiplier: 60, MinMultiplier: 1, MaxMultiplier: 100},
				{PrizeTypeID: 2, FieldCode: "DIRECTO_SEGUNDO_PAGO", Name: "Segundo pago", DefaultMultiplier: 10, MinMultiplier: 1, MaxMultiplier: 50},
				{PrizeTypeID: 3, FieldCode: "DIRECTO_TERCER_PAGO", Name: "Tercer pago", DefaultMultiplier: 5, MinMultiplier: 1, MaxMultiplier: 25},
			},
		},
		{
			Code: "PALE",
			Name: "Pale",
			Fields: []models.PrizeField{
				{PrizeTypeID: 4, FieldCode: "PALE_TODO_EN_PRIMERA", Name: "Todo en primera", DefaultMultiplier: 1000, MinMultiplier: 100, MaxMultiplier: 2000},
				{PrizeTypeID: 5, FieldCode: "PALE_COMBINADO", Name: "Combinado", DefaultMultiplier: 100, MinMultiplier: 10, MaxMultiplier: 500},
			},
		},
		{
			Code: "TRIPLETA",
			Name: "Tripleta",
			Fields: []models.PrizeField{
				{PrizeTypeID: 6, FieldCode: "TRIPLETA_TODO_EN_PRIMERA", Name: "Todo en primera", DefaultMultiplier: 10000, MinMultiplier: 1000, MaxMultiplier: 25000},
				{PrizeTypeID: 7, FieldCode: "TRIPLETA_DOS_EN_PRIMERA", Name: "Dos en primera", DefaultMultiplier: 100, MinMultiplier: 10, MaxMultiplier: 500},
			},
		},
	}
}

func mockDraws() []models.Draw {
	return []models.Draw{
		{ID: 181, LotteryID: 7, Name: "Nacional Tarde", GameType: "LOTERIA", Active: true},
		{ID: 182, LotteryID: 7, Name: "Nacional Noche", GameType: "LOTERIA", Active: true},
		{ID: 43, LotteryID: 3, Name: "Leidsa Quiniela", GameType: "LOTERIA", Active: true},
		{ID: 44, LotteryID: 3, Name: "Leidsa Pega 3", GameType: "LOTERIA", Active: true},
	}
}
