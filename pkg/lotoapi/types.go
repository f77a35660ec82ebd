package lotoapi

// PrizeConfigValue is one general or per-draw prize override as read from
// the platform.
type PrizeConfigValue struct {
	PrizeTypeID int     `json:"prizeTypeId"`
	FieldCode   string  `json:"fieldCode"`
	CustomValue float64 `json:"customValue"`
}

// PrizeConfigWrite is one prize override in a write payload. A nil Value
// resets the field to its default (clears the override).
type PrizeConfigWrite struct {
	PrizeTypeID int      `json:"prizeTypeId"`
	FieldCode   string   `json:"fieldCode"`
	Value       *float64 `json:"value"`
}

// DrawConfigGroup groups one draw's prize overrides inside a batch write.
type DrawConfigGroup struct {
	DrawID       int                `json:"drawId"`
	PrizeConfigs []PrizeConfigWrite `json:"prizeConfigs"`
}

// CommissionSlot is one discount slot value. Domain is 1 or 2; a nil Value
// clears the slot.
type CommissionSlot struct {
	Domain    int      `json:"domain"`
	SlotIndex int      `json:"slotIndex"`
	Value     *float64 `json:"value"`
}

// CommissionConfig carries the commission slots for one (gameType, lottery)
// pair. A nil LotteryID addresses the pool-wide general commissions.
type CommissionConfig struct {
	GameType  string           `json:"gameType"`
	LotteryID *int             `json:"lotteryId"`
	Slots     []CommissionSlot `json:"slots"`
}
