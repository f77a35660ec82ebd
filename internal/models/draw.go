package models

// Lottery represents a lottery product offered through the betting pools.
type Lottery struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	GameType string `json:"gameType"`
}

// Draw represents a scheduled lottery event. A draw belongs to exactly one
// lottery; per-draw overrides are addressed by DrawID and commission writes
// are keyed by the parent lottery.
type Draw struct {
	ID        int    `json:"id"`
	LotteryID int    `json:"lotteryId"`
	Name      string `json:"name"`
	GameType  string `json:"gameType"`
	DrawTime  string `json:"drawTime,omitempty"`
	Active    bool   `json:"active"`
}
