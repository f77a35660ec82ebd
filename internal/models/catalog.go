package models

import "fmt"

// PrizeField defines a single prize multiplier belonging to a bet type.
// Catalog data is read-only here; it is maintained by the catalog admin screens.
type PrizeField struct {
	PrizeTypeID       int     `json:"prizeTypeId"`
	FieldCode         string  `json:"fieldCode"`
	Name              string  `json:"name"`
	DefaultMultiplier float64 `json:"defaultMultiplier"`
	MinMultiplier     float64 `json:"minMultiplier"`
	MaxMultiplier     float64 `json:"maxMultiplier"`
}

// BetType represents a wager category (e.g. "DIRECTO") and its prize fields.
type BetType struct {
	Code   string       `json:"code"`
	Name   string       `json:"name"`
	Fields []PrizeField `json:"prizeFields"`
}

// CommissionSlotCount is the fixed number of discount slots per commission domain.
// Commission fields are not catalog-driven; both domains carry exactly four slots.
const CommissionSlotCount = 4

// CommissionField identifies one discount slot within a commission domain.
type CommissionField struct {
	SlotIndex int         `json:"slotIndex"`
	Domain    FieldDomain `json:"domain"`
}

// CommissionFieldCode returns the field code for a commission slot (1-based).
func CommissionFieldCode(slotIndex int) string {
	return fmt.Sprintf("DESCUENTO_%d", slotIndex)
}

// CommissionFields returns the fixed commission field list for a domain.
func CommissionFields(domain FieldDomain) []CommissionField {
	fields := make([]CommissionField, 0, CommissionSlotCount)
	for i := 1; i <= CommissionSlotCount; i++ {
		fields = append(fields, CommissionField{SlotIndex: i, Domain: domain})
	}
	return fields
}

// IsCommissionFieldCode reports whether fieldCode names one of the fixed
// commission slots.
func IsCommissionFieldCode(fieldCode string) bool {
	_, ok := CommissionSlotIndex(fieldCode)
	return ok
}

// CommissionSlotIndex returns the 1-based slot a commission field code
// addresses.
func CommissionSlotIndex(fieldCode string) (int, bool) {
	for i := 1; i <= CommissionSlotCount; i++ {
		if fieldCode == CommissionFieldCode(i) {
			return i, true
		}
	}
	return 0, false
}
