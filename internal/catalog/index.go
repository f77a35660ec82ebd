package catalog

import (
	"github.com/bancalot/pool-admin-backend/internal/models"
)

// FieldRef ties a prize field back to its owning bet type.
type FieldRef struct {
	BetTypeCode string
	Field       models.PrizeField
}

// Index is an immutable lookup structure over one catalog fetch. It backs
// key decoding, default resolution and prizeTypeId mapping without touching
// the network.
type Index struct {
	betTypes      map[string]models.BetType
	fields        map[string]map[string]models.PrizeField
	byPrizeTypeID map[int]FieldRef
	codes         []string
}

// NewIndex builds an Index from catalog data.
func NewIndex(betTypes []models.BetType) *Index {
	ix := &Index{
		betTypes:      make(map[string]models.BetType, len(betTypes)),
		fields:        make(map[string]map[string]models.PrizeField, len(betTypes)),
		byPrizeTypeID: make(map[int]FieldRef),
		codes:         make([]string, 0, len(betTypes)),
	}
	for _, bt := range betTypes {
		ix.betTypes[bt.Code] = bt
		ix.codes = append(ix.codes, bt.Code)
		byCode := make(map[string]models.PrizeField, len(bt.Fields))
		for _, f := range bt.Fields {
			byCode[f.FieldCode] = f
			ix.byPrizeTypeID[f.PrizeTypeID] = FieldRef{BetTypeCode: bt.Code, Field: f}
		}
		ix.fields[bt.Code] = byCode
	}
	return ix
}

// BetTypeCodes returns every bet type code in the catalog.
func (ix *Index) BetTypeCodes() []string {
	return ix.codes
}

// BetType looks up a bet type by code.
func (ix *Index) BetType(code string) (models.BetType, bool) {
	bt, ok := ix.betTypes[code]
	return bt, ok
}

// Field looks up a prize field within a bet type.
func (ix *Index) Field(betTypeCode, fieldCode string) (models.PrizeField, bool) {
	byCode, ok := ix.fields[betTypeCode]
	if !ok {
		return models.PrizeField{}, false
	}
	f, ok := byCode[fieldCode]
	return f, ok
}

// FieldByPrizeTypeID reverses a catalog prizeTypeId into its field.
func (ix *Index) FieldByPrizeTypeID(id int) (FieldRef, bool) {
	ref, ok := ix.byPrizeTypeID[id]
	return ref, ok
}

// DefaultMultiplier returns a prize field's system default.
func (ix *Index) DefaultMultiplier(betTypeCode, fieldCode string) (float64, bool) {
	f, ok := ix.Field(betTypeCode, fieldCode)
	if !ok {
		return 0, false
	}
	return f.DefaultMultiplier, true
}

// ValidField reports whether a field code exists for a bet type in the given
// domain. Commission domains validate against the fixed slot schema, not the
// catalog.
func (ix *Index) ValidField(betTypeCode string, domain models.FieldDomain, fieldCode string) bool {
	if _, ok := ix.betTypes[betTypeCode]; !ok {
		return false
	}
	if domain == models.DomainPrize {
		_, ok := ix.Field(betTypeCode, fieldCode)
		return ok
	}
	return models.IsCommissionFieldCode(fieldCode)
}
