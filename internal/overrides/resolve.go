package overrides

import (
	"strconv"

	"github.com/bancalot/pool-admin-backend/internal/models"
)

// DefaultSource supplies system-default multipliers from the catalog.
// Commission fields have no catalog default and report ok=false.
type DefaultSource interface {
	DefaultMultiplier(betTypeCode, fieldCode string) (float64, bool)
}

// Resolve computes the effective value for a coordinate and where it came
// from. Precedence is explicit-at-this-scope, then the pool-wide general
// value for draw scopes, then the catalog default. The general scope has no
// fallback beyond the system default.
//
// Resolve runs on every render of an editable field, so it is pure lookup
// with no I/O: the catalog data behind defaults must already be in memory.
func Resolve(store *Store, defaults DefaultSource, c models.OverrideCoordinate) models.Resolution {
	if v, ok := store.Get(c); ok {
		return models.Resolution{Value: v, Origin: models.OriginExplicitHere}
	}

	if !c.Scope.IsGeneral() {
		general := c
		general.Scope = models.GeneralScope()
		if v, ok := store.Get(general); ok {
			return models.Resolution{Value: v, Origin: models.OriginInheritedGeneral}
		}
	}

	if c.Domain == models.DomainPrize && defaults != nil {
		if d, ok := defaults.DefaultMultiplier(c.BetTypeCode, c.FieldCode); ok {
			return models.Resolution{
				Value:  strconv.FormatFloat(d, 'f', -1, 64),
				Origin: models.OriginSystemDefault,
			}
		}
	}

	// Commission slots default to absent; there is no catalog default.
	return models.Resolution{Value: "", Origin: models.OriginSystemDefault}
}
