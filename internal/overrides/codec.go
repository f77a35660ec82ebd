// Package overrides implements the prize/commission override engine for a
// betting pool: the flat-key codec, the sparse override store, baseline
// snapshots, precedence resolution and the diff engine. Everything in this
// package is pure in-memory computation; persistence lives in the services
// layer.
package overrides

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bancalot/pool-admin-backend/internal/models"
)

// Flat keys have the shape <scope>_<domainPrefix><betTypeCode>_<fieldCode>:
//
//	general_DIRECTO_DIRECTO_PRIMER_PAGO
//	draw_181_COMMISSION_DIRECTO_DESCUENTO_1
//	general_COMMISSION2_PALE_DESCUENTO_3
//
// The scope segment is "general" or "draw_<drawId>". The domain prefix is
// empty for prize fields, "COMMISSION_" for domain 1 and "COMMISSION2_" for
// domain 2. Bet type codes and field codes may both contain underscores, so
// splitting is validated against the catalog rather than inferred from token
// positions alone.
const (
	generalPrefix     = "general_"
	drawPrefix        = "draw_"
	lotteryPrefix     = "lottery_"
	commissionPrefix  = "COMMISSION_"
	commission2Prefix = "COMMISSION2_"
)

// ErrUnrecognizedKey is returned by Decode for keys that do not match any
// known shape.
var ErrUnrecognizedKey = errors.New("unrecognized override key shape")

// LotteryDrawResolver maps a lottery ID to the draw that stands in for it
// when decoding legacy keys. The resolution rule is the lowest draw ID
// belonging to that lottery.
type LotteryDrawResolver func(lotteryID int) (drawID int, ok bool)

// CatalogView is the slice of catalog knowledge the codec needs to split
// bet type codes from field codes.
type CatalogView interface {
	BetTypeCodes() []string
	ValidField(betTypeCode string, domain models.FieldDomain, fieldCode string) bool
}

// DecodeOptions carries the collaborators Decode may consult. Both are
// optional: without a catalog the first token after the prefix is taken as
// the bet type code, and without a resolver legacy keys fail to decode.
type DecodeOptions struct {
	Catalog     CatalogView
	LotteryDraw LotteryDrawResolver
}

// Encode renders a coordinate as its flat form-state key.
func Encode(c models.OverrideCoordinate) string {
	return c.Scope.String() + "_" + domainPrefixFor(c.Domain) + c.BetTypeCode + "_" + c.FieldCode
}

func domainPrefixFor(domain models.FieldDomain) string {
	switch domain {
	case models.DomainCommission:
		return commissionPrefix
	case models.DomainCommission2:
		return commission2Prefix
	default:
		return ""
	}
}

// Decode parses a flat key back into a structured coordinate.
//
// One legacy shape is also accepted: "lottery_<lotteryId>_<betTypeCode>_<fieldCode>",
// written by an earlier version of the console that scoped overrides per
// lottery rather than per draw. It decodes to a Draw scope through
// opts.LotteryDraw. This is the sole backward-compatibility rule of the key
// format; no other shape is grandfathered.
func Decode(key string, opts DecodeOptions) (models.OverrideCoordinate, error) {
	scope, rest, err := decodeScope(key, opts.LotteryDraw)
	if err != nil {
		return models.OverrideCoordinate{}, err
	}

	domain := models.DomainPrize
	switch {
	case strings.HasPrefix(rest, commission2Prefix):
		domain = models.DomainCommission2
		rest = rest[len(commission2Prefix):]
	case strings.HasPrefix(rest, commissionPrefix):
		domain = models.DomainCommission
		rest = rest[len(commissionPrefix):]
	}

	betTypeCode, fieldCode, err := splitBetTypeField(rest, domain, opts.Catalog)
	if err != nil {
		return models.OverrideCoordinate{}, err
	}

	return models.OverrideCoordinate{
		Scope:       scope,
		BetTypeCode: betTypeCode,
		Domain:      domain,
		FieldCode:   fieldCode,
	}, nil
}

func decodeScope(key string, resolve LotteryDrawResolver) (models.Scope, string, error) {
	switch {
	case strings.HasPrefix(key, generalPrefix):
		return models.GeneralScope(), key[len(generalPrefix):], nil
	case strings.HasPrefix(key, drawPrefix):
		id, rest, err := splitLeadingID(key[len(drawPrefix):])
		if err != nil {
			return models.Scope{}, "", fmt.Errorf("%w: %q", ErrUnrecognizedKey, key)
		}
		return models.DrawScope(id), rest, nil
	case strings.HasPrefix(key, lotteryPrefix):
		lotteryID, rest, err := splitLeadingID(key[len(lotteryPrefix):])
		if err != nil {
			return models.Scope{}, "", fmt.Errorf("%w: %q", ErrUnrecognizedKey, key)
		}
		if resolve == nil {
			return models.Scope{}, "", fmt.Errorf("legacy key %q: no lottery resolver supplied", key)
		}
		drawID, ok := resolve(lotteryID)
		if !ok {
			return models.Scope{}, "", fmt.Errorf("legacy key %q: no draw known for lottery %d", key, lotteryID)
		}
		return models.DrawScope(drawID), rest, nil
	default:
		return models.Scope{}, "", fmt.Errorf("%w: %q", ErrUnrecognizedKey, key)
	}
}

func splitLeadingID(s string) (int, string, error) {
	idx := strings.Index(s, "_")
	if idx <= 0 || idx == len(s)-1 {
		return 0, "", ErrUnrecognizedKey
	}
	id, err := strconv.Atoi(s[:idx])
	if err != nil {
		return 0, "", ErrUnrecognizedKey
	}
	return id, s[idx+1:], nil
}

// splitBetTypeField separates "<betTypeCode>_<fieldCode>" where either part
// may contain underscores. Catalog-validated splits win; the positional
// first-token rule is only the fallback for bet types the catalog does not
// know.
func splitBetTypeField(rest string, domain models.FieldDomain, cat CatalogView) (string, string, error) {
	if cat != nil {
		codes := append([]string(nil), cat.BetTypeCodes()...)
		sort.Slice(codes, func(i, j int) bool { return len(codes[i]) > len(codes[j]) })
		for _, code := range codes {
			if !strings.HasPrefix(rest, code+"_") {
				continue
			}
			fieldCode := rest[len(code)+1:]
			if cat.ValidField(code, domain, fieldCode) {
				return code, fieldCode, nil
			}
		}
	}

	idx := strings.Index(rest, "_")
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", fmt.Errorf("%w: missing field code in %q", ErrUnrecognizedKey, rest)
	}
	return rest[:idx], rest[idx+1:], nil
}
