package models

import "fmt"

// FieldDomain distinguishes the three override field families.
type FieldDomain string

const (
	DomainPrize       FieldDomain = "PRIZE"
	DomainCommission  FieldDomain = "COMMISSION"
	DomainCommission2 FieldDomain = "COMMISSION2"
)

// ScopeKind tags the two levels an override can live at.
type ScopeKind string

const (
	ScopeGeneral ScopeKind = "GENERAL"
	ScopeDraw    ScopeKind = "DRAW"
)

// Scope is a tagged union: either the pool-wide general level or one draw.
// DrawID is meaningful only when Kind is ScopeDraw.
type Scope struct {
	Kind   ScopeKind `json:"kind"`
	DrawID int       `json:"drawId,omitempty"`
}

// GeneralScope returns the pool-wide scope.
func GeneralScope() Scope {
	return Scope{Kind: ScopeGeneral}
}

// DrawScope returns the scope for a single draw.
func DrawScope(drawID int) Scope {
	return Scope{Kind: ScopeDraw, DrawID: drawID}
}

// IsGeneral reports whether the scope is the pool-wide level.
func (s Scope) IsGeneral() bool {
	return s.Kind == ScopeGeneral
}

func (s Scope) String() string {
	if s.Kind == ScopeDraw {
		return fmt.Sprintf("draw_%d", s.DrawID)
	}
	return "general"
}

// OverrideCoordinate is the addressable unit of the override hierarchy:
// one (scope, bet type, domain, field) cell.
type OverrideCoordinate struct {
	Scope       Scope       `json:"scope"`
	BetTypeCode string      `json:"betTypeCode"`
	Domain      FieldDomain `json:"domain"`
	FieldCode   string      `json:"fieldCode"`
}

// OverrideEntry pairs a coordinate with its raw value. Values are carried as
// strings until save time so in-progress decimal entry survives round trips.
// Cleared marks an explicit removal, which is distinct from "never set".
type OverrideEntry struct {
	Coordinate OverrideCoordinate `json:"coordinate"`
	Value      string             `json:"value"`
	Cleared    bool               `json:"cleared,omitempty"`
}

// Origin describes where a resolved value came from.
type Origin string

const (
	OriginExplicitHere     Origin = "EXPLICIT_HERE"
	OriginInheritedGeneral Origin = "INHERITED_GENERAL"
	OriginSystemDefault    Origin = "SYSTEM_DEFAULT"
)

// Resolution is the effective value for a coordinate plus its provenance.
type Resolution struct {
	Value  string `json:"value"`
	Origin Origin `json:"origin"`
}
