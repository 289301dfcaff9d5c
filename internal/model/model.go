package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// CustomOwner is the owner id of pallets added by hand that belong to no stop.
const CustomOwner = "custom"

// StopKind classifies what happens to cargo at a route stop.
type StopKind int

const (
	StopPickup       StopKind = iota // Regular pickup, loads pallets
	StopDelivery                     // Regular delivery, unloads pallets
	StopExtraPickup                  // Additional pickup added by dispatch
	StopExtraDropoff                 // Additional drop added by dispatch
)

func (k StopKind) String() string {
	switch k {
	case StopDelivery:
		return "Delivery"
	case StopExtraPickup:
		return "ExtraPickup"
	case StopExtraDropoff:
		return "ExtraDropoff"
	default:
		return "Pickup"
	}
}

// Loads reports whether cargo is added to the vehicle at this kind of stop.
func (k StopKind) Loads() bool {
	return k == StopPickup || k == StopExtraPickup
}

// ParseStopKind converts a stop kind name to a StopKind. Matching is
// case-insensitive and ignores spaces, dashes and underscores.
func ParseStopKind(s string) (StopKind, bool) {
	n := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch n {
	case "pickup", "pu", "load":
		return StopPickup, true
	case "delivery", "del", "dropoff", "drop", "unload":
		return StopDelivery, true
	case "extrapickup", "xpu":
		return StopExtraPickup, true
	case "extradropoff", "extradelivery", "xdrop":
		return StopExtraDropoff, true
	default:
		return StopPickup, false
	}
}

// PalletSpec is the nominal footprint of one pallet in cm.
type PalletSpec struct {
	Width    int     `json:"width"`               // cm along the bed length
	Height   int     `json:"height"`              // cm along the bed width
	WeightKg float64 `json:"weight_kg,omitempty"` // informational only
}

// Validate returns ErrInvalidGeometry when either side is not positive.
func (p PalletSpec) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("pallet %dx%d: %w", p.Width, p.Height, ErrInvalidGeometry)
	}
	return nil
}

// Rotated returns the spec with width and height swapped.
func (p PalletSpec) Rotated() PalletSpec {
	return PalletSpec{Width: p.Height, Height: p.Width, WeightKg: p.WeightKg}
}

// SameFootprint reports whether both specs have identical dimensions.
func (p PalletSpec) SameFootprint(o PalletSpec) bool {
	return p.Width == o.Width && p.Height == o.Height
}

// TruckBed is the usable cargo floor of a vehicle.
type TruckBed struct {
	Length int `json:"length"` // cm, x axis (front to rear)
	Width  int `json:"width"`  // cm, y axis (left to right)
}

// Rect returns the bed as a rectangle anchored at the origin.
func (b TruckBed) Rect() Rect {
	return Rect{X: 0, Y: 0, W: b.Length, H: b.Width}
}

// Area returns the floor area in cm².
func (b TruckBed) Area() int {
	return b.Length * b.Width
}

// CargoUnit is one pallet tracked by the allocator.
type CargoUnit struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Spec        PalletSpec `json:"spec"` // nominal footprint the unit was demanded with
	Rect        Rect       `json:"rect"`
	Rotated     bool       `json:"rotated"`
	HasConflict bool       `json:"has_conflict"`
	IsOverflow  bool       `json:"is_overflow"`
	Label       string     `json:"label"`
	Color       string     `json:"color"`
}

// NewCargoUnit creates an unplaced unit for the given owner and spec.
func NewCargoUnit(owner string, spec PalletSpec, label, color string) CargoUnit {
	return CargoUnit{
		ID:      uuid.New().String()[:8],
		OwnerID: owner,
		Spec:    spec,
		Rect:    Rect{W: spec.Width, H: spec.Height},
		Label:   label,
		Color:   color,
	}
}

// IsCustom reports whether the unit was added by hand.
func (u CargoUnit) IsCustom() bool {
	return u.OwnerID == CustomOwner
}

// Apply copies the outcome of a placement onto the unit.
func (u *CargoUnit) Apply(p Placement) {
	u.Rect = p.Rect
	u.Rotated = p.Rotated
	u.HasConflict = p.HasConflict
	u.IsOverflow = p.IsOverflow
}

// Flags returns a short description of the unit state, used in logs.
func (u CargoUnit) Flags() string {
	switch {
	case u.IsOverflow:
		return "overflow"
	case u.HasConflict && u.Rotated:
		return "rotated-to-fit"
	case u.HasConflict:
		return "conflict"
	case u.Rotated:
		return "rotated"
	default:
		return "ok"
	}
}

// Placement is the result of a placement search.
type Placement struct {
	Rect        Rect `json:"rect"`
	Rotated     bool `json:"rotated"`
	HasConflict bool `json:"has_conflict"`
	IsOverflow  bool `json:"is_overflow"`
}

// Stop is a route stop supplied by the route planner.
type Stop struct {
	ID         string       `json:"id"`
	OrderIndex int          `json:"order_index"`
	OwnerID    string       `json:"owner_id"`
	Kind       StopKind     `json:"kind"`
	Pallets    []PalletSpec `json:"pallets,omitempty"`
	Count      int          `json:"count,omitempty"` // standard pallets on top of Pallets
	Label      string       `json:"label,omitempty"`
	Color      string       `json:"color,omitempty"`
}

// PalletCount returns the number of pallets handled at the stop: the listed
// pallets plus Count standard pallets.
func (s Stop) PalletCount() int {
	return len(s.Pallets) + max(s.Count, 0)
}

// ExpandPallets returns the stop's pallet specs. Listed pallets come first,
// followed by Count copies of the given default footprint.
func (s Stop) ExpandPallets(def PalletSpec) []PalletSpec {
	out := make([]PalletSpec, 0, s.PalletCount())
	out = append(out, s.Pallets...)
	for i := 0; i < max(s.Count, 0); i++ {
		out = append(out, def)
	}
	return out
}

// Validate checks the stop's own fields and every explicit pallet spec.
func (s Stop) Validate() error {
	if s.OwnerID == "" {
		return fmt.Errorf("stop %q: missing owner", s.ID)
	}
	if s.Kind < StopPickup || s.Kind > StopExtraDropoff {
		return fmt.Errorf("stop %q: kind %d: %w", s.ID, int(s.Kind), ErrInvalidStopKind)
	}
	for _, p := range s.Pallets {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("stop %q: %w", s.ID, err)
		}
	}
	return nil
}

// DemandEntry is the aggregated pallet demand of one owner.
type DemandEntry struct {
	Pallets []PalletSpec `json:"pallets"`
	Label   string       `json:"label"`
	Color   string       `json:"color"`
	Rank    int          `json:"rank"` // position of the owner's first pickup
}

// Demand maps owner ids to their demand.
type Demand map[string]DemandEntry

// Owners returns owner ids ordered by rank, then id.
func (d Demand) Owners() []string {
	owners := make([]string, 0, len(d))
	for id := range d {
		owners = append(owners, id)
	}
	sortOwners(owners, d)
	return owners
}

func sortOwners(owners []string, d Demand) {
	sort.Slice(owners, func(i, j int) bool {
		ri, rj := d[owners[i]].Rank, d[owners[j]].Rank
		if ri != rj {
			return ri < rj
		}
		return owners[i] < owners[j]
	})
}

// Total returns the number of demanded pallets across all owners.
func (d Demand) Total() int {
	n := 0
	for _, e := range d {
		n += len(e.Pallets)
	}
	return n
}

// PlanSettings holds allocator configuration.
type PlanSettings struct {
	GridStep       int        `json:"grid_step"`       // cm, search and snap granularity
	StandardPallet PalletSpec `json:"standard_pallet"` // footprint for count-only stops and slot capacity
	ZoneFraction   float64    `json:"zone_fraction"`   // share of bed width in the near/far zones
}

func DefaultSettings() PlanSettings {
	return PlanSettings{
		GridStep:       10,
		StandardPallet: PalletSpec{Width: 120, Height: 80},
		ZoneFraction:   0.3,
	}
}

// Normalized returns the settings with zero values replaced by defaults.
func (s PlanSettings) Normalized() PlanSettings {
	d := DefaultSettings()
	if s.GridStep <= 0 {
		s.GridStep = d.GridStep
	}
	if s.StandardPallet.Width <= 0 || s.StandardPallet.Height <= 0 {
		s.StandardPallet = d.StandardPallet
	}
	if s.ZoneFraction <= 0 || s.ZoneFraction > 0.5 {
		s.ZoneFraction = d.ZoneFraction
	}
	return s
}

// ownerColors is the palette assigned to owners that arrive without a color.
var ownerColors = []string{
	"#4CAF50", // green
	"#2196F3", // blue
	"#FF9800", // orange
	"#9C27B0", // purple
	"#00BCD4", // cyan
	"#F44336", // red
	"#FFEB3B", // yellow
	"#795548", // brown
}

// OwnerColor returns a palette color for the n-th owner.
func OwnerColor(n int) string {
	if n < 0 {
		n = -n
	}
	return ownerColors[n%len(ownerColors)]
}
