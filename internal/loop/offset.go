package loop

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned when the carousel cannot be laid out.
// It is recoverable: the carousel stays idle until valid geometry arrives.
var ErrInvalidGeometry = errors.New("invalid carousel geometry")

// ErrEmpty is the geometry error for an empty item set. Controllers treat it
// as a quiet no-op state rather than a fault.
var ErrEmpty = fmt.Errorf("%w: no items", ErrInvalidGeometry)

// Geometry describes the items laid out on the scroll surface.
type Geometry struct {
	ItemExtent float64 // width of one item
	Spacing    float64 // gap after each item
	Count      int     // number of distinct items
}

// ItemWidth is the distance between the leading edges of two neighbouring items.
func (g Geometry) ItemWidth() float64 {
	return g.ItemExtent + g.Spacing
}

// Period is the offset distance after which the item sequence repeats.
func (g Geometry) Period() float64 {
	return float64(g.Count) * g.ItemWidth()
}

// Validate reports why the geometry cannot be scrolled, if it cannot.
func (g Geometry) Validate() error {
	if g.Count <= 0 {
		return ErrEmpty
	}
	if !(g.ItemExtent > 0) || math.IsInf(g.ItemExtent, 0) {
		return fmt.Errorf("%w: item extent %v must be positive", ErrInvalidGeometry, g.ItemExtent)
	}
	if !(g.Spacing >= 0) || math.IsInf(g.Spacing, 0) {
		return fmt.Errorf("%w: spacing %v must not be negative", ErrInvalidGeometry, g.Spacing)
	}
	return nil
}

// Resolved is everything derived from a raw offset.
type Resolved struct {
	IndexFloat float64 // continuous item position
	Index      int     // nearest item, always in [0, Count)
	Normalized float64 // offset reduced into [0, Period)
	Wrapped    float64 // offset after a single wrap step
}

// Resolve maps a raw offset to its derived positions.
func Resolve(offset float64, g Geometry) (Resolved, error) {
	if err := g.Validate(); err != nil {
		return Resolved{}, err
	}
	p := g.Period()
	norm := math.Mod(offset, p)
	if norm < 0 {
		norm += p
	}
	return Resolved{
		IndexFloat: NearestIndexFloat(offset, g),
		Index:      NearestIndex(offset, g),
		Normalized: norm,
		Wrapped:    WrapOnce(offset, g),
	}, nil
}

// Round rounds half away from zero. Item boundaries at exact half offsets
// always resolve to the item further from zero.
func Round(x float64) float64 {
	return math.Round(x)
}

// Mod is the always non-negative remainder of a divided by n.
func Mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// NearestIndexFloat is the continuous item position of offset.
func NearestIndexFloat(offset float64, g Geometry) float64 {
	return offset / g.ItemWidth()
}

// NearestIndex is the item closest to offset, folded into [0, Count).
func NearestIndex(offset float64, g Geometry) int {
	return Mod(int(Round(NearestIndexFloat(offset, g))), g.Count)
}

// WrapOnce moves offset by exactly one period when it is outside [0, Period).
// It never reduces by more than one period; the surface only materializes one
// extra loop on either side.
func WrapOnce(offset float64, g Geometry) float64 {
	p := g.Period()
	switch {
	case offset >= p:
		return offset - p
	case offset < 0:
		return offset + p
	}
	return offset
}

// AlignedOffset is the offset of the item boundary nearest to offset.
func AlignedOffset(offset float64, g Geometry) float64 {
	w := g.ItemWidth()
	return Round(offset/w) * w
}

// IndexOffset is the resting offset of item i, in [0, Period).
func IndexOffset(i int, g Geometry) float64 {
	return float64(Mod(i, g.Count)) * g.ItemWidth()
}

// SnapTarget picks the item boundary a released drag should come to rest on.
// A fling faster than threshold always moves to the next boundary in the
// direction of travel; slower releases settle on the nearest one.
func SnapTarget(target, velocity, threshold float64, g Geometry) float64 {
	w := g.ItemWidth()
	pos := target / w
	idx := Round(pos)
	if math.Abs(velocity) > threshold {
		if velocity > 0 {
			idx = math.Ceil(pos)
		} else {
			idx = math.Floor(pos)
		}
	}
	return idx * w
}
