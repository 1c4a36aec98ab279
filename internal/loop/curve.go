package loop

// Curve is the timing function of an animated offset change. It maps
// elapsed fraction to progress fraction, both in [0, 1].
type Curve int

const (
	// Linear moves at constant speed.
	Linear Curve = iota
	// EaseIn starts slow and finishes fast.
	EaseIn
	// EaseOut starts fast and settles slowly; navigation uses it.
	EaseOut
	// EaseInOut is slow at both ends.
	EaseInOut
)

func (c Curve) String() string {
	switch c {
	case EaseIn:
		return "ease-in"
	case EaseOut:
		return "ease-out"
	case EaseInOut:
		return "ease-in-out"
	default:
		return "linear"
	}
}

// Apply maps animation progress t in [0,1] to eased progress.
func (c Curve) Apply(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	switch c {
	case EaseIn:
		return t * t * t
	case EaseOut:
		u := 1 - t
		return 1 - u*u*u
	case EaseInOut:
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u/2
	default:
		return t
	}
}
