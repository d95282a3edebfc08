package similarity

// Tier is a qualitative bucket for a similarity percentage.
type Tier int

const (
	TierWeak Tier = iota
	TierBorderline
	TierStrong
)

const (
	strongAbove     = 50.0
	borderlineFloor = 40.0
)

// Classify buckets a percentage: above 50 is strong, 40 to 50 inclusive is
// borderline, anything lower is weak.
func Classify(percentage float64) Tier {
	switch {
	case percentage > strongAbove:
		return TierStrong
	case percentage >= borderlineFloor:
		return TierBorderline
	default:
		return TierWeak
	}
}

func (t Tier) String() string {
	switch t {
	case TierStrong:
		return "strong"
	case TierBorderline:
		return "borderline"
	default:
		return "weak"
	}
}
