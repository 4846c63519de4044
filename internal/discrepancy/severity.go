package discrepancy

// SeverityTier is a triage classification derived from how often a row was flagged.
type SeverityTier int

// Severity tiers in ascending order.
const (
	SeverityLow SeverityTier = iota + 1
	SeverityMedium
	SeverityHigh
)

const (
	severityLowNameConstant     = "LOW"
	severityMediumNameConstant  = "MEDIUM"
	severityHighNameConstant    = "HIGH"
	severityUnknownNameConstant = "UNKNOWN"
	highlightYellowConstant     = "FFFF66"
	highlightOrangeConstant     = "FF9933"
	highlightRedConstant        = "FF0000"
)

// ClassifyCount maps a flag count to a tier: one or fewer is low, two is
// medium, three or more is high.
func ClassifyCount(flagCount int) SeverityTier {
	switch {
	case flagCount <= 1:
		return SeverityLow
	case flagCount == 2:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// String returns the tier name.
func (tier SeverityTier) String() string {
	switch tier {
	case SeverityLow:
		return severityLowNameConstant
	case SeverityMedium:
		return severityMediumNameConstant
	case SeverityHigh:
		return severityHighNameConstant
	default:
		return severityUnknownNameConstant
	}
}

// HighlightColor returns the RGB hex color used to present the tier.
func (tier SeverityTier) HighlightColor() string {
	switch tier {
	case SeverityMedium:
		return highlightOrangeConstant
	case SeverityHigh:
		return highlightRedConstant
	default:
		return highlightYellowConstant
	}
}

// Tally accumulates every flag raised against a row index during one run.
// Each run owns its own Tally.
type Tally struct {
	flagged []int
	counts  map[int]int
}

// NewTally constructs an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[int]int)}
}

// Flag records one flag for the row and returns the row's tier including it.
func (tally *Tally) Flag(rowIndex int) SeverityTier {
	if tally.counts == nil {
		tally.counts = make(map[int]int)
	}
	tally.flagged = append(tally.flagged, rowIndex)
	tally.counts[rowIndex]++
	return ClassifyCount(tally.counts[rowIndex])
}

// Count returns how many times the row has been flagged.
func (tally *Tally) Count(rowIndex int) int {
	return tally.counts[rowIndex]
}

// Tier returns the row's current tier.
func (tally *Tally) Tier(rowIndex int) SeverityTier {
	return ClassifyCount(tally.Count(rowIndex))
}

// Len returns the total number of flags recorded.
func (tally *Tally) Len() int {
	return len(tally.flagged)
}

// Reset clears every recorded flag.
func (tally *Tally) Reset() {
	tally.flagged = nil
	tally.counts = make(map[int]int)
}
