package widget

import "math"

// HeightPolicy computes the phone frame height from the viewport height:
// max(Min, min(viewport*Ratio, Max)).
type HeightPolicy struct {
	Min   int
	Max   int
	Ratio float64
}

// BrowserHeight is the policy of the HTML phone frame, in pixels
var BrowserHeight = HeightPolicy{Min: 500, Max: 850, Ratio: 0.98}

// TerminalHeight is the policy of the terminal phone frame, in rows
var TerminalHeight = HeightPolicy{Min: 16, Max: 60, Ratio: 0.98}

// FrameHeight returns the frame height for a viewport of the given height
func (p HeightPolicy) FrameHeight(viewport int) int {
	capped := math.Min(float64(viewport)*p.Ratio, float64(p.Max))
	return int(math.Max(float64(p.Min), math.Floor(capped)))
}
