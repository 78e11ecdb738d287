// Package color classifies stakeholders into risk categories and picks
// their node fill.
//
// Scores are normalized first (r = relationship/10, d = weighting/100). The
// first matching rule wins:
//
//	d > 0.7 && r < 0.3   CriticalRisk   #dc2626
//	r > 0.7 && d < 0.3   PotentialAlly  #fbbf24
//	r > 0.7 && d > 0.7   IdealPosition  #059669
//	r < 0.3 && d < 0.3   LowPriority    #6b7280
//	otherwise            Blended        red-yellow-green scale at 0.7r + 0.3d
//
// The blended scale interpolates RGB channels with gamma 2.2 and is emitted
// in CSS "rgb(r, g, b)" form. All thresholds are strict, so a value sitting
// exactly on 0.3 or 0.7 falls through to Blended.
package color

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/influencemap/pkg/errors"
)

// Category is a risk category.
type Category int

const (
	Blended Category = iota
	CriticalRisk
	PotentialAlly
	IdealPosition
	LowPriority
)

var categoryNames = [...]string{
	Blended:       "Blended",
	CriticalRisk:  "Critical Risk",
	PotentialAlly: "Potential Ally",
	IdealPosition: "Ideal Position",
	LowPriority:   "Low Priority",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Fixed category fills.
const (
	HexCritical = "#dc2626"
	HexAlly     = "#fbbf24"
	HexIdeal    = "#059669"
	HexLow      = "#6b7280"
)

const (
	high  = 0.7
	low   = 0.3
	gamma = 2.2
)

var (
	stopRed    = mustHex(HexCritical)
	stopYellow = mustHex(HexAlly)
	stopGreen  = mustHex(HexIdeal)
	grey       = mustHex(HexLow)
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Result is the outcome of classifying one stakeholder.
type Result struct {
	Category Category       `json:"category"`
	Fill     string         `json:"fill"` // CSS color: hex for fixed categories, rgb() for Blended
	Color    colorful.Color `json:"-"`
}

// Hex returns the fill as a #rrggbb string, for terminals and formats
// that do not accept rgb().
func (r Result) Hex() string { return r.Color.Clamped().Hex() }

// Classify maps a relationship score (0-10) and decision weighting (0-100)
// to a category and fill. Out-of-range inputs are clamped.
func Classify(relationshipScore, decisionWeighting int) Result {
	r := clamp(float64(relationshipScore)/errors.MaxRelationshipScore, 0, 1)
	d := clamp(float64(decisionWeighting)/errors.MaxDecisionWeighting, 0, 1)

	switch {
	case d > high && r < low:
		return Result{Category: CriticalRisk, Fill: HexCritical, Color: stopRed}
	case r > high && d < low:
		return Result{Category: PotentialAlly, Fill: HexAlly, Color: stopYellow}
	case r > high && d > high:
		return Result{Category: IdealPosition, Fill: HexIdeal, Color: stopGreen}
	case r < low && d < low:
		return Result{Category: LowPriority, Fill: HexLow, Color: grey}
	}

	c := Blend(0.7*r + 0.3*d)
	return Result{Category: Blended, Fill: CSS(c), Color: c}
}

// Blend samples the red (0), yellow (0.5), green (1) scale at t.
// t is clamped to [0, 1].
func Blend(t float64) colorful.Color {
	t = clamp(t, 0, 1)
	if t <= 0.5 {
		return interpolateGamma(stopRed, stopYellow, t/0.5)
	}
	return interpolateGamma(stopYellow, stopGreen, (t-0.5)/0.5)
}

// CSS formats c as "rgb(r, g, b)" with channels rounded to 0..255.
func CSS(c colorful.Color) string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
}

// interpolateGamma raises each channel to gamma, interpolates linearly and
// takes the gamma root of the result.
func interpolateGamma(a, b colorful.Color, t float64) colorful.Color {
	ch := func(x, y float64) float64 {
		xa, yb := math.Pow(x, gamma), math.Pow(y, gamma)
		return math.Pow(xa+t*(yb-xa), 1/gamma)
	}
	return colorful.Color{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B)}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
