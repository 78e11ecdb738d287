package color

import (
	"fmt"
	"regexp"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		score, weight int
		want          Category
		fill          string
	}{
		{"critical risk", 2, 90, CriticalRisk, HexCritical},
		{"potential ally", 9, 10, PotentialAlly, HexAlly},
		{"ideal position", 9, 95, IdealPosition, HexIdeal},
		{"low priority", 1, 10, LowPriority, HexLow},
		{"midpoint", 5, 50, Blended, "rgb(251, 191, 36)"},

		// thresholds are strict
		{"relationship on high boundary", 7, 90, Blended, ""},
		{"weighting on high boundary", 2, 70, Blended, ""},
		{"relationship on low boundary", 3, 90, Blended, ""},
		{"both on low boundary", 3, 30, Blended, ""},

		// clamping
		{"score above range", 15, 95, IdealPosition, HexIdeal},
		{"negative inputs", -4, -10, LowPriority, HexLow},
		{"weighting above range", 0, 500, CriticalRisk, HexCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.score, tt.weight)
			if got.Category != tt.want {
				t.Errorf("Classify(%d, %d).Category = %v, want %v", tt.score, tt.weight, got.Category, tt.want)
			}
			if tt.fill != "" && got.Fill != tt.fill {
				t.Errorf("Classify(%d, %d).Fill = %q, want %q", tt.score, tt.weight, got.Fill, tt.fill)
			}
		})
	}
}

var cssRGB = regexp.MustCompile(`^rgb\(\d{1,3}, \d{1,3}, \d{1,3}\)$`)

func TestClassifyTotal(t *testing.T) {
	for score := -1; score <= 11; score++ {
		for weight := -10; weight <= 110; weight += 5 {
			got := Classify(score, weight)
			if got.Category == Blended {
				if !cssRGB.MatchString(got.Fill) {
					t.Fatalf("Classify(%d, %d).Fill = %q, not rgb()", score, weight, got.Fill)
				}
			} else if got.Fill[0] != '#' {
				t.Fatalf("Classify(%d, %d).Fill = %q, not hex", score, weight, got.Fill)
			}
			if got != Classify(score, weight) {
				t.Fatalf("Classify(%d, %d) not deterministic", score, weight)
			}
		}
	}
}

func TestBlendStops(t *testing.T) {
	tests := []struct {
		t    float64
		want string
	}{
		{0, "rgb(220, 38, 38)"},
		{0.5, "rgb(251, 191, 36)"},
		{1, "rgb(5, 150, 105)"},
		{-1, "rgb(220, 38, 38)"},
		{2, "rgb(5, 150, 105)"},
	}
	for _, tt := range tests {
		if got := CSS(Blend(tt.t)); got != tt.want {
			t.Errorf("Blend(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestBlendGammaIsBrighterThanLinear(t *testing.T) {
	// Gamma interpolation between red and yellow keeps the red channel above
	// the plain linear midpoint.
	c := Blend(0.25)
	linear := (stopRed.R + stopYellow.R) / 2
	if c.R < linear {
		t.Errorf("Blend(0.25).R = %v, want >= linear %v", c.R, linear)
	}
}

func TestCategoryString(t *testing.T) {
	if got := CriticalRisk.String(); got != "Critical Risk" {
		t.Errorf("String() = %q", got)
	}
	if got := Category(42).String(); got != "Category(42)" {
		t.Errorf("String() = %q", got)
	}
}

func TestResultHex(t *testing.T) {
	if got := Classify(2, 90).Hex(); got != HexCritical {
		t.Errorf("Hex() = %q, want %q", got, HexCritical)
	}
	if got := Classify(5, 50).Hex(); got != HexAlly {
		t.Errorf("Hex() = %q, want %q", got, HexAlly)
	}
}

func ExampleClassify() {
	for _, p := range [][2]int{{2, 90}, {9, 10}, {9, 95}, {1, 10}, {5, 50}} {
		r := Classify(p[0], p[1])
		fmt.Printf("%-14s %s\n", r.Category, r.Fill)
	}
	// Output:
	// Critical Risk  #dc2626
	// Potential Ally #fbbf24
	// Ideal Position #059669
	// Low Priority   #6b7280
	// Blended        rgb(251, 191, 36)
}
