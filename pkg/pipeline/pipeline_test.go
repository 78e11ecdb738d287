package pipeline

import (
	"testing"

	"github.com/matzehuels/influencemap/pkg/errors"
	"github.com/matzehuels/influencemap/pkg/viewport"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %q, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateVizType(t *testing.T) {
	tests := []struct {
		vizType string
		wantErr bool
	}{
		{"tree", false},
		{"nodelink", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVizType(tt.vizType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVizType(%q) error = %v, wantErr %v", tt.vizType, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.VizType != VizTypeTree {
		t.Errorf("VizType = %q, want %q", opts.VizType, VizTypeTree)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"json"}, GroupByDivision: true}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first call: %v", err)
	}
	first := opts

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if opts.Width != first.Width || opts.VizType != first.VizType || len(opts.Formats) != len(first.Formats) {
		t.Errorf("second call changed options: %+v -> %+v", first, opts)
	}
}

func TestOptionsInvalid(t *testing.T) {
	opts := Options{VizType: "tower"}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown viz type should fail validation")
	}

	opts = Options{Formats: []string{"gif"}}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown format should fail validation")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	plain := Options{VizType: VizTypeTree}
	selected := Options{VizType: VizTypeTree, Selected: "CFO"}
	detailed := Options{VizType: VizTypeNodelink, Detailed: true}

	if plain.ArtifactKeyOpts("svg") == selected.ArtifactKeyOpts("svg") {
		t.Error("selection should change the artifact key")
	}
	if got := detailed.ArtifactKeyOpts("dot").VizType; got != "nodelink+detailed" {
		t.Errorf("VizType = %q, want nodelink+detailed", got)
	}
	zoomed := Options{VizType: VizTypeTree, Transform: &viewport.Transform{X: 10, Y: 20, K: 1.5}}
	if plain.ArtifactKeyOpts("svg") == zoomed.ArtifactKeyOpts("svg") {
		t.Error("transform should change the artifact key")
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	opts := Options{Width: 800, Height: 600, GroupByDivision: true, Filter: "sales"}
	got := opts.LayoutKeyOpts()
	if got.Width != 800 || got.Height != 600 || !got.GroupByDivision || got.Filter != "sales" {
		t.Errorf("LayoutKeyOpts() = %+v", got)
	}
}
