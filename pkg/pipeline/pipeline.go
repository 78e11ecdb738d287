// Package pipeline runs the build → layout → render pipeline for influence
// maps.
//
// The CLI, the interactive editor and the HTTP server all draw maps through
// this package so caching, filtering and format dispatch behave the same
// everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Resolve reporting lines into a rooted hierarchy
//  2. Layout: Position the hierarchy as a tidy tree
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// The layout stage produces a [layout.Document]; rendering only reads that
// document, so a cached layout never needs the hierarchy again.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, set, pipeline.Options{
//	    Formats:         []string{"svg", "json"},
//	    GroupByDivision: true,
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/matzehuels/influencemap/pkg/cache"
	"github.com/matzehuels/influencemap/pkg/errors"
	"github.com/matzehuels/influencemap/pkg/layout"
	"github.com/matzehuels/influencemap/pkg/viewport"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Editor
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = layout.DefaultWidth

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = layout.DefaultHeight

	// DefaultPNGScale is the resolution multiplier for PNG output.
	DefaultPNGScale = 2.0
)

// Visualization types.
const (
	VizTypeTree     = "tree"
	VizTypeNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeTree

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeTree:     true,
	VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Filter string `json:"filter,omitempty"` // case-insensitive name/role/division search

	// Layout options
	Width           float64 `json:"width,omitempty"`
	Height          float64 `json:"height,omitempty"`
	GroupByDivision bool    `json:"group_by_division,omitempty"`

	// Render options
	VizType     string              `json:"viz_type,omitempty"`
	Formats     []string            `json:"formats,omitempty"`
	Detailed    bool                `json:"detailed,omitempty"`    // nodelink labels with role, division and scores
	Selected    string              `json:"selected,omitempty"`    // stakeholder outlined in SVG output
	Interactive bool                `json:"interactive,omitempty"` // embed the node click script in SVG output
	Transform   *viewport.Transform `json:"transform,omitempty"`   // draw tree SVG under this pan/zoom instead of the document's
	Refresh     bool                `json:"refresh,omitempty"`     // bypass cache reads

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// SetHash is the content hash of the (filtered) stakeholder set.
	SetHash string

	// Document is the serialized layout.
	Document layout.Document

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid viz_type: %q (must be one of: tree, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:           o.Width,
		Height:          o.Height,
		GroupByDivision: o.GroupByDivision,
		Filter:          o.Filter,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	viz := o.VizType
	if o.Detailed {
		viz += "+detailed"
	}
	if o.Selected != "" {
		viz += "+selected=" + o.Selected
	}
	if o.Interactive {
		viz += "+interactive"
	}
	if o.Transform != nil {
		viz += "+transform=" + o.Transform.SVG()
	}
	return cache.ArtifactKeyOpts{VizType: viz, Format: format}
}
