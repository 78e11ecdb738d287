package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/influencemap/internal/config"
	"github.com/matzehuels/influencemap/pkg/errors"
	pkgio "github.com/matzehuels/influencemap/pkg/io"
	"github.com/matzehuels/influencemap/pkg/pipeline"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// defaultOutputBase names render output when neither -o nor an input file
// is given.
const defaultOutputBase = "influence-map"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output          string  // output file path (or base path for multiple outputs)
	formats         string  // comma-separated formats
	vizType         string  // tree or nodelink
	groupByDivision bool    // regroup nodes into division columns
	filter          string  // name/role/division search
	selected        string  // stakeholder to outline
	width           float64 // viewport width in pixels
	height          float64 // viewport height in pixels
	detailed        bool    // nodelink labels with role, division and scores
	interactive     bool    // embed the click script in SVG output
	noCache         bool    // bypass the render cache entirely
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the influence map to SVG, PNG, PDF, JSON or DOT",
		Long: `Render the influence map. Without a file the stored map is rendered;
with a file (JSON or YAML) that file is rendered and the stored map is left
alone.

Formats:
  svg   tree diagram (default)
  png   rasterized SVG (needs rsvg-convert)
  pdf   vector PDF (needs rsvg-convert)
  json  positioned layout document
  dot   Graphviz source (nodelink type)`,
		Example: `  influencemap render
  influencemap render team.yaml -f svg,png --group-by-division
  influencemap render -t nodelink -f svg,dot --filter sales`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runRender(cmd, cfg, file, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg, png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", "", "visualization type: tree (default), nodelink")
	cmd.Flags().BoolVar(&opts.groupByDivision, "group-by-division", false, "arrange stakeholders in division columns")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "only render stakeholders matching this text")
	cmd.Flags().StringVar(&opts.selected, "select", "", "outline this stakeholder")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show role, division and scores (nodelink)")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "embed a click handler in SVG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

// pipelineOptions merges flags over config defaults.
func (o renderOpts) pipelineOptions(cmd *cobra.Command, cfg config.Config) pipeline.Options {
	opts := pipeline.Options{
		Filter:          o.filter,
		Width:           cfg.Render.Width,
		Height:          cfg.Render.Height,
		GroupByDivision: cfg.Render.GroupByDivision,
		VizType:         cfg.Render.VizType,
		Formats:         parseFormats(o.formats, cfg.Render.Format),
		Detailed:        o.detailed,
		Selected:        o.selected,
		Interactive:     o.interactive,
	}
	if cmd.Flags().Changed("group-by-division") {
		opts.GroupByDivision = o.groupByDivision
	}
	if o.vizType != "" {
		opts.VizType = o.vizType
	}
	if o.width > 0 {
		opts.Width = o.width
	}
	if o.height > 0 {
		opts.Height = o.height
	}
	return opts
}

func (c *CLI) runRender(cmd *cobra.Command, cfg config.Config, file string, ro renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	opts := ro.pipelineOptions(cmd, cfg)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	set, err := c.renderSource(ctx, cfg, file)
	if err != nil {
		return err
	}
	if len(set) == 0 {
		printWarning("Map is empty")
	}

	runner, err := c.newRunner(cfg, ro.noCache, cacheScope(cfg, file))
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Rendering %d stakeholders...", len(set)))
	spinner.Start()
	result, err := runner.Execute(ctx, set, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d stakeholders", result.Stats.NodeCount))

	paths := outputPaths(ro.output, file, opts.Formats)
	printSuccess("Rendered influence map")
	for _, format := range opts.Formats {
		path := paths[format]
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// renderSource loads the set to render: the given file, or the stored map.
func (c *CLI) renderSource(ctx context.Context, cfg config.Config, file string) (stakeholder.Set, error) {
	if file != "" {
		return pkgio.Import(file)
	}
	sess, closeStore, err := c.openSession(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeStore()
	return sess.Current(), nil
}

// cacheScope names the cache namespace of a render: the store key for the
// stored map, the file name for a file.
func cacheScope(cfg config.Config, file string) string {
	if file != "" {
		return "file:" + filepath.Base(file)
	}
	return cfg.Store.StoreKey()
}

// outputPaths maps each format to a file path. A single format uses -o as
// is; several formats share -o (or the input name) as a base path.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}

	base := output
	if base == "" && input != "" {
		base = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	if base == "" {
		base = defaultOutputBase
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
