package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gantt2img/internal/config"
	"gantt2img/internal/input"
	"gantt2img/pkg/autofit"
	"gantt2img/pkg/model"
	"gantt2img/pkg/render"
	"gantt2img/pkg/store"
	"gantt2img/pkg/surface"
	"gantt2img/pkg/surface/raster"
	"gantt2img/pkg/surface/svg"
)

// ErrUnsupportedOutput is returned for output files that are neither .png nor .svg.
var ErrUnsupportedOutput = errors.New("unsupported output format")

const defaultWidth = 1200

type renderOptions struct {
	Input  string
	Output string

	Width  float64
	Height float64 // content height; 0 fits every row
	Ratio  float64

	Zoom    float64 // negative leaves the zoom to auto-fit
	AutoFit bool
	Center  string
	Pan     float64
	Scroll  float64

	Select   string
	Collapse []string
	Disable  []string
	Curved   bool
	Marker   string
	Now      string
	HideNow  bool
	Watch    bool
}

func newRenderCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <input.csv|input.yaml>",
		Short: "Render a timeline to PNG or SVG",
		Long: `Render reads a CSV or YAML timeline and writes an image. The output format
follows the extension of --output. Without --zoom or --center the view is fitted
to the data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := a.renderOptions(args[0])
			run := func() error {
				s, err := a.render(o)
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), s)
				return nil
			}
			if err := run(); err != nil {
				return err
			}
			if !o.Watch {
				return nil
			}

			paths := []string{o.Input}
			if c := a.v.GetString("config"); c != "" {
				paths = append(paths, c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", strings.Join(paths, ", "))
			return watch(cmd.Context(), paths, a.logger, func() {
				if err := run(); err != nil {
					a.logger.Error("render failed", "error", err)
				}
			})
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", "", "output file, .png or .svg (default: input name with .svg)")
	f.Float64P("width", "w", defaultWidth, "image width in logical pixels")
	f.Float64("height", 0, "content height in logical pixels (default: all rows)")
	f.Float64("ratio", 1, "pixel ratio of the output")
	f.Float64P("zoom", "z", -1, "zoom level 0-100 (default: fit the data)")
	f.Bool("auto-fit", true, "fit the data when neither --zoom nor --center is given")
	f.String("center", "", "timestamp to center the view on")
	f.Float64("pan", 0, "horizontal pan in pixels, positive moves to earlier times")
	f.Float64("scroll", 0, "vertical scroll offset in pixels")
	f.String("select", "", "id of the selected element")
	f.StringSlice("collapse", nil, "ids of collapsed groups")
	f.StringSlice("disable", nil, "ids drawn as ghosts")
	f.Bool("curved", false, "round the corners of dependency arrows")
	f.String("marker", "", "timestamp of a custom marker")
	f.String("now", "", "timestamp used as the current time")
	f.Bool("hide-now", false, "do not draw the current-time marker")
	f.Bool("watch", false, "re-render when the input or config file changes")

	for _, name := range []string{
		"output", "width", "height", "ratio", "zoom", "auto-fit", "center", "pan", "scroll",
		"select", "collapse", "disable", "curved", "marker", "now", "hide-now", "watch",
	} {
		_ = a.v.BindPFlag("render."+name, f.Lookup(name))
	}
	return cmd
}

func (a *app) renderOptions(in string) renderOptions {
	v := a.v
	o := renderOptions{
		Input:    in,
		Output:   v.GetString("render.output"),
		Width:    v.GetFloat64("render.width"),
		Height:   v.GetFloat64("render.height"),
		Ratio:    v.GetFloat64("render.ratio"),
		Zoom:     v.GetFloat64("render.zoom"),
		AutoFit:  v.GetBool("render.auto-fit"),
		Center:   v.GetString("render.center"),
		Pan:      v.GetFloat64("render.pan"),
		Scroll:   v.GetFloat64("render.scroll"),
		Select:   v.GetString("render.select"),
		Collapse: v.GetStringSlice("render.collapse"),
		Disable:  v.GetStringSlice("render.disable"),
		Curved:   v.GetBool("render.curved"),
		Marker:   v.GetString("render.marker"),
		Now:      v.GetString("render.now"),
		HideNow:  v.GetBool("render.hide-now"),
		Watch:    v.GetBool("render.watch"),
	}
	o.Output = outputFilename(o.Input, o.Output)
	if !(o.Width > 0) {
		o.Width = defaultWidth
	}
	return o
}

// outputFilename returns outputFile, or the input's base name with an .svg
// extension when it is empty.
func outputFilename(inputFile, outputFile string) string {
	if outputFile != "" {
		return outputFile
	}
	base := filepath.Base(inputFile)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".svg"
}

// layers are the header and content surfaces of one output file.
type layers struct {
	header  surface.Surface
	content surface.Surface
	write   func(path string) error
}

func newLayers(path string, ratio float64) (layers, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		header, err := raster.New(1, 1, ratio)
		if err != nil {
			return layers{}, err
		}
		content, err := raster.New(1, 1, ratio)
		if err != nil {
			return layers{}, err
		}
		return layers{
			header:  header,
			content: content,
			write: func(path string) error {
				return raster.WritePNG(path, raster.Stack(header, content))
			},
		}, nil
	case ".svg":
		header := svg.New(1, 1, ratio)
		header.SetIDPrefix("header-")
		content := svg.New(1, 1, ratio)
		content.SetIDPrefix("content-")
		return layers{
			header:  header,
			content: content,
			write: func(path string) error {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("error creating SVG file: %w", err)
				}
				if err := svg.Stack(f, header, content); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			},
		}, nil
	default:
		return layers{}, fmt.Errorf("%w: %q", ErrUnsupportedOutput, ext)
	}
}

// summary describes one written image.
type summary struct {
	Output  string
	Width   float64
	Height  float64
	Ratio   float64
	Total   int
	Zoom    float64
	Unit    string
	Range   store.TimeRange
	Stats   render.Stats
	Loc     *time.Location
	Elapsed time.Duration
}

func (a *app) render(o renderOptions) (summary, error) {
	began := time.Now()
	cfg, err := config.Load(a.v.GetString("config"))
	if err != nil {
		return summary{}, err
	}
	eng, err := cfg.Engine()
	if err != nil {
		return summary{}, err
	}
	chart, err := input.Load(o.Input, eng.Location)
	if err != nil {
		return summary{}, err
	}
	ls, err := newLayers(o.Output, o.Ratio)
	if err != nil {
		return summary{}, err
	}

	st := cfg.Style()
	if o.Curved {
		st.Dependency.Curved = true
	}
	clock := time.Now
	if o.Now != "" {
		ms, err := input.ParseTimestamp(o.Now, eng.Location)
		if err != nil {
			return summary{}, fmt.Errorf("invalid --now: %w", err)
		}
		fixed := time.UnixMilli(ms)
		clock = func() time.Time { return fixed }
	}

	opts := []render.Option{
		render.WithLogger(a.logger),
		render.WithCurve(eng.Curve),
		render.WithStyle(st),
		render.WithLocation(eng.Location),
		render.WithLabelSpacing(eng.LabelSpacing),
		render.WithBuffer(eng.Buffer),
		render.WithFitPadding(eng.FitPadding),
		render.WithPixelRatio(o.Ratio),
		render.WithClock(clock),
	}
	hasZoom := o.Zoom >= 0
	if hasZoom {
		opts = append(opts, render.WithZoom(o.Zoom))
	}
	r := render.New(opts...)

	height := o.Height
	if !(height > 0) {
		height = r.ContentHeight(len(chart.Elements), st.RowHeight)
	}
	r.SetSurface(render.LayerTimeline, ls.header, o.Width, st.Header.Height)
	r.SetSurface(render.LayerContent, ls.content, o.Width, height)

	if err := a.position(r, chart.Elements, o, eng.Location, hasZoom); err != nil {
		return summary{}, err
	}

	frame := render.Frame{
		Elements:     chart.Elements,
		Dependencies: chart.Dependencies,
		ScrollTop:    o.Scroll,
		SelectedID:   o.Select,
		Collapsed:    o.Collapse,
		Disabled:     o.Disable,
		HideNow:      o.HideNow || !cfg.Display.ShowNow,
	}
	if o.Marker != "" {
		ms, err := input.ParseTimestamp(o.Marker, eng.Location)
		if err != nil {
			return summary{}, fmt.Errorf("invalid --marker: %w", err)
		}
		frame.Marker = &ms
	}

	if err := r.Render(frame); err != nil {
		return summary{}, err
	}
	for i := 0; i < 2 && r.NeedsRedraw(); i++ {
		if err := r.Render(frame); err != nil {
			return summary{}, err
		}
	}
	if err := ls.write(o.Output); err != nil {
		return summary{}, err
	}

	a.logger.Info("image written", "path", o.Output, "elements", len(chart.Elements), "dependencies", len(chart.Dependencies))
	return summary{
		Output:  o.Output,
		Width:   o.Width,
		Height:  height + st.Header.Height,
		Ratio:   r.PixelRatio(),
		Total:   len(chart.Elements),
		Zoom:    r.Zoom(),
		Unit:    r.TimeUnitName(),
		Range:   r.VisibleTimeRange(),
		Stats:   r.Stats(),
		Loc:     eng.Location,
		Elapsed: time.Since(began),
	}, nil
}

// position applies auto-fit, an explicit center, or centers on the data, and
// then the pan offset.
func (a *app) position(r *render.Renderer, elements []model.Element, o renderOptions, loc *time.Location, hasZoom bool) error {
	hasCenter := o.Center != ""
	switch {
	case autofit.ShouldAutoFit(o.AutoFit, hasZoom, hasCenter):
		if _, ok := r.AutoFit(elements); !ok {
			a.logger.Warn("nothing to fit, keeping the default view", "input", o.Input)
		}
	case hasCenter:
		ms, err := input.ParseTimestamp(o.Center, loc)
		if err != nil {
			return fmt.Errorf("invalid --center: %w", err)
		}
		r.Center(float64(ms))
	default:
		if rng, ok := autofit.DataRange(elements); ok {
			r.Center((rng.Start + rng.End) / 2)
		}
	}
	r.Pan(o.Pan)
	return nil
}
