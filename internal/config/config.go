// Package config loads the YAML styling and engine file of the CLI and turns
// it into a paint.Style plus the engine settings the renderer needs.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"gantt2img/pkg/paint"
	"gantt2img/pkg/store"
	"gantt2img/pkg/zoom"
)

// Config is the complete styling file. A file only needs the keys it changes:
// Load unmarshals it over Default.
type Config struct {
	Font struct {
		Size float64 `yaml:"size"` // logical font size; the output pixel ratio scales it
	} `yaml:"font"`

	Colors struct {
		Background string `yaml:"background"` // content background (hex)
		Text       string `yaml:"text"`       // milestone and group labels
		Task       string `yaml:"task"`       // default task bar fill
		TaskLabel  string `yaml:"task_label"` // text inside task bars
		Milestone  string `yaml:"milestone"`  // default diamond fill
		Group      string `yaml:"group"`      // group brackets
		RowLine    string `yaml:"row_line"`   // horizontal row separators
		Selected   string `yaml:"selected"`   // selected row tint
		Now        string `yaml:"now"`        // current-time marker
		Marker     string `yaml:"marker"`     // custom marker
	} `yaml:"colors"`

	Rows struct {
		Height          float64 `yaml:"height"`            // row height in pixels
		TaskBarHeight   float64 `yaml:"task_bar_height"`   // bar height inside a row
		TaskRadius      float64 `yaml:"task_radius"`       // corner radius of task bars
		MilestoneSize   float64 `yaml:"milestone_size"`    // diamond width and height
		MinElementWidth float64 `yaml:"min_element_width"` // shortest drawn bar
		SelectedAlpha   float64 `yaml:"selected_alpha"`    // opacity of the selected row tint
	} `yaml:"rows"`

	Grid struct {
		MajorColor string  `yaml:"major_color"`
		MinorColor string  `yaml:"minor_color"`
		MajorWidth float64 `yaml:"major_width"` // 0 hides major lines
		MinorWidth float64 `yaml:"minor_width"` // 0 hides minor lines
	} `yaml:"grid"`

	Header struct {
		Height     float64 `yaml:"height"`
		Background string  `yaml:"background"`
		MajorTick  float64 `yaml:"major_tick"` // tick length from the bottom edge; 0 draws full height
		MinorTick  float64 `yaml:"minor_tick"` // same for minor lines
		Border     string  `yaml:"border"`
	} `yaml:"header"`

	Dependencies struct {
		Color          string  `yaml:"color"`
		HighlightColor string  `yaml:"highlight_color"` // edges leaving the selected element
		LineWidth      float64 `yaml:"line_width"`
		HighlightWidth float64 `yaml:"highlight_width"`
		Curved         bool    `yaml:"curved"`        // round the corners of routed arrows
		CornerRadius   float64 `yaml:"corner_radius"` // fillet radius in curved mode
		GridSpacing    float64 `yaml:"grid_spacing"`  // snap distance of vertical legs
		MinSourceRun   float64 `yaml:"min_source_run"`
		MinTargetRun   float64 `yaml:"min_target_run"`
	} `yaml:"dependencies"`

	Display struct {
		ShowLoopIcons    bool `yaml:"show_loop_icons"`    // append ↻ and ✕ to loop labels
		ShowInstanceTags bool `yaml:"show_instance_tags"` // append #n to repeated elements
		ShowNow          bool `yaml:"show_now"`           // draw the current-time marker
	} `yaml:"display"`

	Engine struct {
		ZoomPreset   string  `yaml:"zoom_preset"`   // default, gentle, steep or extreme
		Timezone     string  `yaml:"timezone"`      // IANA name for calendar boundaries
		LabelSpacing float64 `yaml:"label_spacing"` // minimum pixels between axis labels
		TimeBuffer   float64 `yaml:"time_buffer"`   // share of the window added on both sides
		RowBuffer    int     `yaml:"row_buffer"`    // rows rendered beyond the viewport
		FitPadding   float64 `yaml:"fit_padding"`   // auto-fit padding per side
	} `yaml:"engine"`
}

// Engine is the non-visual part of a Config, resolved to engine types.
type Engine struct {
	Curve        zoom.Curve
	Location     *time.Location
	LabelSpacing float64
	Buffer       store.Buffer
	FitPadding   float64
}

// Default returns the built-in configuration. Its Style equals paint.DefaultStyle.
func Default() Config {
	var c Config
	c.Font.Size = 12

	c.Colors.Background = "#FFFFFF"
	c.Colors.Text = "#333333"
	c.Colors.Task = "#4F94F9"
	c.Colors.TaskLabel = "#FFFFFF"
	c.Colors.Milestone = "#F05454"
	c.Colors.Group = "#333333"
	c.Colors.RowLine = "#F0F0F0"
	c.Colors.Selected = "#1890FF"
	c.Colors.Now = "#FF4D4F"
	c.Colors.Marker = "#722ED1"

	c.Rows.Height = paint.RowHeight
	c.Rows.TaskBarHeight = 22
	c.Rows.TaskRadius = 3
	c.Rows.MilestoneSize = paint.MilestoneSize
	c.Rows.MinElementWidth = paint.ElementMinWidth
	c.Rows.SelectedAlpha = 0.06

	c.Grid.MajorColor = "#C9C9C9"
	c.Grid.MinorColor = "#E8E8E8"
	c.Grid.MajorWidth = 1
	c.Grid.MinorWidth = 0.5

	c.Header.Height = 50
	c.Header.Background = "#FFFFFF"
	c.Header.MajorTick = 10
	c.Header.MinorTick = 0
	c.Header.Border = "#D9D9D9"

	c.Dependencies.Color = "#8C8C8C"
	c.Dependencies.HighlightColor = "#000000"
	c.Dependencies.LineWidth = 1.5
	c.Dependencies.HighlightWidth = 2.5
	c.Dependencies.CornerRadius = paint.DependencyRadius
	c.Dependencies.GridSpacing = 20
	c.Dependencies.MinSourceRun = 20
	c.Dependencies.MinTargetRun = 10

	c.Display.ShowLoopIcons = true
	c.Display.ShowInstanceTags = true
	c.Display.ShowNow = true

	c.Engine.ZoomPreset = "default"
	c.Engine.Timezone = "UTC"
	c.Engine.LabelSpacing = 50
	c.Engine.TimeBuffer = store.DefaultTimeBuffer
	c.Engine.RowBuffer = store.DefaultRowBuffer
	c.Engine.FitPadding = 0.05
	return c
}

// Load reads path over the defaults and validates the result. An empty path
// returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return Config{}, errs
	}
	return cfg, nil
}

// Style converts the visual settings. Colors were checked by Validate;
// anything still malformed falls back to the default color.
func (c Config) Style() paint.Style {
	st := paint.DefaultStyle()
	st.FontSize = c.Font.Size

	st.Background = paint.ParseColor(c.Colors.Background, st.Background)
	st.Text = paint.ParseColor(c.Colors.Text, st.Text)
	st.TaskColor = paint.ParseColor(c.Colors.Task, st.TaskColor)
	st.TaskLabel = paint.ParseColor(c.Colors.TaskLabel, st.TaskLabel)
	st.MilestoneColor = paint.ParseColor(c.Colors.Milestone, st.MilestoneColor)
	st.GroupColor = paint.ParseColor(c.Colors.Group, st.GroupColor)
	st.RowLine = paint.ParseColor(c.Colors.RowLine, st.RowLine)
	st.SelectedRow = paint.ParseColor(c.Colors.Selected, st.SelectedRow)
	st.NowColor = paint.ParseColor(c.Colors.Now, st.NowColor)
	st.MarkerColor = paint.ParseColor(c.Colors.Marker, st.MarkerColor)

	st.RowHeight = c.Rows.Height
	st.TaskBarHeight = c.Rows.TaskBarHeight
	st.TaskRadius = c.Rows.TaskRadius
	st.MilestoneSize = c.Rows.MilestoneSize
	st.MinElementWidth = c.Rows.MinElementWidth
	st.SelectedAlpha = c.Rows.SelectedAlpha

	st.GridMajorColor = paint.ParseColor(c.Grid.MajorColor, st.GridMajorColor)
	st.GridMinorColor = paint.ParseColor(c.Grid.MinorColor, st.GridMinorColor)
	st.GridMajorWidth = c.Grid.MajorWidth
	st.GridMinorWidth = c.Grid.MinorWidth

	st.Header.Height = c.Header.Height
	st.Header.Background = paint.ParseColor(c.Header.Background, st.Header.Background)
	st.Header.MajorTick = c.Header.MajorTick
	st.Header.MinorTick = c.Header.MinorTick
	st.Header.BorderColor = paint.ParseColor(c.Header.Border, st.Header.BorderColor)
	st.Header.PrimaryLabel = st.Text

	d := &st.Dependency
	d.Color = paint.ParseColor(c.Dependencies.Color, d.Color)
	d.HighlightColor = paint.ParseColor(c.Dependencies.HighlightColor, d.HighlightColor)
	d.LineWidth = c.Dependencies.LineWidth
	d.HighlightWidth = c.Dependencies.HighlightWidth
	d.Curved = c.Dependencies.Curved
	d.CornerRadius = c.Dependencies.CornerRadius
	d.GridSpacing = c.Dependencies.GridSpacing
	d.MinSourceRun = c.Dependencies.MinSourceRun
	d.MinTargetRun = c.Dependencies.MinTargetRun

	st.ShowLoopIcons = c.Display.ShowLoopIcons
	st.ShowInstanceTags = c.Display.ShowInstanceTags
	return st
}

// Engine resolves the zoom preset and the time zone.
func (c Config) Engine() (Engine, error) {
	preset, err := zoom.Preset(c.Engine.ZoomPreset)
	if err != nil {
		return Engine{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	loc, err := time.LoadLocation(c.Engine.Timezone)
	if err != nil {
		return Engine{}, fmt.Errorf("%w: timezone %q: %w", ErrInvalid, c.Engine.Timezone, err)
	}
	return Engine{
		Curve:        zoom.New(preset),
		Location:     loc,
		LabelSpacing: c.Engine.LabelSpacing,
		Buffer:       store.Buffer{TimeFraction: c.Engine.TimeBuffer, Rows: c.Engine.RowBuffer},
		FitPadding:   c.Engine.FitPadding,
	}, nil
}
