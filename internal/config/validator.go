package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"gantt2img/pkg/zoom"
)

// ErrInvalid matches every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// ValidationError is one invalid field.
type ValidationError struct {
	Field   string // yaml path, e.g. "rows.height"
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every failure of one Validate call.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Is makes errors.Is(err, ErrInvalid) hold.
func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalid
}

// Validate reports every invalid field. A nil result means the config is usable.
func (c Config) Validate() ValidationErrors {
	var errs ValidationErrors
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg})
	}

	colors := map[string]string{
		"colors.background":            c.Colors.Background,
		"colors.text":                  c.Colors.Text,
		"colors.task":                  c.Colors.Task,
		"colors.task_label":            c.Colors.TaskLabel,
		"colors.milestone":             c.Colors.Milestone,
		"colors.group":                 c.Colors.Group,
		"colors.row_line":              c.Colors.RowLine,
		"colors.selected":              c.Colors.Selected,
		"colors.now":                   c.Colors.Now,
		"colors.marker":                c.Colors.Marker,
		"grid.major_color":             c.Grid.MajorColor,
		"grid.minor_color":             c.Grid.MinorColor,
		"header.background":            c.Header.Background,
		"header.border":                c.Header.Border,
		"dependencies.color":           c.Dependencies.Color,
		"dependencies.highlight_color": c.Dependencies.HighlightColor,
	}
	for field, v := range colors {
		if _, err := colorful.Hex(v); err != nil {
			add(field, v, "must be a hex color like #1A2B3C")
		}
	}

	positive := []struct {
		field string
		v     float64
	}{
		{"font.size", c.Font.Size},
		{"rows.height", c.Rows.Height},
		{"rows.milestone_size", c.Rows.MilestoneSize},
		{"header.height", c.Header.Height},
		{"dependencies.line_width", c.Dependencies.LineWidth},
		{"dependencies.grid_spacing", c.Dependencies.GridSpacing},
	}
	for _, p := range positive {
		if !(p.v > 0) {
			add(p.field, p.v, "must be positive")
		}
	}

	nonNegative := []struct {
		field string
		v     float64
	}{
		{"rows.task_bar_height", c.Rows.TaskBarHeight},
		{"rows.task_radius", c.Rows.TaskRadius},
		{"rows.min_element_width", c.Rows.MinElementWidth},
		{"grid.major_width", c.Grid.MajorWidth},
		{"grid.minor_width", c.Grid.MinorWidth},
		{"header.major_tick", c.Header.MajorTick},
		{"header.minor_tick", c.Header.MinorTick},
		{"dependencies.highlight_width", c.Dependencies.HighlightWidth},
		{"dependencies.corner_radius", c.Dependencies.CornerRadius},
		{"dependencies.min_source_run", c.Dependencies.MinSourceRun},
		{"dependencies.min_target_run", c.Dependencies.MinTargetRun},
		{"engine.label_spacing", c.Engine.LabelSpacing},
		{"engine.time_buffer", c.Engine.TimeBuffer},
	}
	for _, p := range nonNegative {
		if !(p.v >= 0) {
			add(p.field, p.v, "must not be negative")
		}
	}

	if c.Rows.TaskBarHeight > c.Rows.Height {
		add("rows.task_bar_height", c.Rows.TaskBarHeight, "must not exceed rows.height")
	}
	if !(c.Rows.SelectedAlpha >= 0 && c.Rows.SelectedAlpha <= 1) {
		add("rows.selected_alpha", c.Rows.SelectedAlpha, "must be between 0 and 1")
	}
	if c.Engine.RowBuffer < 0 {
		add("engine.row_buffer", c.Engine.RowBuffer, "must not be negative")
	}
	if !(c.Engine.FitPadding >= 0 && c.Engine.FitPadding < 1) {
		add("engine.fit_padding", c.Engine.FitPadding, "must be in [0, 1)")
	}
	if _, err := zoom.Preset(c.Engine.ZoomPreset); err != nil {
		add("engine.zoom_preset", c.Engine.ZoomPreset, "must be one of: default, gentle, steep, extreme")
	}
	if _, err := time.LoadLocation(c.Engine.Timezone); err != nil {
		add("engine.timezone", c.Engine.Timezone, "must be an IANA time zone name")
	}
	slices.SortFunc(errs, func(a, b ValidationError) int { return strings.Compare(a.Field, b.Field) })
	return errs
}
