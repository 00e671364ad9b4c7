package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"gantt2img/internal/config"
	"gantt2img/pkg/zoom"
)

const msPerDay = 86_400_000.0

func newCurveCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve [preset]",
		Short: "Print the zoom curve of a preset",
		Long: `Curve prints the scale and perceived time unit at evenly spaced zoom levels.
The preset defaults to the zoom_preset of the styling file, or "default".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				c, err := config.Load(a.v.GetString("config"))
				if err != nil {
					return err
				}
				name = c.Engine.ZoomPreset
			}
			cfg, err := zoom.Preset(name)
			if err != nil {
				return err
			}
			curve := zoom.New(cfg)
			steps := a.v.GetInt("curve.steps")
			printCurve(cmd.OutOrStdout(), name, curve, steps)

			if !a.v.GetBool("curve.verify") {
				return nil
			}
			failures := curve.VerifyInverse(0.01)
			for _, f := range failures {
				a.logger.Warn("inverse mismatch", "preset", name, "sample", f)
			}
			if len(failures) > 0 {
				return fmt.Errorf("zoom curve %q: %d samples are not invertible", name, len(failures))
			}
			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("✓ inverse holds"))
			return nil
		},
	}

	f := cmd.Flags()
	f.Int("steps", 10, "number of intervals between zoom 0 and 100")
	f.Bool("verify", false, "check that zoom and scale conversions invert each other")
	_ = a.v.BindPFlag("curve.steps", f.Lookup("steps"))
	_ = a.v.BindPFlag("curve.verify", f.Lookup("verify"))
	return cmd
}

func printCurve(w io.Writer, name string, curve zoom.Curve, steps int) {
	cfg := curve.Config()
	cell := lipgloss.NewStyle().Width(14).Align(lipgloss.Right)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("zoom curve %q", name)))
	sb.WriteString("\n")
	sb.WriteString(noteStyle.Render(fmt.Sprintf("breakpoint %g, exponent %g", cfg.Breakpoint, cfg.UpperExponent)))
	sb.WriteString("\n")
	sb.WriteString(headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		cell.Render("zoom"), cell.Render("px/day"), cell.Render("unit"))))
	sb.WriteString("\n")
	for _, s := range curve.Samples(steps) {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			cell.Render(fmt.Sprintf("%.1f", s.Level)),
			cell.Render(fmt.Sprintf("%.4g", s.Scale*msPerDay)),
			cell.Render(s.Unit)))
		sb.WriteString("\n")
	}
	fmt.Fprint(w, sb.String())
}
