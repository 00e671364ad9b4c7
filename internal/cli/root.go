// Package cli implements the gantt2img command line.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gantt2img/internal/logging"
)

// EnvPrefix prefixes every environment variable the CLI reads, e.g.
// GANTT2IMG_RENDER_WIDTH for render.width.
const EnvPrefix = "GANTT2IMG"

// app carries what every subcommand shares.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
}

// NewRootCommand builds the command tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), logger: logging.Discard()}

	root := &cobra.Command{
		Use:   "gantt2img",
		Short: "Render Gantt timelines to PNG or SVG",
		Long: `gantt2img reads tasks, milestones, groups and their dependencies from a
CSV or YAML file and renders a zoomable Gantt timeline to an image.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.initConfig()
			a.logger = logging.New(logging.Config{
				Level:  logging.ParseLevel(a.v.GetString("log.level")),
				Format: logging.ParseFormat(a.v.GetString("log.format")),
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "YAML styling file (optional)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(newRenderCommand(a), newCurveCommand(a))
	return root
}

func (a *app) initConfig() {
	a.v.SetEnvPrefix(EnvPrefix)
	// GANTT2IMG_LOG_LEVEL for log.level
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()
}

// Execute runs the CLI until it finishes or receives an interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}
