package commands

// Root command for the chartkit CLI
// Loads configuration and logging before any subcommand runs
// Registers all subcommands (render, axis, examples, publish)

import (
	"fmt"
	"strings"

	"chartkit/internal/config"
	"chartkit/internal/font"
	logging "chartkit/internal/infra/log"
	"chartkit/internal/style"

	"github.com/spf13/cobra"
)

var (
	configFile string
	cfg        *config.Config
	book       *font.Book
)

var rootCmd = &cobra.Command{
	Use:   "chartkit",
	Short: "chartkit - bar and line charts from YAML definitions",
	Long: `chartkit renders bar and line charts with automatically scaled axes to PNG, SVG or PDF,
and can publish the result to a Telegram chat.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ./chartkit.yaml)")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(axisCmd)
	rootCmd.AddCommand(examplesCmd)
	rootCmd.AddCommand(publishCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(config.Options{ConfigFile: configFile, Flags: cmd.Flags()})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logging.Init(logging.Options{Dir: c.Log.Dir, Level: c.Log.Level}); err != nil {
		return err
	}
	cfg = c
	book = font.NewBook(c.Fonts.Dirs...)
	return nil
}

// parseOverrides turns repeated --set path=value flags into scheme
// overrides.
func parseOverrides(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		path, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("--set %q: want path=value", p)
		}
		out[strings.TrimSpace(path)] = strings.TrimSpace(value)
	}
	return out, nil
}

// applyFontDefault swaps the built-in face for the configured one.
func applyFontDefault(s *style.Scheme) {
	if cfg.Fonts.Default != "" {
		s.SetFace(cfg.Fonts.Default)
	}
}
