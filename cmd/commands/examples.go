package commands

// Command to render the built-in example charts
// Writes every example in every requested format to the output directory

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"chartkit/internal/chart"
	logging "chartkit/internal/infra/log"
	"chartkit/internal/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var examplesFormats []string

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Render the built-in example charts",
	Args:  cobra.NoArgs,
	RunE:  runExamples,
}

func init() {
	examplesCmd.Flags().StringSliceVar(&examplesFormats, "formats", nil, "Formats to render (default the configured format)")
}

func runExamples(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	names := examplesFormats
	if len(names) == 0 {
		names = []string{cfg.Render.Format}
	}
	formats := make([]render.Format, 0, len(names))
	for _, n := range names {
		f, err := render.ParseFormat(n)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	for _, ex := range chart.Examples() {
		applyFontDefault(ex.Graph.Scheme)
		for _, f := range formats {
			start := time.Now()
			var buf bytes.Buffer
			if err := chart.Render(ctx, ex.Graph, ex.Kind, f, &buf, book); err != nil {
				logging.LogError("Example failed", zap.String("example", ex.Name), zap.Error(err))
				return fmt.Errorf("%s: %w", ex.Name, err)
			}
			r := &rendered{
				name:   ex.Name,
				path:   filepath.Join(cfg.Render.OutDir, ex.Name+f.Ext()),
				format: f,
				data:   buf.Bytes(),
			}
			if err := save(r); err != nil {
				return err
			}
			logging.LogSuccess(fmt.Sprintf("Rendered %s", r.path), zap.Int64("duration_ms", time.Since(start).Milliseconds()))
			fmt.Fprintln(cmd.OutOrStdout(), r.path)
		}
	}
	return nil
}
