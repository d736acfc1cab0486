package commands

// Command to render a chart definition and post it to Telegram
// PNG charts go out as photos, SVG and PDF as documents
// With --wait it publishes a file written by another process instead

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"chartkit/internal/deliver"
	"chartkit/internal/infra/fs"
	logging "chartkit/internal/infra/log"
	"chartkit/internal/infra/retry"
	"chartkit/internal/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	publishCaption string
	publishWait    time.Duration
)

var publishCmd = &cobra.Command{
	Use:   "publish <definition.yaml | chart file>",
	Short: "Render a chart and post it to the configured Telegram chat",
	Long: `Render a chart definition and post it to telegram.chat_id. With --wait the argument is an
already rendered chart file; publish waits up to the given duration for it to appear.`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	f := publishCmd.Flags()
	f.StringVar(&publishCaption, "caption", "", "Message caption (default the chart title)")
	f.DurationVar(&publishWait, "wait", 0, "Publish an existing chart file, waiting this long for it")
	f.StringVarP(&renderOut, "out", "o", "", "Output file for the rendered chart")
	f.StringVarP(&renderFormat, "format", "f", "", "Output format: png, svg or pdf")
	f.StringArrayVar(&renderSets, "set", nil, "Style override path=value (repeatable)")
}

func runPublish(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateTelegram(); err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	upload, err := prepareUpload(ctx, args[0])
	if err != nil {
		logging.LogError("Failed to prepare chart", zap.String("input", args[0]), zap.Error(err))
		return err
	}

	t := cfg.Telegram
	bot, err := deliver.NewBot(t.Token, time.Duration(t.RequestTimeout)*time.Second)
	if err != nil {
		return err
	}
	pub, err := deliver.NewPublisher(bot, deliver.Options{
		ChatID: t.ChatID,
		Rate:   t.Rate,
		Burst:  t.Burst,
		Retry: retry.Options{
			MaxRetries: t.MaxRetries,
			BaseDelay:  500 * time.Millisecond,
			MaxDelay:   30 * time.Second,
		},
	})
	if err != nil {
		return err
	}

	start := time.Now()
	id, err := pub.Publish(ctx, *upload)
	if err != nil {
		logging.LogError("Publish failed", zap.String("file", upload.Name), zap.Error(err))
		return err
	}
	logging.LogSuccess(fmt.Sprintf("Published %s", upload.Name),
		zap.Int64("chat_id", t.ChatID),
		zap.Int("message_id", id),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

func prepareUpload(ctx context.Context, input string) (*deliver.Upload, error) {
	if publishWait > 0 {
		if err := fs.WaitForFile(ctx, input, publishWait); err != nil {
			return nil, err
		}
		format, err := render.FormatFromPath(input)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", input, err)
		}
		return &deliver.Upload{Name: filepath.Base(input), Format: format, Data: data, Caption: publishCaption}, nil
	}

	r, err := renderDefinition(ctx, input)
	if err != nil {
		return nil, err
	}
	caption := publishCaption
	if caption == "" {
		if def, _, _, err := buildDefinition(input, renderSets); err == nil {
			caption = def.Title
		}
	}
	return &deliver.Upload{Name: filepath.Base(r.path), Format: r.format, Data: r.data, Caption: caption}, nil
}
