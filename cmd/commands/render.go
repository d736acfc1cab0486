package commands

// Command to render one chart definition
// Picks the output format from --format, the definition, --out or config
// Writes the file atomically and records it in the output manifest

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"chartkit/internal/chart"
	"chartkit/internal/infra/exec"
	"chartkit/internal/infra/fs"
	logging "chartkit/internal/infra/log"
	"chartkit/internal/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderOut    string
	renderFormat string
	renderWidth  int
	renderHeight int
	renderSets   []string
	renderOpen   bool
)

var renderCmd = &cobra.Command{
	Use:   "render <definition.yaml>",
	Short: "Render a chart definition to PNG, SVG or PDF",
	Long: `Render a chart definition. Style can be adjusted with --set using dotted scheme paths,
for example --set title.color=#333333 --set axes.independent.ticks.major.enabled=false.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderOut, "out", "o", "", "Output file (default <out_dir>/<definition name>.<format>)")
	f.StringVarP(&renderFormat, "format", "f", "", "Output format: png, svg or pdf")
	f.IntVar(&renderWidth, "width", 0, "Canvas width, overrides the definition")
	f.IntVar(&renderHeight, "height", 0, "Canvas height, overrides the definition")
	f.StringArrayVar(&renderSets, "set", nil, "Style override path=value (repeatable)")
	f.BoolVar(&renderOpen, "open", false, "Open the rendered file in the default viewer")
}

// rendered is one chart written by render or examples.
type rendered struct {
	name   string
	path   string
	format render.Format
	data   []byte
}

// buildDefinition loads a definition and applies config and flag
// overrides to it.
func buildDefinition(path string, sets []string) (*chart.Definition, *chart.Graph, chart.Kind, error) {
	def, err := chart.LoadDefinition(path)
	if err != nil {
		return nil, nil, "", err
	}
	if renderWidth > 0 {
		def.Width = renderWidth
	}
	if renderHeight > 0 {
		def.Height = renderHeight
	}
	if def.Width == 0 {
		def.Width = cfg.Render.Width
	}
	if def.Height == 0 {
		def.Height = cfg.Render.Height
	}

	extra, err := parseOverrides(sets)
	if err != nil {
		return nil, nil, "", err
	}
	const stepsPath = "axes.dependent.format.steps"
	if _, ok := def.Overrides()[stepsPath]; !ok {
		if _, ok := extra[stepsPath]; !ok {
			extra[stepsPath] = cfg.Render.Steps
		}
	}

	g, kind, err := def.Graph(extra)
	if err != nil {
		return nil, nil, "", err
	}
	applyFontDefault(g.Scheme)
	return def, g, kind, nil
}

// outputFormat resolves the format: flag, definition, --out extension,
// then config.
func outputFormat(def *chart.Definition, out string) (render.Format, error) {
	for _, s := range []string{renderFormat, def.Format} {
		if s != "" {
			return render.ParseFormat(s)
		}
	}
	if out != "" {
		if f, err := render.FormatFromPath(out); err == nil {
			return f, nil
		}
	}
	return render.ParseFormat(cfg.Render.Format)
}

func renderDefinition(ctx context.Context, path string) (*rendered, error) {
	def, g, kind, err := buildDefinition(path, renderSets)
	if err != nil {
		return nil, err
	}
	format, err := outputFormat(def, renderOut)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := renderOut
	if out == "" {
		out = filepath.Join(cfg.Render.OutDir, name+format.Ext())
	}

	var buf bytes.Buffer
	if err := chart.Render(ctx, g, kind, format, &buf, book); err != nil {
		return nil, err
	}
	r := &rendered{name: name, path: out, format: format, data: buf.Bytes()}
	if err := save(r); err != nil {
		return nil, err
	}
	return r, nil
}

// save writes r and records it in the manifest of its directory.
func save(r *rendered) error {
	if err := fs.WriteFileAtomic(r.path, r.data); err != nil {
		return err
	}

	manifestPath := filepath.Join(filepath.Dir(r.path), "manifest.json")
	m, err := fs.LoadManifest(manifestPath)
	if err != nil {
		logging.LogWarn("Manifest unreadable, starting a new one", zap.String("path", manifestPath), zap.Error(err))
		m = &fs.Manifest{}
	}
	m.Put(fs.ManifestEntry{
		RenderID:   logging.NewRenderID(),
		Name:       r.name,
		Path:       r.path,
		Format:     r.format.String(),
		Bytes:      int64(len(r.data)),
		RenderedAt: time.Now().UTC(),
	})
	return fs.SaveManifest(manifestPath, m)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	r, err := renderDefinition(ctx, args[0])
	if err != nil {
		logging.LogError("Render failed", zap.String("definition", args[0]), zap.Error(err))
		return err
	}
	logging.LogSuccess(fmt.Sprintf("Rendered %s", r.path),
		zap.String("format", r.format.String()),
		zap.Int("bytes", len(r.data)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	fmt.Fprintln(cmd.OutOrStdout(), r.path)

	if renderOpen {
		if err := exec.Open(ctx, r.path); err != nil {
			logging.LogWarn("Could not open the chart", zap.Error(err))
		}
	}
	return nil
}
