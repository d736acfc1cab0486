package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	logging "chartkit/internal/infra/log"

	"go.uber.org/zap"
)

// ManifestEntry records one rendered file.
type ManifestEntry struct {
	RenderID   string    `json:"render_id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Format     string    `json:"format"`
	Bytes      int64     `json:"bytes"`
	RenderedAt time.Time `json:"rendered_at"`
}

// Manifest lists the files produced into an output directory.
type Manifest struct {
	Entries []ManifestEntry `json:"entries"`
}

// Put adds e, replacing an older entry for the same path.
func (m *Manifest) Put(e ManifestEntry) {
	for i, old := range m.Entries {
		if old.Path == e.Path {
			m.Entries[i] = e
			return
		}
	}
	m.Entries = append(m.Entries, e)
}

// LoadManifest reads a manifest; a missing or empty file is an empty
// manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logging.LogDebug("Manifest file does not exist, starting empty", zap.String("file", path))
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if s := strings.TrimSpace(string(data)); s == "" || s == "{}" {
		return &Manifest{}, nil
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}
	logging.LogDebug("Loaded manifest", zap.String("file", path), zap.Int("count", len(m.Entries)))
	return &m, nil
}

// SaveManifest writes m as indented JSON.
func SaveManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return WriteFileAtomic(path, data)
}
