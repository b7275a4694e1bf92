// Package manifest owns the persisted slot-to-image mapping. The rendering
// layer reads the same file; this package is the only writer.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/servizzmalta/directory-cli/internal/model"
)

// Placeholder describes the static fallback image served when a slot has no
// resolved photo.
type Placeholder struct {
	Jpg    string
	Webp   string
	Width  int
	Height int
}

// DefaultPlaceholder matches the checked-in placeholder asset.
var DefaultPlaceholder = Placeholder{
	Jpg:    "/images/placeholder-malta.jpg",
	Webp:   "/images/placeholder-malta.webp",
	Width:  867,
	Height: 541,
}

// Variant returns the placeholder as a manifest variant.
func (p Placeholder) Variant() model.Variant {
	return model.Variant{Width: p.Width, Height: p.Height, Jpg: p.Jpg, Webp: p.Webp}
}

// Load reads the manifest at path. A missing or malformed file is recovered
// as an empty manifest; the sync run will rebuild it.
func Load(path string) *model.Manifest {
	empty := &model.Manifest{Images: map[string]model.ManifestEntry{}}

	raw, err := os.ReadFile(path)
	if err != nil {
		return empty
	}

	var m model.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		zap.L().Warn("manifest: malformed file, starting empty",
			zap.String("path", path),
			zap.Error(err),
		)
		return empty
	}
	if m.Images == nil {
		m.Images = map[string]model.ManifestEntry{}
	}
	return &m
}

// Save writes the manifest as pretty-printed JSON with a trailing newline.
// Write failure is a true filesystem error and aborts the run.
func Save(path string, m *model.Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "manifest: create dir for %s", path)
	}

	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return eris.Wrap(err, "manifest: marshal")
	}
	raw = append(raw, '\n')

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return eris.Wrapf(err, "manifest: write %s", path)
	}
	return nil
}

// Lookup returns the entry for a slot id, or a placeholder fallback entry
// when the slot is absent or has no variants. This is the accessor the
// rendering layer uses.
func Lookup(m *model.Manifest, id string, placeholder Placeholder, altFallback string) model.ManifestEntry {
	if entry, ok := m.Images[id]; ok && len(entry.Variants) > 0 {
		return entry
	}
	if altFallback == "" {
		altFallback = "Service photo in Malta"
	}
	return model.ManifestEntry{
		ID:       id,
		Alt:      altFallback,
		Fallback: true,
		Status:   model.StatusFallback,
		Variants: []model.Variant{placeholder.Variant()},
	}
}

// Orphans returns manifest keys no longer present in the current slot
// catalog, sorted. Entries are never pruned implicitly; callers decide.
func Orphans(m *model.Manifest, slots []model.Slot) []string {
	current := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		current[s.ID] = struct{}{}
	}

	var orphans []string
	for id := range m.Images {
		if _, ok := current[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return orphans
}

// VariantFilesPresent reports whether every variant file of the entry exists
// under publicDir. Placeholder-backed entries never verify.
func VariantFilesPresent(entry model.ManifestEntry, publicDir string) bool {
	if len(entry.Variants) == 0 {
		return false
	}
	for _, v := range entry.Variants {
		if strings.Contains(v.Jpg, "placeholder") || strings.Contains(v.Webp, "placeholder") {
			return false
		}
		if !fileExists(filepath.Join(publicDir, strings.TrimPrefix(v.Jpg, "/"))) {
			return false
		}
		if !fileExists(filepath.Join(publicDir, strings.TrimPrefix(v.Webp, "/"))) {
			return false
		}
	}
	return true
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
