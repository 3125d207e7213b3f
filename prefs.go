package leadreport

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultColumnPixels is the editor width of a column without a saved
// preference.
const DefaultColumnPixels = 100

// PrefsFileName is the file name of the saved column widths.
const PrefsFileName = "column_widths.yaml"

// WidthPrefs maps column names to the last confirmed editor width in pixels.
type WidthPrefs map[string]int

// DefaultPrefsPath returns the preferences file under the user's
// configuration directory.
func DefaultPrefsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPreferences, err)
	}
	return filepath.Join(dir, "leadreport", PrefsFileName), nil
}

// LoadWidthPrefs reads saved widths. A missing file yields empty
// preferences and no error. An unreadable or corrupt file yields empty
// preferences and an error wrapping [ErrPreferences], which callers are
// expected to log and ignore. JSON files are accepted too.
func LoadWidthPrefs(path string) (WidthPrefs, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return WidthPrefs{}, nil
	}
	if err != nil {
		return WidthPrefs{}, fmt.Errorf("%w: %w", ErrPreferences, err)
	}

	var raw map[string]int
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return WidthPrefs{}, fmt.Errorf("%w: %s: %w", ErrPreferences, path, err)
	}
	prefs := make(WidthPrefs, len(raw))
	for k, v := range raw {
		if v > 0 {
			prefs[k] = v
		}
	}
	return prefs, nil
}

// SaveWidthPrefs replaces the file at path with the widths of columns.
func SaveWidthPrefs(path string, columns []string, widths []int) error {
	if len(columns) != len(widths) {
		return fmt.Errorf("%w: %d widths for %d columns", ErrShapeMismatch, len(widths), len(columns))
	}
	prefs := make(WidthPrefs, len(columns))
	for i, c := range columns {
		prefs[c] = widths[i]
	}
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPreferences, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrPreferences, err)
	}
	if err := writeFileAtomic(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %w", ErrPreferences, err)
	}
	return nil
}

// For returns one width per column, using fallback for columns without a
// saved width.
func (p WidthPrefs) For(columns []string, fallback int) []int {
	out := make([]int, len(columns))
	for i, c := range columns {
		if w, ok := p[c]; ok {
			out[i] = w
		} else {
			out[i] = fallback
		}
	}
	return out
}
