package leadreport

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestWidthPrefs_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", PrefsFileName)
	columns := []string{"Name", "Phone: mobile", "E-mail", "Ciudad"}
	widths := []int{150, 80, 210, 100}

	if err := SaveWidthPrefs(path, columns, widths); err != nil {
		t.Fatalf("SaveWidthPrefs: %v", err)
	}
	prefs, err := LoadWidthPrefs(path)
	if err != nil {
		t.Fatalf("LoadWidthPrefs: %v", err)
	}
	if got := prefs.For(columns, DefaultColumnPixels); !slices.Equal(got, widths) {
		t.Errorf("For() = %v, want %v", got, widths)
	}
}

func TestWidthPrefs_Missing(t *testing.T) {
	prefs, err := LoadWidthPrefs(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if len(prefs) != 0 {
		t.Errorf("prefs = %v, want empty", prefs)
	}
}

func TestWidthPrefs_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), PrefsFileName)
	if err := os.WriteFile(path, []byte("Name: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	prefs, err := LoadWidthPrefs(path)
	if !errors.Is(err, ErrPreferences) {
		t.Fatalf("err = %v, want ErrPreferences", err)
	}
	if prefs == nil || len(prefs) != 0 {
		t.Errorf("prefs = %v, want empty", prefs)
	}
}

func TestWidthPrefs_LegacyJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "column_widths.json")
	if err := os.WriteFile(path, []byte(`{"Name": 120, "Phone": 90, "Bad": -5}`), 0o644); err != nil {
		t.Fatal(err)
	}
	prefs, err := LoadWidthPrefs(path)
	if err != nil {
		t.Fatalf("LoadWidthPrefs: %v", err)
	}
	got := prefs.For([]string{"Phone", "City", "Bad", "Name"}, DefaultColumnPixels)
	if want := []int{90, 100, 100, 120}; !slices.Equal(got, want) {
		t.Errorf("For() = %v, want %v", got, want)
	}
}

func TestSaveWidthPrefs_Errors(t *testing.T) {
	dir := t.TempDir()
	if err := SaveWidthPrefs(filepath.Join(dir, "p.yaml"), []string{"a", "b"}, []int{1}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("err = %v, want ErrShapeMismatch", err)
	}

	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	err := SaveWidthPrefs(filepath.Join(blocker, "p.yaml"), []string{"a"}, []int{1})
	if !errors.Is(err, ErrPreferences) {
		t.Errorf("err = %v, want ErrPreferences", err)
	}
}

func TestSaveWidthPrefs_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), PrefsFileName)
	if err := SaveWidthPrefs(path, []string{"Old"}, []int{300}); err != nil {
		t.Fatal(err)
	}
	if err := SaveWidthPrefs(path, []string{"New"}, []int{40}); err != nil {
		t.Fatal(err)
	}
	prefs, err := LoadWidthPrefs(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := prefs["Old"]; ok || prefs["New"] != 40 {
		t.Errorf("prefs = %v, want only the latest columns", prefs)
	}
}
