package leadreport

import "testing"

func TestPalettes_Catalog(t *testing.T) {
	want := [][5]Color{
		{"#2D2A32", "#DDD92A", "#EAE151", "#EEEFA8", "#FAFDF6"},
		{"#3590f3", "#8FB8ED", "#62BFED", "#F1E3F3", "#C2BBF0"},
		{"#080357", "#ff9f1c", "#ffc15e", "#d6ffb7", "#f5ff90"},
		{"#373737", "#FCE694", "#F6FEAA", "#C7DFC5", "#C1DBE3"},
		{"#6a3e37", "#3993dd", "#29e7cd", "#e0acd5", "#f4ebe8"},
	}
	got := Palettes()
	if len(got) != len(want) {
		t.Fatalf("got %d schemes, want %d", len(got), len(want))
	}
	for i, s := range got {
		roles := [5]Color{s.HeaderBG, s.Accent, s.Grid, s.RowOdd, s.RowEven}
		if roles != want[i] {
			t.Errorf("scheme %d = %v, want %v", i, roles, want[i])
		}
		if err := s.validate(); err != nil {
			t.Errorf("scheme %d: %v", i, err)
		}
	}
}

func TestPaletteSelector_Deterministic(t *testing.T) {
	a := NewPaletteSelector(42)
	b := NewPaletteSelector(42)
	for i := 0; i < 20; i++ {
		if x, y := a.Select(), b.Select(); x != y {
			t.Fatalf("draw %d differs: %s vs %s", i, x.Name, y.Name)
		}
	}
}

func TestPaletteSelector_CoversCatalog(t *testing.T) {
	s := NewPaletteSelector(7)
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		seen[s.Select().Name] = true
	}
	if len(seen) != len(Palettes()) {
		t.Errorf("saw %d distinct schemes in 500 draws, want %d", len(seen), len(Palettes()))
	}
}

func TestPaletteAt(t *testing.T) {
	if PaletteAt(0).Name != "A" || PaletteAt(4).Name != "E" {
		t.Error("PaletteAt does not follow catalog order")
	}
	if PaletteAt(5) != PaletteAt(0) || PaletteAt(-1) != PaletteAt(4) {
		t.Error("PaletteAt does not wrap around")
	}
	if s, ok := PaletteByName("C"); !ok || s.HeaderBG != "#080357" {
		t.Errorf("PaletteByName(C) = %+v, %v", s, ok)
	}
	if _, ok := PaletteByName("Z"); ok {
		t.Error("PaletteByName(Z) should not exist")
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		c       Color
		valid   bool
		r, g, b uint8
	}{
		{"#2D2A32", true, 0x2d, 0x2a, 0x32},
		{"#ff9f1c", true, 0xff, 0x9f, 0x1c},
		{"2D2A32", false, 0, 0, 0},
		{"#12345", false, 0, 0, 0},
		{"#zzzzzz", false, 0, 0, 0},
	}
	for _, tt := range tests {
		if got := tt.c.Valid(); got != tt.valid {
			t.Errorf("%q.Valid() = %v, want %v", tt.c, got, tt.valid)
		}
		r, g, b := tt.c.RGB()
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("%q.RGB() = %d,%d,%d", tt.c, r, g, b)
		}
	}
}
