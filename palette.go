package leadreport

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"time"
)

// Color is a "#rrggbb" hex color.
type Color string

// Valid reports whether c is a well-formed "#rrggbb" value.
func (c Color) Valid() bool {
	if len(c) != 7 || c[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(string(c[1:]), 16, 32)
	return err == nil
}

// RGB returns the components of c, or zeros when c is not valid.
func (c Color) RGB() (r, g, b uint8) {
	if !c.Valid() {
		return 0, 0, 0
	}
	v, _ := strconv.ParseUint(string(c[1:]), 16, 32)
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// ColorScheme holds the five color roles of a report.
type ColorScheme struct {
	Name     string
	HeaderBG Color // header row and title text
	Accent   Color // header text and divider line
	Grid     Color
	RowOdd   Color
	RowEven  Color
}

var catalog = [...]ColorScheme{
	{Name: "A", HeaderBG: "#2D2A32", Accent: "#DDD92A", Grid: "#EAE151", RowOdd: "#EEEFA8", RowEven: "#FAFDF6"},
	{Name: "B", HeaderBG: "#3590f3", Accent: "#8FB8ED", Grid: "#62BFED", RowOdd: "#F1E3F3", RowEven: "#C2BBF0"},
	{Name: "C", HeaderBG: "#080357", Accent: "#ff9f1c", Grid: "#ffc15e", RowOdd: "#d6ffb7", RowEven: "#f5ff90"},
	{Name: "D", HeaderBG: "#373737", Accent: "#FCE694", Grid: "#F6FEAA", RowOdd: "#C7DFC5", RowEven: "#C1DBE3"},
	{Name: "E", HeaderBG: "#6a3e37", Accent: "#3993dd", Grid: "#29e7cd", RowOdd: "#e0acd5", RowEven: "#f4ebe8"},
}

// Palettes returns the color catalog.
func Palettes() []ColorScheme {
	return catalog[:]
}

// PaletteAt returns catalog entry i modulo the catalog size.
func PaletteAt(i int) ColorScheme {
	n := len(catalog)
	return catalog[((i%n)+n)%n]
}

// PaletteByName returns the scheme with the given name.
func PaletteByName(name string) (ColorScheme, bool) {
	for _, s := range catalog {
		if s.Name == name {
			return s, true
		}
	}
	return ColorScheme{}, false
}

// PaletteSelector draws schemes uniformly from the catalog. It is safe for
// concurrent use.
type PaletteSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPaletteSelector returns a selector whose draws are fully determined by
// seed.
func NewPaletteSelector(seed uint64) *PaletteSelector {
	return &PaletteSelector{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func newClockSelector() *PaletteSelector {
	return NewPaletteSelector(uint64(time.Now().UnixNano()))
}

// Select returns one scheme.
func (s *PaletteSelector) Select() ColorScheme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PaletteAt(s.rng.IntN(len(catalog)))
}
