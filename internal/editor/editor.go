// Package editor implements the terminal column width editor used before a
// report is generated.
//
// The editor previews the first rows of a dataset with one terminal column
// block per report column. Widths are edited in pixels, the unit persisted
// in the width preferences, and drawn at PixelsPerCell pixels per cell.
package editor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	leadreport "github.com/porticus-lab/go-lead-report"
)

const (
	// PixelsPerCell maps pixel widths onto terminal cells.
	PixelsPerCell = 8
	// Step is the width change of one resize key press, in pixels.
	Step = 10
	// MinWidth is the smallest width a column can be shrunk to, in pixels.
	MinWidth = 20
	// DefaultPreviewRows is the number of rows shown when Options leaves it unset.
	DefaultPreviewRows = 5
)

const (
	arrowUp   = '▲'
	arrowDown = '▼'
)

// Options tunes the editor.
type Options struct {
	Title       string
	PreviewRows int
	Sort        leadreport.SortKey
}

// Result is the outcome of an editing session. Widths and Sort are valid
// for both outcomes; Confirmed tells whether the user asked to generate.
type Result struct {
	Widths    []int
	Sort      leadreport.SortKey
	Confirmed bool
}

// Editor holds the state of one editing session.
type Editor struct {
	screen tcell.Screen
	source *leadreport.Dataset
	view   *leadreport.Dataset
	scheme leadreport.ColorScheme
	title  string
	rows   int

	widths   []int
	selected int
	first    int
	sort     leadreport.SortKey
	next     map[int]bool // next press on column i sorts descending
	status   string

	done      bool
	confirmed bool
}

// New returns an editor drawing on screen. The screen must already be
// initialized. widths holds one pixel width per dataset column.
func New(screen tcell.Screen, ds *leadreport.Dataset, widths []int, scheme leadreport.ColorScheme, opts Options) (*Editor, error) {
	if screen == nil {
		return nil, fmt.Errorf("editor: nil screen")
	}
	if ds == nil {
		return nil, fmt.Errorf("editor: nil dataset")
	}
	if len(widths) != ds.NumColumns() {
		return nil, fmt.Errorf("%w: %d widths for %d columns", leadreport.ErrShapeMismatch, len(widths), ds.NumColumns())
	}
	e := &Editor{
		screen: screen,
		source: ds,
		scheme: scheme,
		title:  opts.Title,
		rows:   opts.PreviewRows,
		widths: make([]int, len(widths)),
		next:   make(map[int]bool),
	}
	if e.rows <= 0 {
		e.rows = DefaultPreviewRows
	}
	if e.title == "" {
		e.title = "Column widths"
	}
	for i, w := range widths {
		e.widths[i] = max(w, MinWidth)
	}
	e.view = ds.Head(e.rows)
	if !opts.Sort.IsZero() {
		if err := e.applySort(opts.Sort); err != nil {
			return nil, err
		}
		e.next[ds.ColumnIndex(opts.Sort.Column)] = !opts.Sort.Descending
	}
	return e, nil
}

// Run draws the editor and processes events until the user confirms or
// cancels. A finalized screen ends the session as a cancellation.
func (e *Editor) Run() (Result, error) {
	e.screen.HideCursor()
	for !e.done {
		e.Draw()
		ev := e.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			e.done = true
		case *tcell.EventResize:
			e.screen.Sync()
		case *tcell.EventKey:
			e.HandleKey(ev)
		}
	}
	return e.Result(), nil
}

// Run is a convenience wrapper around New and Editor.Run.
func Run(screen tcell.Screen, ds *leadreport.Dataset, widths []int, scheme leadreport.ColorScheme, opts Options) (Result, error) {
	e, err := New(screen, ds, widths, scheme, opts)
	if err != nil {
		return Result{}, err
	}
	return e.Run()
}

// Result returns the current widths and sort order.
func (e *Editor) Result() Result {
	return Result{
		Widths:    slices.Clone(e.widths),
		Sort:      e.sort,
		Confirmed: e.confirmed,
	}
}

// Selected returns the index of the selected column.
func (e *Editor) Selected() int { return e.selected }

// Done reports whether the session has ended.
func (e *Editor) Done() bool { return e.done }

// HandleKey applies one key press and reports whether the session ended.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if e.done {
		return true
	}
	n := len(e.widths)
	switch ev.Key() {
	case tcell.KeyEscape:
		e.done = true
	case tcell.KeyCtrlG:
		e.done, e.confirmed = true, true
	case tcell.KeyRight, tcell.KeyTab:
		if n > 0 {
			e.selected = (e.selected + 1) % n
		}
	case tcell.KeyLeft, tcell.KeyBacktab:
		if n > 0 {
			e.selected = (e.selected - 1 + n) % n
		}
	case tcell.KeyEnter:
		e.toggleSort()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			e.done = true
		case 'g', 'G':
			e.done, e.confirmed = true, true
		case '+', '>', '=':
			e.resize(Step)
		case '-', '<', '_':
			e.resize(-Step)
		case 's', 'S':
			e.toggleSort()
		}
	}
	return e.done
}

func (e *Editor) resize(delta int) {
	if len(e.widths) == 0 {
		return
	}
	e.widths[e.selected] = max(e.widths[e.selected]+delta, MinWidth)
	e.status = fmt.Sprintf("%s: %d px", e.source.Columns()[e.selected], e.widths[e.selected])
}

func (e *Editor) toggleSort() {
	if len(e.widths) == 0 {
		return
	}
	key := leadreport.SortKey{
		Column:     e.source.Columns()[e.selected],
		Descending: e.next[e.selected],
	}
	if err := e.applySort(key); err != nil {
		e.status = err.Error()
		return
	}
	e.next[e.selected] = !key.Descending
}

func (e *Editor) applySort(key leadreport.SortKey) error {
	sorted, err := e.source.SortedBy(key)
	if err != nil {
		return err
	}
	e.sort = key
	e.view = sorted.Head(e.rows)
	e.status = "sorted by " + key.Column + " " + string(arrow(key))
	return nil
}

func arrow(key leadreport.SortKey) rune {
	if key.Descending {
		return arrowDown
	}
	return arrowUp
}

// Cells returns the on-screen width of a pixel width.
func Cells(px int) int {
	return max(px/PixelsPerCell, 1)
}

func color(c leadreport.Color) tcell.Color {
	if !c.Valid() {
		return tcell.ColorDefault
	}
	return tcell.GetColor(string(c))
}

// Draw renders the current state onto the screen.
func (e *Editor) Draw() {
	s := e.screen
	s.Clear()
	sw, sh := s.Size()

	base := tcell.StyleDefault
	header := base.Background(color(e.scheme.HeaderBG)).Foreground(color(e.scheme.Accent)).Bold(true)
	active := base.Background(color(e.scheme.Accent)).Foreground(color(e.scheme.HeaderBG)).Bold(true)
	odd := base.Background(color(e.scheme.RowOdd)).Foreground(tcell.ColorBlack)
	even := base.Background(color(e.scheme.RowEven)).Foreground(tcell.ColorBlack)
	dim := base.Foreground(color(e.scheme.Grid))

	drawText(s, 0, 0, sw, e.title, base.Bold(true))

	e.scroll(sw)
	columns := e.source.Columns()
	x := 0
	for c := e.first; c < len(columns) && x < sw; c++ {
		w := Cells(e.widths[c])
		label := columns[c]
		if e.sort.Column == label {
			label += " " + string(arrow(e.sort))
		}
		st := header
		if c == e.selected {
			st = active
		}
		drawCell(s, x, 2, w, label, st)
		for r := range e.view.NumRows() {
			st := odd
			if r%2 == 1 {
				st = even
			}
			drawCell(s, x, 3+r, w, e.view.Cell(r, c), st)
		}
		drawCell(s, x, 3+e.view.NumRows(), w, fmt.Sprintf("%dpx", e.widths[c]), dim)
		x += w + 1
	}

	help := "←/→ select  +/- resize  s sort  g generate  q cancel"
	if sh > 2 {
		drawText(s, 0, sh-2, sw, e.status, base)
	}
	drawText(s, 0, sh-1, sw, help, dim)
	s.Show()
}

// scroll moves the first visible column so the selection fits in width.
func (e *Editor) scroll(width int) {
	if e.selected < e.first {
		e.first = e.selected
	}
	for e.first < e.selected {
		used := 0
		for c := e.first; c <= e.selected; c++ {
			used += Cells(e.widths[c]) + 1
		}
		if used <= width {
			break
		}
		e.first++
	}
}

func drawCell(s tcell.Screen, x, y, w int, text string, st tcell.Style) {
	text = strings.ReplaceAll(text, "\n", " ")
	text = runewidth.Truncate(text, w, "…")
	drawText(s, x, y, w, runewidth.FillRight(text, w), st)
}

func drawText(s tcell.Screen, x, y, limit int, text string, st tcell.Style) {
	end := x + limit
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > end {
			return
		}
		s.SetContent(x, y, r, nil, st)
		x += rw
	}
}
