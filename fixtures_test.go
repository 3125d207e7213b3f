package leadreport

import (
	"bytes"
	"compress/zlib"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/porticus-lab/go-lead-report/internal/render"
)

// makePDF returns an uncompressed PDF with the given number of pages of
// w x h points. Page i shows "<label> <i>".
func makePDF(t *testing.T, pages int, w, h float64, label string) []byte {
	t.Helper()
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(false)
	pdf.SetFont("Helvetica", "", 12)
	for i := 1; i <= pages; i++ {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		pdf.Text(36, 36, fmt.Sprintf("%s %d", label, i))
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("building fixture PDF: %v", err)
	}
	return buf.Bytes()
}

func writePDF(t *testing.T, dir, name string, pages int, w, h float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, makePDF(t, pages, w, h, name), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeRenderer records its calls and prints a fixed number of pages per
// document instead of driving a browser.
type fakeRenderer struct {
	t     *testing.T
	pages int
	err   error
	raw   []byte

	mu      sync.Mutex
	html    []string
	configs []render.PageConfig
}

func (f *fakeRenderer) Render(_ context.Context, html string, pg render.PageConfig) (*render.Result, error) {
	f.mu.Lock()
	f.html = append(f.html, html)
	f.configs = append(f.configs, pg)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if f.raw != nil {
		return render.NewResult(f.raw), nil
	}
	w, h := pg.Dimensions()
	if !pg.DisplayHeaderFooter {
		return render.NewResult(makePDF(f.t, 1, w, h, "cover")), nil
	}
	return render.NewResult(makePDF(f.t, f.pages, w, h, "body")), nil
}

var (
	objHeader   = regexp.MustCompile(`(?m)^(\d+) 0 obj`)
	templateRef = regexp.MustCompile(`/(GOFPDITPL\d+) (\d+) 0 R`)
	templateDo  = regexp.MustCompile(`/(GOFPDITPL\d+) Do`)
	showText    = regexp.MustCompile(`\(([^)]*)\) Tj`)
)

// pageTexts returns, per page of a merged PDF, the text drawn by the
// imported page template that the page paints. Every page must paint its
// own template.
func pageTexts(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	streams := make(map[int][]byte)
	var order []int
	locs := objHeader.FindAllSubmatchIndex(data, -1)
	for i, loc := range locs {
		num, _ := strconv.Atoi(string(data[loc[2]:loc[3]]))
		end := len(data)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := data[loc[1]:end]
		start, stop := bytes.Index(body, []byte("stream")), bytes.LastIndex(body, []byte("endstream"))
		if start < 0 || stop <= start {
			continue
		}
		raw := body[start+len("stream") : stop]
		raw = bytes.TrimPrefix(bytes.TrimPrefix(raw, []byte("\r")), []byte("\n"))
		streams[num] = inflateStream(raw)
		order = append(order, num)
	}
	slices.Sort(order)

	refs := make(map[string]int)
	for _, m := range templateRef.FindAllSubmatch(data, -1) {
		n, _ := strconv.Atoi(string(m[2]))
		refs[string(m[1])] = n
	}

	var texts []string
	painted := make(map[string]bool)
	for _, num := range order {
		m := templateDo.FindSubmatch(streams[num])
		if m == nil {
			continue
		}
		name := string(m[1])
		if painted[name] {
			t.Errorf("template %s painted by more than one page", name)
		}
		painted[name] = true
		tpl, ok := streams[refs[name]]
		if !ok {
			t.Fatalf("template %s does not resolve to a stream", name)
		}
		text := showText.FindSubmatch(tpl)
		if text == nil {
			t.Fatalf("template %s draws no text", name)
		}
		texts = append(texts, string(text[1]))
	}
	return texts
}

func inflateStream(raw []byte) []byte {
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return raw
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return raw
	}
	return out
}

var errEngine = errors.New("engine exploded")

func writeCSV(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "leads.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
