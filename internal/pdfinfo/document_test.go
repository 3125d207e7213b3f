package pdfinfo

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// classicPDF builds a PDF with an xref table and one page per size.
func classicPDF(sizes [][2]int) []byte {
	var b bytes.Buffer
	offsets := map[int]int{}
	obj := func(num int, body string) {
		offsets[num] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	b.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	obj(1, "<< /Type /Catalog /Pages 2 0 R >>")

	var kids []string
	for i := range sizes {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+2*i))
	}
	obj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(sizes)))

	for i, s := range sizes {
		page, content := 3+2*i, 4+2*i
		obj(page, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Contents %d 0 R >>", s[0], s[1], content))
		stream := "BT ET"
		obj(content, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	n := 3 + 2*len(sizes)
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", n)
	for i := 1; i < n; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", n, xref)
	return b.Bytes()
}

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// pngUp applies the PNG "Up" predictor to rows of the given width.
func pngUp(data []byte, columns int) []byte {
	var out []byte
	prev := make([]byte, columns)
	for off := 0; off < len(data); off += columns {
		row := data[off : off+columns]
		out = append(out, 2)
		for i, c := range row {
			out = append(out, c-prev[i])
		}
		prev = row
	}
	return out
}

// compressedPDF builds a PDF 1.5 file whose pages live in an object stream
// and whose cross-reference table is a predicted, deflated xref stream.
func compressedPDF(t *testing.T) []byte {
	t.Helper()
	var b bytes.Buffer
	offsets := map[int]int{}
	b.WriteString("%PDF-1.5\n")

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 /MediaBox [0 0 842 595] >>\nendobj\n")

	page3 := "<< /Type /Page /Parent 2 0 R >>"
	page4 := "<< /Type /Page /Parent 2 0 R /Rotate 90 >>"
	header := fmt.Sprintf("3 0 4 %d ", len(page3)+1)
	packed := deflate(t, []byte(header+page3+" "+page4))
	offsets[5] = b.Len()
	fmt.Fprintf(&b, "5 0 obj\n<< /Type /ObjStm /N 2 /First %d /Filter /FlateDecode /Length %d >>\nstream\n",
		len(header), len(packed))
	b.Write(packed)
	b.WriteString("\nendstream\nendobj\n")

	offsets[6] = b.Len()
	entry := func(typ byte, f2 int, f3 int) []byte {
		return []byte{typ, byte(f2 >> 24), byte(f2 >> 16), byte(f2 >> 8), byte(f2), byte(f3 >> 8), byte(f3)}
	}
	var rows []byte
	rows = append(rows, entry(0, 0, 65535)...)
	rows = append(rows, entry(1, offsets[1], 0)...)
	rows = append(rows, entry(1, offsets[2], 0)...)
	rows = append(rows, entry(2, 5, 0)...)
	rows = append(rows, entry(2, 5, 1)...)
	rows = append(rows, entry(1, offsets[5], 0)...)
	rows = append(rows, entry(1, offsets[6], 0)...)
	xref := deflate(t, pngUp(rows, 7))
	fmt.Fprintf(&b, "6 0 obj\n<< /Type /XRef /Size 7 /W [1 4 2] /Root 1 0 R /Filter /FlateDecode "+
		"/DecodeParms << /Predictor 12 /Columns 7 >> /Length %d >>\nstream\n", len(xref))
	b.Write(xref)
	b.WriteString("\nendstream\nendobj\n")
	fmt.Fprintf(&b, "startxref\n%d\n%%%%EOF\n", offsets[6])
	return b.Bytes()
}

func TestLoad_ClassicXRef(t *testing.T) {
	doc, err := Load(classicPDF([][2]int{{612, 792}, {842, 595}, {612, 792}}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v := doc.Version(); v != "1.4" {
		t.Errorf("Version() = %q, want 1.4", v)
	}
	pages, err := doc.Pages()
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	if pages[1].Width != 842 || pages[1].Height != 595 {
		t.Errorf("page 2 = %.0fx%.0f, want 842x595", pages[1].Width, pages[1].Height)
	}
}

func TestLoad_XRefStreamAndObjectStream(t *testing.T) {
	doc, err := Load(compressedPDF(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pages, err := doc.Pages()
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	for i, p := range pages {
		if p.Width != 842 || p.Height != 595 {
			t.Errorf("page %d = %.0fx%.0f, want inherited 842x595", i+1, p.Width, p.Height)
		}
	}
	if pages[1].Rotation != 90 {
		t.Errorf("page 2 rotation = %d, want 90", pages[1].Rotation)
	}
}

func TestLoad_NotPDF(t *testing.T) {
	_, err := Load([]byte("<html></html>"))
	if !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
}

func TestLoad_Truncated(t *testing.T) {
	data := classicPDF([][2]int{{612, 792}})
	if _, err := Load(data[:len(data)/2]); err == nil {
		t.Fatal("expected error for truncated file")
	}
}

func TestPageCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "four.pdf")
	if err := os.WriteFile(path, classicPDF(make([][2]int, 4)), 0o644); err != nil {
		t.Fatal(err)
	}
	n, err := PageCount(path)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 4 {
		t.Errorf("PageCount = %d, want 4", n)
	}

	if _, err := PageCount(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestUnpredict_Up(t *testing.T) {
	raw := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	got, err := unpredict(Dict{
		"Predictor": {Kind: Int, Int: 12},
		"Columns":   {Kind: Int, Int: 3},
	}, pngUp(raw, 3))
	if err != nil {
		t.Fatalf("unpredict: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("unpredict = %v, want %v", got, raw)
	}
}

func TestLexer_Objects(t *testing.T) {
	src := `<< /Name /A#20B /Str (a\)b (nested)) /Hex <48 69> /Arr [1 2.5 -3] /Ref 12 0 R /T true >>`
	o, err := newLexer([]byte(src), 0).object()
	if err != nil {
		t.Fatalf("object: %v", err)
	}
	if o.Kind != Dictionary {
		t.Fatalf("kind = %v, want Dictionary", o.Kind)
	}
	d := o.Dict
	if name, _ := d.Name("Name"); name != "A B" {
		t.Errorf("Name = %q, want %q", name, "A B")
	}
	if s := string(d["Str"].Str); s != "a)b (nested)" {
		t.Errorf("Str = %q", s)
	}
	if s := string(d["Hex"].Str); s != "Hi" {
		t.Errorf("Hex = %q, want Hi", s)
	}
	arr, _ := d.Array("Arr")
	if len(arr) != 3 || arr[1].Kind != Real || arr[2].Int != -3 {
		t.Errorf("Arr = %+v", arr)
	}
	if r := d["Ref"]; r.Kind != Ref || r.Ref.Num != 12 {
		t.Errorf("Ref = %+v", r)
	}
	if !d["T"].Bool {
		t.Error("T = false, want true")
	}
}
