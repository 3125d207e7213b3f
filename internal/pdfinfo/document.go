package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrNotPDF is returned for input that does not start with a %PDF- header.
var ErrNotPDF = errors.New("pdfinfo: not a PDF file")

type xrefEntry struct {
	offset int64
	inUse  bool

	// Set for objects stored inside an object stream.
	container int
	index     int
	packed    bool
}

// Document is a parsed PDF file held in memory.
type Document struct {
	data    []byte
	xref    map[int]xrefEntry
	trailer Dict
	cache   map[int]*Object
}

// PageInfo describes one page.
type PageInfo struct {
	Width    float64 // points
	Height   float64 // points
	Rotation int
}

// Open reads and parses the PDF file at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdfinfo: %w", err)
	}
	return Load(data)
}

// Load parses a PDF held in memory.
func Load(data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, ErrNotPDF
	}
	doc := &Document{
		data:  data,
		xref:  make(map[int]xrefEntry),
		cache: make(map[int]*Object),
	}
	start, err := doc.startXRef()
	if err != nil {
		return nil, err
	}
	if err := doc.readXRef(start, 0); err != nil {
		return nil, fmt.Errorf("pdfinfo: loading xref: %w", err)
	}
	if doc.trailer == nil {
		return nil, errors.New("pdfinfo: missing trailer")
	}
	return doc, nil
}

// PageCount opens path and returns its number of pages.
func PageCount(path string) (int, error) {
	doc, err := Open(path)
	if err != nil {
		return 0, err
	}
	pages, err := doc.Pages()
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// Version returns the version from the file header, e.g. "1.4".
func (doc *Document) Version() string {
	line := doc.data[len("%PDF-"):]
	if i := bytes.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	if len(line) > 8 {
		line = line[:8]
	}
	return strings.TrimSpace(string(line))
}

func (doc *Document) startXRef() (int64, error) {
	from := max(len(doc.data)-1024, 0)
	i := bytes.LastIndex(doc.data[from:], []byte("startxref"))
	if i < 0 {
		return 0, errors.New("pdfinfo: startxref not found")
	}
	l := newLexer(doc.data, from+i+len("startxref"))
	l.skip()
	off, err := strconv.ParseInt(l.word(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("pdfinfo: invalid startxref: %w", err)
	}
	return off, nil
}

// readXRef loads the section at offset and follows /Prev links. Entries
// already seen win, since newer sections are read first.
func (doc *Document) readXRef(offset int64, hops int) error {
	if hops > 64 {
		return errors.New("xref /Prev chain too long")
	}
	if offset < 0 || offset >= int64(len(doc.data)) {
		return fmt.Errorf("xref offset %d out of bounds", offset)
	}
	l := newLexer(doc.data, int(offset))
	l.skip()

	var section Dict
	var err error
	if l.accept("xref") {
		section, err = doc.readTable(l)
	} else {
		section, err = doc.readStream(l)
	}
	if err != nil {
		return err
	}
	if doc.trailer == nil {
		doc.trailer = section
	}
	if prev, ok := section.Int("Prev"); ok && prev > 0 {
		return doc.readXRef(prev, hops+1)
	}
	return nil
}

// readTable parses a classic xref table and its trailer dictionary.
func (doc *Document) readTable(l *lexer) (Dict, error) {
	for {
		l.skip()
		if l.pos >= len(l.buf) {
			return nil, errors.New("unterminated xref table")
		}
		if l.accept("trailer") {
			break
		}
		first, err1 := strconv.Atoi(l.word())
		l.skip()
		count, err2 := strconv.Atoi(l.word())
		if err1 != nil || err2 != nil {
			return nil, errors.New("malformed xref subsection")
		}
		for i := 0; i < count; i++ {
			l.skip()
			off, _ := strconv.ParseInt(l.word(), 10, 64)
			l.skip()
			l.word() // generation
			l.skip()
			flag := l.word()
			if _, seen := doc.xref[first+i]; !seen {
				doc.xref[first+i] = xrefEntry{offset: off, inUse: flag == "n"}
			}
		}
	}
	trailer, err := l.object()
	if err != nil {
		return nil, fmt.Errorf("parsing trailer: %w", err)
	}
	if trailer.Kind != Dictionary {
		return nil, errors.New("trailer is not a dictionary")
	}
	return trailer.Dict, nil
}

// readStream parses a cross-reference stream (PDF 1.5+).
func (doc *Document) readStream(l *lexer) (Dict, error) {
	if _, ok := l.objectHeader(); !ok {
		return nil, errors.New("xref stream: missing object header")
	}
	o, err := l.object()
	if err != nil {
		return nil, err
	}
	if o.Kind != Stream {
		return nil, errors.New("xref offset does not point at a stream")
	}
	data, err := decode(o)
	if err != nil {
		return nil, err
	}

	w, _ := o.Dict.Array("W")
	if len(w) < 3 {
		return nil, errors.New("xref stream: missing /W")
	}
	widths := [3]int{int(w[0].Int), int(w[1].Int), int(w[2].Int)}
	entry := widths[0] + widths[1] + widths[2]
	if entry == 0 {
		return nil, errors.New("xref stream: zero entry size")
	}

	size, _ := o.Dict.Int("Size")
	ranges := [][2]int{{0, int(size)}}
	if index, ok := o.Dict.Array("Index"); ok && len(index) >= 2 {
		ranges = ranges[:0]
		for i := 0; i+1 < len(index); i += 2 {
			ranges = append(ranges, [2]int{int(index[i].Int), int(index[i+1].Int)})
		}
	}

	pos := 0
	for _, r := range ranges {
		for i := 0; i < r[1] && pos+entry <= len(data); i++ {
			field := func(n, at int) int {
				v := 0
				for _, b := range data[at : at+n] {
					v = v<<8 | int(b)
				}
				return v
			}
			typ := 1
			if widths[0] > 0 {
				typ = field(widths[0], pos)
			}
			f2 := field(widths[1], pos+widths[0])
			f3 := field(widths[2], pos+widths[0]+widths[1])
			pos += entry

			num := r[0] + i
			if _, seen := doc.xref[num]; seen {
				continue
			}
			switch typ {
			case 0:
				doc.xref[num] = xrefEntry{}
			case 1:
				doc.xref[num] = xrefEntry{offset: int64(f2), inUse: true}
			case 2:
				doc.xref[num] = xrefEntry{container: f2, index: f3, packed: true, inUse: true}
			}
		}
	}
	return o.Dict, nil
}

// resolve follows indirect references; other objects are returned as is.
func (doc *Document) resolve(o *Object) *Object {
	for hops := 0; o != nil && o.Kind == Ref && hops < 32; hops++ {
		o = doc.object(o.Ref.Num)
	}
	if o == nil {
		return nullObject
	}
	return o
}

func (doc *Document) object(num int) *Object {
	if o, ok := doc.cache[num]; ok {
		return o
	}
	// Guard against reference cycles while the object is being read.
	doc.cache[num] = nullObject

	e, ok := doc.xref[num]
	if !ok || !e.inUse {
		return nullObject
	}
	var o *Object
	if e.packed {
		o = doc.packedObject(num, e)
	} else {
		o = doc.objectAt(e.offset)
	}
	doc.cache[num] = o
	return o
}

func (doc *Document) objectAt(offset int64) *Object {
	if offset < 0 || offset >= int64(len(doc.data)) {
		return nullObject
	}
	l := newLexer(doc.data, int(offset))
	if _, ok := l.objectHeader(); !ok {
		return nullObject
	}
	o, err := l.object()
	if err != nil {
		return nullObject
	}
	if length, ok := o.Dict["Length"]; ok && o.Kind == Stream && length.Kind == Ref {
		// Re-read with the indirect /Length resolved.
		o.Dict["Length"] = doc.resolve(o.Dict["Length"])
		l = newLexer(doc.data, int(offset))
		l.objectHeader()
		if again, err := l.object(); err == nil {
			o = again
		}
	}
	return o
}

// packedObject reads object num from the object stream named by e.
func (doc *Document) packedObject(num int, e xrefEntry) *Object {
	container := doc.object(e.container)
	if container.Kind != Stream {
		return nullObject
	}
	data, err := decode(container)
	if err != nil {
		return nullObject
	}
	n, _ := container.Dict.Int("N")
	first, _ := container.Dict.Int("First")

	l := newLexer(data, 0)
	offset := -1
	for i := 0; i < int(n); i++ {
		l.skip()
		id, _ := strconv.Atoi(l.word())
		l.skip()
		off, _ := strconv.Atoi(l.word())
		if id == num {
			offset = off
			break
		}
	}
	if offset < 0 || int(first)+offset >= len(data) {
		return nullObject
	}
	o, err := newLexer(data, int(first)+offset).object()
	if err != nil {
		return nullObject
	}
	return o
}

func (doc *Document) catalog() (Dict, error) {
	root := doc.resolve(doc.trailer["Root"])
	if root.Kind != Dictionary {
		return nil, errors.New("pdfinfo: missing document catalog")
	}
	return root.Dict, nil
}

// Pages walks the page tree and returns every page in order. MediaBox and
// Rotate are inherited from ancestors when a page does not set them.
func (doc *Document) Pages() ([]PageInfo, error) {
	cat, err := doc.catalog()
	if err != nil {
		return nil, err
	}
	root := doc.resolve(cat["Pages"])
	if root.Kind != Dictionary {
		return nil, errors.New("pdfinfo: missing page tree")
	}
	var pages []PageInfo
	doc.walk(root.Dict, PageInfo{}, map[*Object]bool{}, &pages)
	return pages, nil
}

func (doc *Document) walk(node Dict, inherited PageInfo, seen map[*Object]bool, out *[]PageInfo) {
	info := inherited
	if box := doc.resolve(node["MediaBox"]); box.Kind == Array && len(box.Array) >= 4 {
		x0, _ := doc.resolve(box.Array[0]).Number()
		y0, _ := doc.resolve(box.Array[1]).Number()
		x1, _ := doc.resolve(box.Array[2]).Number()
		y1, _ := doc.resolve(box.Array[3]).Number()
		info.Width, info.Height = x1-x0, y1-y0
	}
	if rot, ok := doc.resolve(node["Rotate"]).Number(); ok {
		info.Rotation = int(rot)
	}

	if typ, _ := node.Name("Type"); typ == "Page" {
		*out = append(*out, info)
		return
	}
	kids := doc.resolve(node["Kids"])
	if kids.Kind != Array {
		return
	}
	for _, k := range kids.Array {
		kid := doc.resolve(k)
		if seen[kid] || (kid.Kind != Dictionary && kid.Kind != Stream) {
			continue
		}
		seen[kid] = true
		doc.walk(kid.Dict, info, seen, out)
	}
}
