package pdfinfo

import (
	"bytes"
	"errors"
	"strconv"
)

const maxDepth = 100

var errTooDeep = errors.New("pdfinfo: objects nested too deeply")

// lexer is a recursive-descent reader of PDF objects over an in-memory file.
type lexer struct {
	buf   []byte
	pos   int
	depth int
}

func newLexer(buf []byte, pos int) *lexer {
	return &lexer{buf: buf, pos: pos}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// skip advances past whitespace and comments.
func (l *lexer) skip() {
	for l.pos < len(l.buf) {
		switch c := l.buf[l.pos]; {
		case c == '%':
			for l.pos < len(l.buf) && l.buf[l.pos] != '\n' && l.buf[l.pos] != '\r' {
				l.pos++
			}
		case isSpace(c):
			l.pos++
		default:
			return
		}
	}
}

// accept consumes kw if the input continues with it.
func (l *lexer) accept(kw string) bool {
	if bytes.HasPrefix(l.buf[l.pos:], []byte(kw)) {
		l.pos += len(kw)
		return true
	}
	return false
}

// word returns the next run of regular characters.
func (l *lexer) word() string {
	start := l.pos
	for l.pos < len(l.buf) && !isSpace(l.buf[l.pos]) && !isDelimiter(l.buf[l.pos]) {
		l.pos++
	}
	return string(l.buf[start:l.pos])
}

// objectHeader consumes "N G obj" and reports the object number.
func (l *lexer) objectHeader() (int, bool) {
	l.skip()
	num, err := strconv.Atoi(l.word())
	if err != nil {
		return 0, false
	}
	l.skip()
	if _, err := strconv.Atoi(l.word()); err != nil {
		return 0, false
	}
	l.skip()
	return num, l.accept("obj")
}

func (l *lexer) object() (*Object, error) {
	if l.depth >= maxDepth {
		return nil, errTooDeep
	}
	l.depth++
	defer func() { l.depth-- }()

	l.skip()
	if l.pos >= len(l.buf) {
		return nullObject, nil
	}
	switch c := l.buf[l.pos]; {
	case l.accept("null"):
		return nullObject, nil
	case l.accept("true"):
		return &Object{Kind: Bool, Bool: true}, nil
	case l.accept("false"):
		return &Object{Kind: Bool}, nil
	case c == '(':
		return l.literal(), nil
	case l.accept("<<"):
		return l.dictionary()
	case c == '<':
		return l.hex(), nil
	case c == '/':
		return l.name(), nil
	case c == '[':
		return l.array()
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return l.number(), nil
	default:
		l.pos++
		return nullObject, nil
	}
}

// literal reads a (...) string, handling nested parentheses and escapes.
func (l *lexer) literal() *Object {
	l.pos++
	var out bytes.Buffer
	for open := 1; l.pos < len(l.buf); {
		c := l.buf[l.pos]
		l.pos++
		switch c {
		case '\\':
			if l.pos < len(l.buf) {
				out.WriteByte(unescape(l.buf[l.pos]))
				l.pos++
			}
			continue
		case '(':
			open++
		case ')':
			open--
			if open == 0 {
				return &Object{Kind: String, Str: out.Bytes()}
			}
		}
		out.WriteByte(c)
	}
	return &Object{Kind: String, Str: out.Bytes()}
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	}
	return c
}

func (l *lexer) hex() *Object {
	l.pos++
	end := bytes.IndexByte(l.buf[l.pos:], '>')
	next := l.pos + end + 1
	if end < 0 {
		end = len(l.buf) - l.pos
		next = len(l.buf)
	}
	digits := make([]byte, 0, end)
	for _, c := range l.buf[l.pos : l.pos+end] {
		if !isSpace(c) {
			digits = append(digits, c)
		}
	}
	l.pos = next
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = nibble(digits[2*i])<<4 | nibble(digits[2*i+1])
	}
	return &Object{Kind: String, Str: out}
}

func nibble(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

// name reads /Name, decoding #XX escapes.
func (l *lexer) name() *Object {
	l.pos++
	raw := l.word()
	if !bytes.ContainsRune([]byte(raw), '#') {
		return &Object{Kind: Name, Name: raw}
	}
	var out bytes.Buffer
	for i := 0; i < len(raw); i++ {
		if raw[i] == '#' && i+2 < len(raw) {
			out.WriteByte(nibble(raw[i+1])<<4 | nibble(raw[i+2]))
			i += 2
			continue
		}
		out.WriteByte(raw[i])
	}
	return &Object{Kind: Name, Name: out.String()}
}

func (l *lexer) array() (*Object, error) {
	l.pos++
	var items []*Object
	for {
		l.skip()
		if l.pos >= len(l.buf) {
			break
		}
		if l.buf[l.pos] == ']' {
			l.pos++
			break
		}
		o, err := l.object()
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return &Object{Kind: Array, Array: items}, nil
}

// dictionary reads the body of <<...>> and a trailing stream, if any.
func (l *lexer) dictionary() (*Object, error) {
	d := make(Dict)
	for {
		l.skip()
		if l.pos >= len(l.buf) || l.accept(">>") {
			break
		}
		if l.buf[l.pos] != '/' {
			l.pos++
			continue
		}
		key := l.name().Name
		val, err := l.object()
		if err != nil {
			return nil, err
		}
		d[key] = val
	}

	l.skip()
	if !l.accept("stream") {
		return &Object{Kind: Dictionary, Dict: d}, nil
	}
	l.accept("\r")
	l.accept("\n")

	start := l.pos
	n, ok := d.Int("Length")
	if ok && d["Length"].Kind == Int && n >= 0 && start+int(n) <= len(l.buf) {
		l.pos = start + int(n)
	} else {
		end := bytes.Index(l.buf[start:], []byte("endstream"))
		if end < 0 {
			end = len(l.buf) - start
		}
		l.pos = start + end
	}
	data := l.buf[start:l.pos]
	l.skip()
	l.accept("endstream")
	return &Object{Kind: Stream, Dict: d, Stream: data}, nil
}

// number reads an integer, a real, or an indirect reference "N G R".
func (l *lexer) number() *Object {
	tok := l.word()
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(tok, 64)
		if ferr != nil {
			return nullObject
		}
		return &Object{Kind: Real, Real: f}
	}

	after := l.pos
	l.skip()
	if gen, err := strconv.Atoi(l.word()); err == nil {
		l.skip()
		if l.pos < len(l.buf) && l.buf[l.pos] == 'R' &&
			(l.pos+1 == len(l.buf) || isSpace(l.buf[l.pos+1]) || isDelimiter(l.buf[l.pos+1])) {
			l.pos++
			return &Object{Kind: Ref, Ref: ObjRef{Num: int(n), Gen: gen}}
		}
	}
	l.pos = after
	return &Object{Kind: Int, Int: n}
}
