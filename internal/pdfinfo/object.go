// Package pdfinfo reads just enough of a PDF file to answer structural
// questions about it: version, page count and page sizes. It follows the
// cross-reference table or stream, object streams and the page tree, and is
// used to verify generated and merged reports.
package pdfinfo

// Kind identifies the type of a PDF object.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Real
	String
	Name
	Array
	Dictionary
	Stream
	Ref
)

// Object is a parsed PDF object. Only the field matching Kind is set.
type Object struct {
	Kind   Kind
	Bool   bool
	Int    int64
	Real   float64
	Str    []byte
	Name   string
	Array  []*Object
	Dict   Dict
	Stream []byte // raw, still encoded
	Ref    ObjRef
}

// ObjRef is an indirect object reference "N G R".
type ObjRef struct {
	Num int
	Gen int
}

// Dict maps PDF names (without the slash) to objects.
type Dict map[string]*Object

var nullObject = &Object{Kind: Null}

// Number returns the numeric value of an Int or Real object.
func (o *Object) Number() (float64, bool) {
	if o == nil {
		return 0, false
	}
	switch o.Kind {
	case Int:
		return float64(o.Int), true
	case Real:
		return o.Real, true
	}
	return 0, false
}

// Int returns d[key] as an integer.
func (d Dict) Int(key string) (int64, bool) {
	v, ok := d[key].Number()
	return int64(v), ok
}

// Name returns d[key] as a name.
func (d Dict) Name(key string) (string, bool) {
	o, ok := d[key]
	if !ok || o.Kind != Name {
		return "", false
	}
	return o.Name, true
}

// Array returns d[key] as an array. A single object is returned as a
// one-element array, the way filter lists are allowed to be written.
func (d Dict) Array(key string) ([]*Object, bool) {
	o, ok := d[key]
	if !ok {
		return nil, false
	}
	if o.Kind == Array {
		return o.Array, true
	}
	return []*Object{o}, true
}
