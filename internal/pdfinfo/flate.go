package pdfinfo

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// maxStreamSize bounds decoded stream size (64 MB); structural streams are
// tiny, anything larger is not something this package needs to read.
const maxStreamSize = 64 << 20

// decode returns the decoded bytes of a stream object. Only FlateDecode, the
// filter used for xref and object streams, is supported.
func decode(o *Object) ([]byte, error) {
	filters, ok := o.Dict.Array("Filter")
	if !ok {
		return o.Stream, nil
	}
	data := o.Stream
	for i, f := range filters {
		if f.Kind != Name {
			continue
		}
		switch f.Name {
		case "FlateDecode", "Fl":
			var err error
			if data, err = inflate(data); err != nil {
				return nil, err
			}
			if i == 0 {
				if parms, ok := o.Dict["DecodeParms"]; ok && parms.Kind == Dictionary {
					if data, err = unpredict(parms.Dict, data); err != nil {
						return nil, err
					}
				}
			}
		default:
			return nil, fmt.Errorf("pdfinfo: unsupported stream filter %s", f.Name)
		}
	}
	return data, nil
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("pdfinfo: zlib: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, maxStreamSize+1))
	if err != nil {
		return nil, fmt.Errorf("pdfinfo: zlib read: %w", err)
	}
	if len(out) > maxStreamSize {
		return nil, fmt.Errorf("pdfinfo: stream exceeds %d bytes", maxStreamSize)
	}
	return out, nil
}

// unpredict reverses the PNG row predictors (10-15) that PDF writers apply to
// xref streams. Other predictors are returned unchanged.
func unpredict(parms Dict, data []byte) ([]byte, error) {
	predictor, _ := parms.Int("Predictor")
	if predictor < 10 {
		return data, nil
	}
	columns, ok := parms.Int("Columns")
	if !ok || columns <= 0 {
		columns = 1
	}
	colors, ok := parms.Int("Colors")
	if !ok || colors <= 0 {
		colors = 1
	}
	bpc, ok := parms.Int("BitsPerComponent")
	if !ok || bpc <= 0 {
		bpc = 8
	}
	bpp := int((colors*bpc + 7) / 8)
	rowLen := int((columns*colors*bpc + 7) / 8)
	stride := rowLen + 1
	if len(data)%stride != 0 {
		return nil, fmt.Errorf("pdfinfo: predictor data length %d is not a multiple of %d", len(data), stride)
	}

	out := make([]byte, 0, len(data)/stride*rowLen)
	prev := make([]byte, rowLen)
	for off := 0; off < len(data); off += stride {
		kind := data[off]
		row := append([]byte(nil), data[off+1:off+stride]...)
		for i := range row {
			var left, upLeft byte
			if i >= bpp {
				left = row[i-bpp]
				upLeft = prev[i-bpp]
			}
			up := prev[i]
			switch kind {
			case 1:
				row[i] += left
			case 2:
				row[i] += up
			case 3:
				row[i] += byte((int(left) + int(up)) / 2)
			case 4:
				row[i] += paeth(left, up, upLeft)
			}
		}
		out = append(out, row...)
		prev = row
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := absInt(p-int(a)), absInt(p-int(b)), absInt(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
