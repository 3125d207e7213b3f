package leadreport

import (
	"fmt"
	"unicode/utf8"

	"github.com/porticus-lab/go-lead-report/internal/render"
)

// DefaultMinWidth is the narrowest column the heuristic produces, 0.6in.
const DefaultMinWidth = 0.6 * render.PointsPerInch

// TotalWidth returns the printable width of pg in points.
func TotalWidth(pg render.PageConfig) float64 {
	return pg.Resolved().PrintableWidth()
}

// ComputeWidths returns one width per column of ds, in points.
//
// With explicit widths (pixels from the editor), each column gets its
// proportional share of totalWidth and the result sums to totalWidth. No
// floor is applied on this path. A length that differs from the column
// count, or a non-positive sum, fails with [ErrShapeMismatch].
//
// Without explicit widths, each column is scored by the longest of its cells
// and its header, measured in runes, and gets score/sum(scores) of
// totalWidth, but never less than minWidth. When the floor binds the total
// may exceed totalWidth.
func ComputeWidths(ds *Dataset, totalWidth, minWidth float64, explicit []float64) ([]float64, error) {
	n := ds.NumColumns()
	if explicit != nil {
		if len(explicit) != n {
			return nil, fmt.Errorf("%w: %d widths for %d columns", ErrShapeMismatch, len(explicit), n)
		}
		var sum float64
		for _, w := range explicit {
			sum += w
		}
		if n > 0 && sum <= 0 {
			return nil, fmt.Errorf("%w: widths sum to %g", ErrShapeMismatch, sum)
		}
		out := make([]float64, n)
		for i, w := range explicit {
			out[i] = w / sum * totalWidth
		}
		return out, nil
	}

	if n == 0 {
		return []float64{}, nil
	}
	scores := make([]int, n)
	var sum int
	for i, name := range ds.columns {
		score := utf8.RuneCountInString(name)
		for _, row := range ds.rows {
			score = max(score, utf8.RuneCountInString(row[i]))
		}
		scores[i] = score
		sum += score
	}

	out := make([]float64, n)
	for i, s := range scores {
		raw := totalWidth / float64(n)
		if sum > 0 {
			raw = float64(s) / float64(sum) * totalWidth
		}
		out[i] = max(raw, minWidth)
	}
	return out, nil
}

// PixelsToFloats converts editor pixel widths for [ComputeWidths].
func PixelsToFloats(px []int) []float64 {
	if px == nil {
		return nil
	}
	out := make([]float64, len(px))
	for i, p := range px {
		out[i] = float64(p)
	}
	return out
}
