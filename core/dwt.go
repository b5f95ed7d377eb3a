package core

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Sqrt2 is the orthonormal Haar scaling factor.
const Sqrt2 = math.Sqrt2

// Decomposition is one level of a 2D Haar transform of a channel plane.
// All four sub-bands share the same dimensions, ceil(rows/2) x ceil(cols/2).
//
//	Approx     low  x, low  y
//	Horizontal low  x, high y (horizontal edges)
//	Vertical   high x, low  y (vertical edges)
//	Diagonal   high x, high y
type Decomposition struct {
	Approx     *mat.Dense
	Horizontal *mat.Dense
	Vertical   *mat.Dense
	Diagonal   *mat.Dense

	// Rows and Cols of the plane the decomposition was taken from. Inverse
	// crops its reconstruction back to this size.
	Rows, Cols int
}

// Forward performs a single-level 2D Haar transform of plane.
//
// An odd trailing row or column is handled by symmetric extension (the last
// sample is repeated), so every sub-band has ceil(n/2) samples along that
// axis. The plane itself is not modified.
func Forward(plane *mat.Dense) *Decomposition {
	rows, cols := plane.Dims()
	padded := padEven(plane)
	h, w := padded.Dims()
	hh, hw := h/2, w/2

	// Pair neighbouring columns: sums to the left half, differences to the
	// right half.
	split := mat.NewDense(h, w, nil)
	for i := 0; i < h; i++ {
		src, dst := padded.RawRowView(i), split.RawRowView(i)
		for j := 0; j < hw; j++ {
			a, b := src[2*j], src[2*j+1]
			dst[j] = (a + b) / Sqrt2
			dst[hw+j] = (a - b) / Sqrt2
		}
	}

	// Pair neighbouring rows the same way, whole rows at a time.
	out := mat.NewDense(h, w, nil)
	for i := 0; i < hh; i++ {
		top, bottom := split.RawRowView(2*i), split.RawRowView(2*i+1)
		lo, hi := out.RawRowView(i), out.RawRowView(hh+i)
		floats.AddTo(lo, top, bottom)
		floats.Scale(1/Sqrt2, lo)
		floats.SubTo(hi, top, bottom)
		floats.Scale(1/Sqrt2, hi)
	}

	//   LL HL
	//   LH HH
	return &Decomposition{
		Approx:     mat.DenseCopyOf(out.Slice(0, hh, 0, hw)),
		Vertical:   mat.DenseCopyOf(out.Slice(0, hh, hw, w)),
		Horizontal: mat.DenseCopyOf(out.Slice(hh, h, 0, hw)),
		Diagonal:   mat.DenseCopyOf(out.Slice(hh, h, hw, w)),
		Rows:       rows,
		Cols:       cols,
	}
}

// Inverse reconstructs the plane a Decomposition was taken from. The result
// has the original plane's dimensions. No clipping is applied.
func Inverse(d *Decomposition) *mat.Dense {
	hh, hw := d.Approx.Dims()
	h, w := 2*hh, 2*hw

	full := mat.NewDense(h, w, nil)
	full.Slice(0, hh, 0, hw).(*mat.Dense).Copy(d.Approx)
	full.Slice(0, hh, hw, w).(*mat.Dense).Copy(d.Vertical)
	full.Slice(hh, h, 0, hw).(*mat.Dense).Copy(d.Horizontal)
	full.Slice(hh, h, hw, w).(*mat.Dense).Copy(d.Diagonal)

	// Undo the row pairing.
	split := mat.NewDense(h, w, nil)
	for i := 0; i < hh; i++ {
		lo, hi := full.RawRowView(i), full.RawRowView(hh+i)
		top, bottom := split.RawRowView(2*i), split.RawRowView(2*i+1)
		floats.AddTo(top, lo, hi)
		floats.Scale(1/Sqrt2, top)
		floats.SubTo(bottom, lo, hi)
		floats.Scale(1/Sqrt2, bottom)
	}

	// Undo the column pairing.
	out := mat.NewDense(h, w, nil)
	for i := 0; i < h; i++ {
		src, dst := split.RawRowView(i), out.RawRowView(i)
		for j := 0; j < hw; j++ {
			l, hf := src[j], src[hw+j]
			dst[2*j] = (l + hf) / Sqrt2
			dst[2*j+1] = (l - hf) / Sqrt2
		}
	}

	rows, cols := d.Rows, d.Cols
	if rows == 0 || cols == 0 {
		rows, cols = h, w
	}
	if rows == h && cols == w {
		return out
	}
	return mat.DenseCopyOf(out.Slice(0, rows, 0, cols))
}

// SubbandDims returns the size of each sub-band Forward produces for a
// rows x cols plane.
func SubbandDims(rows, cols int) (int, int) {
	return (rows + 1) / 2, (cols + 1) / 2
}

// padEven copies plane into a matrix with even dimensions, repeating the
// last row and/or column when needed.
func padEven(plane *mat.Dense) *mat.Dense {
	rows, cols := plane.Dims()
	h, w := rows+rows%2, cols+cols%2
	out := mat.NewDense(h, w, nil)
	for i := 0; i < h; i++ {
		si := min(i, rows-1)
		for j := 0; j < w; j++ {
			out.Set(i, j, plane.At(si, min(j, cols-1)))
		}
	}
	return out
}
