package core

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	// DataRange is the intensity range of 8-bit samples.
	DataRange = 255.0

	// SSIMWindow is the side of the square uniform window SSIM averages over.
	SSIMWindow = 7

	// PSNRIdentical is reported when two images have zero mean squared error.
	PSNRIdentical = 100.0

	ssimK1 = 0.01
	ssimK2 = 0.03
)

// ErrWindow is returned by SSIM when a plane is smaller than the window.
var ErrWindow = errors.New("plane smaller than SSIM window")

// SSIM computes the mean structural similarity of two equally sized planes
// using a 7x7 uniform window, sample covariance, K1=0.01, K2=0.03 and a
// data range of 255. Border samples within half a window of the edge are
// excluded from the mean.
func SSIM(x, y *mat.Dense) (float64, error) {
	rows, cols := x.Dims()
	if yr, yc := y.Dims(); yr != rows || yc != cols {
		return 0, fmt.Errorf("ssim: dimension mismatch %dx%d vs %dx%d", rows, cols, yr, yc)
	}
	if rows < SSIMWindow || cols < SSIMWindow {
		return 0, fmt.Errorf("ssim: %dx%d: %w", cols, rows, ErrWindow)
	}

	np := float64(SSIMWindow * SSIMWindow)
	covNorm := np / (np - 1)

	var xx, yy, xy mat.Dense
	xx.MulElem(x, x)
	yy.MulElem(y, y)
	xy.MulElem(x, y)

	ux := uniformFilter(x, SSIMWindow)
	uy := uniformFilter(y, SSIMWindow)
	uxx := uniformFilter(&xx, SSIMWindow)
	uyy := uniformFilter(&yy, SSIMWindow)
	uxy := uniformFilter(&xy, SSIMWindow)

	c1 := (ssimK1 * DataRange) * (ssimK1 * DataRange)
	c2 := (ssimK2 * DataRange) * (ssimK2 * DataRange)

	pad := (SSIMWindow - 1) / 2
	s := make([]float64, 0, (rows-2*pad)*(cols-2*pad))
	for i := pad; i < rows-pad; i++ {
		for j := pad; j < cols-pad; j++ {
			mx, my := ux.At(i, j), uy.At(i, j)
			vx := covNorm * (uxx.At(i, j) - mx*mx)
			vy := covNorm * (uyy.At(i, j) - my*my)
			vxy := covNorm * (uxy.At(i, j) - mx*my)

			a1 := 2*mx*my + c1
			a2 := 2*vxy + c2
			b1 := mx*mx + my*my + c1
			b2 := vx + vy + c2
			s = append(s, (a1*a2)/(b1*b2))
		}
	}
	return stat.Mean(s, nil), nil
}

// MSE is the mean squared error over every sample of every plane pair.
func MSE(a, b []*mat.Dense) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("mse: %d planes vs %d", len(a), len(b))
	}
	var sum float64
	var n int
	for i := range a {
		ar, ac := a[i].Dims()
		br, bc := b[i].Dims()
		if ar != br || ac != bc {
			return 0, fmt.Errorf("mse: plane %d dimension mismatch %dx%d vs %dx%d", i, ac, ar, bc, br)
		}
		da := mat.DenseCopyOf(a[i]).RawMatrix().Data
		db := mat.DenseCopyOf(b[i]).RawMatrix().Data
		diff := make([]float64, len(da))
		floats.SubTo(diff, da, db)
		sum += floats.Dot(diff, diff)
		n += len(diff)
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

// PSNR converts a mean squared error into decibels against an 8-bit peak.
// Zero error is reported as PSNRIdentical.
func PSNR(mse float64) float64 {
	if mse == 0 {
		return PSNRIdentical
	}
	return 10 * math.Log10(DataRange*DataRange/mse)
}

// uniformFilter is a separable box mean of the given odd size with
// half-sample symmetric borders (d c b a | a b c d | d c b a).
func uniformFilter(p mat.Matrix, size int) *mat.Dense {
	rows, cols := p.Dims()
	r := size / 2
	norm := 1 / float64(size)

	tmp := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			var sum float64
			for k := -r; k <= r; k++ {
				sum += p.At(i, reflect(j+k, cols))
			}
			tmp.Set(i, j, sum*norm)
		}
	}

	out := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			var sum float64
			for k := -r; k <= r; k++ {
				sum += tmp.At(reflect(i+k, rows), j)
			}
			out.Set(i, j, sum*norm)
		}
	}
	return out
}

func reflect(i, n int) int {
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		} else {
			i = 2*n - i - 1
		}
	}
	return i
}
