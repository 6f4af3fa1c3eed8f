// Package alignment estimates the transform that maps one side's image onto
// the other from paired match markers, for the aligned overlay view.
package alignment

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"ridgecompare/pkg/geometry"
)

// ErrInsufficientPairs is returned when too few match pairs exist for the
// requested model.
var ErrInsufficientPairs = errors.New("alignment: not enough match pairs")

// Model selects the transform family to estimate.
type Model int

const (
	// ModelRigid estimates rotation plus translation. Two pairs minimum.
	// Scale is excluded; both sides are assumed resampled to a common DPI.
	ModelRigid Model = iota
	// ModelAffine estimates a full affine. Three pairs minimum.
	ModelAffine
)

func (m Model) String() string {
	switch m {
	case ModelRigid:
		return "rigid"
	case ModelAffine:
		return "affine"
	default:
		return "unknown"
	}
}

// Result holds an estimated alignment.
type Result struct {
	Transform geometry.AffineTransform
	Model     Model
	Inliers   []int
	MeanError float64
	PairCount int
}

// RANSAC parameters. Match markers are placed by hand, so the inlier
// threshold is generous.
const (
	ransacIterations = 2000
	ransacThreshold  = 5.0
)

// Estimate computes the transform mapping srcPoints onto dstPoints. With two
// pairs it fits a rigid transform; with three or more it fits an affine and
// falls back to rigid when the affine is poorly constrained.
func Estimate(srcPoints, dstPoints []geometry.Point2D) (*Result, error) {
	if len(srcPoints) != len(dstPoints) {
		return nil, fmt.Errorf("alignment: point count mismatch: %d vs %d", len(srcPoints), len(dstPoints))
	}
	n := len(srcPoints)
	switch {
	case n < 2:
		return nil, fmt.Errorf("%w: have %d, need 2", ErrInsufficientPairs, n)
	case n == 2:
		t, err := rigidFrom2(srcPoints[0], srcPoints[1], dstPoints[0], dstPoints[1])
		if err != nil {
			return nil, err
		}
		r := &Result{Transform: t, Model: ModelRigid, Inliers: []int{0, 1}, PairCount: n}
		r.MeanError = MeanError(srcPoints, dstPoints, t)
		return r, nil
	case n == 3:
		t, err := affineFrom3(srcPoints, dstPoints)
		if err != nil {
			return rigidRANSAC(srcPoints, dstPoints)
		}
		r := &Result{Transform: t, Model: ModelAffine, Inliers: []int{0, 1, 2}, PairCount: n}
		r.MeanError = MeanError(srcPoints, dstPoints, t)
		return r, nil
	default:
		r, err := affineRANSAC(srcPoints, dstPoints)
		if err != nil {
			return rigidRANSAC(srcPoints, dstPoints)
		}
		return r, nil
	}
}

// affineRANSAC estimates an affine transform robust to mispaired markers.
func affineRANSAC(srcPoints, dstPoints []geometry.Point2D) (*Result, error) {
	n := len(srcPoints)
	bestInliers := []int{}
	var bestTransform geometry.AffineTransform

	for iter := 0; iter < ransacIterations; iter++ {
		indices := rand.Perm(n)[:3]

		sample := make([]geometry.Point2D, 3)
		target := make([]geometry.Point2D, 3)
		for i, idx := range indices {
			sample[i] = srcPoints[idx]
			target[i] = dstPoints[idx]
		}

		transform, err := affineFrom3(sample, target)
		if err != nil {
			continue
		}

		var inliers []int
		for i := range srcPoints {
			if transform.Apply(srcPoints[i]).Distance(dstPoints[i]) < ransacThreshold {
				inliers = append(inliers, i)
			}
		}
		if len(inliers) > len(bestInliers) {
			bestInliers = inliers
			bestTransform = transform
		}
	}

	if len(bestInliers) < 3 {
		return nil, fmt.Errorf("%w: no consensus among %d pairs", ErrInsufficientPairs, n)
	}

	inlierSrc := make([]geometry.Point2D, len(bestInliers))
	inlierDst := make([]geometry.Point2D, len(bestInliers))
	for i, idx := range bestInliers {
		inlierSrc[i] = srcPoints[idx]
		inlierDst[i] = dstPoints[idx]
	}

	final, err := affineLeastSquares(inlierSrc, inlierDst)
	if err != nil {
		final = bestTransform
	}
	r := &Result{Transform: final, Model: ModelAffine, Inliers: bestInliers, PairCount: n}
	r.MeanError = MeanError(inlierSrc, inlierDst, final)
	return r, nil
}

// rigidRANSAC estimates a rigid transform robust to mispaired markers.
func rigidRANSAC(srcPoints, dstPoints []geometry.Point2D) (*Result, error) {
	n := len(srcPoints)
	if n < 2 {
		return nil, fmt.Errorf("%w: have %d, need 2", ErrInsufficientPairs, n)
	}

	bestInliers := []int{}
	for iter := 0; iter < ransacIterations; iter++ {
		indices := rand.Perm(n)[:2]
		i0, i1 := indices[0], indices[1]

		transform, err := rigidFrom2(srcPoints[i0], srcPoints[i1], dstPoints[i0], dstPoints[i1])
		if err != nil {
			continue
		}

		var inliers []int
		for i := range srcPoints {
			if transform.Apply(srcPoints[i]).Distance(dstPoints[i]) < ransacThreshold {
				inliers = append(inliers, i)
			}
		}
		if len(inliers) > len(bestInliers) {
			bestInliers = inliers
		}
	}

	if len(bestInliers) < 2 {
		return nil, fmt.Errorf("%w: no consensus among %d pairs", ErrInsufficientPairs, n)
	}

	inlierSrc := make([]geometry.Point2D, len(bestInliers))
	inlierDst := make([]geometry.Point2D, len(bestInliers))
	for i, idx := range bestInliers {
		inlierSrc[i] = srcPoints[idx]
		inlierDst[i] = dstPoints[idx]
	}

	final := rigidLeastSquares(inlierSrc, inlierDst)
	r := &Result{Transform: final, Model: ModelRigid, Inliers: bestInliers, PairCount: n}
	r.MeanError = MeanError(inlierSrc, inlierDst, final)
	return r, nil
}

// rigidFrom2 computes a rigid transform (rotation + translation) from two
// point pairs.
func rigidFrom2(s0, s1, d0, d1 geometry.Point2D) (geometry.AffineTransform, error) {
	sx, sy := s1.X-s0.X, s1.Y-s0.Y
	dx, dy := d1.X-d0.X, d1.Y-d0.Y

	srcLen := math.Sqrt(sx*sx + sy*sy)
	dstLen := math.Sqrt(dx*dx + dy*dy)
	if srcLen < 0.001 || dstLen < 0.001 {
		return geometry.AffineTransform{}, fmt.Errorf("alignment: degenerate pair")
	}

	theta := math.Atan2(dy, dx) - math.Atan2(sy, sx)
	cosT := math.Cos(theta)
	sinT := math.Sin(theta)

	// d0 = R * s0 + t  =>  t = d0 - R * s0
	tx := d0.X - (cosT*s0.X - sinT*s0.Y)
	ty := d0.Y - (sinT*s0.X + cosT*s0.Y)

	return geometry.AffineTransform{
		A: cosT, B: -sinT, TX: tx,
		C: sinT, D: cosT, TY: ty,
	}, nil
}

// rigidLeastSquares computes the best rigid transform from N point pairs
// using the centroid cross/dot method.
func rigidLeastSquares(src, dst []geometry.Point2D) geometry.AffineTransform {
	srcC := geometry.Centroid(src)
	dstC := geometry.Centroid(dst)

	var dotSum, crossSum float64
	for i := range src {
		sx, sy := src[i].X-srcC.X, src[i].Y-srcC.Y
		dx, dy := dst[i].X-dstC.X, dst[i].Y-dstC.Y
		dotSum += sx*dx + sy*dy
		crossSum += sx*dy - sy*dx
	}

	theta := math.Atan2(crossSum, dotSum)
	cosT := math.Cos(theta)
	sinT := math.Sin(theta)

	tx := dstC.X - (cosT*srcC.X - sinT*srcC.Y)
	ty := dstC.Y - (sinT*srcC.X + cosT*srcC.Y)

	return geometry.AffineTransform{
		A: cosT, B: -sinT, TX: tx,
		C: sinT, D: cosT, TY: ty,
	}
}

// affineFrom3 computes an affine transform from exactly 3 point pairs.
func affineFrom3(src, dst []geometry.Point2D) (geometry.AffineTransform, error) {
	if len(src) != 3 || len(dst) != 3 {
		return geometry.AffineTransform{}, fmt.Errorf("alignment: need exactly 3 points")
	}

	// [x', y'] = [a, b, tx; c, d, ty] * [x, y, 1]
	A := mat.NewDense(6, 6, nil)
	B := mat.NewVecDense(6, nil)

	for i := 0; i < 3; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		B.SetVec(i*2, xp)

		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		B.SetVec(i*2+1, yp)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, B); err != nil {
		return geometry.AffineTransform{}, err
	}

	return geometry.AffineTransform{
		A:  params.AtVec(0),
		B:  params.AtVec(1),
		TX: params.AtVec(2),
		C:  params.AtVec(3),
		D:  params.AtVec(4),
		TY: params.AtVec(5),
	}, nil
}

// affineLeastSquares solves the overdetermined affine system with QR.
func affineLeastSquares(src, dst []geometry.Point2D) (geometry.AffineTransform, error) {
	n := len(src)
	if n < 3 {
		return geometry.AffineTransform{}, fmt.Errorf("alignment: need at least 3 points")
	}

	A := mat.NewDense(n*2, 6, nil)
	B := mat.NewVecDense(n*2, nil)

	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		B.SetVec(i*2, xp)

		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		B.SetVec(i*2+1, yp)
	}

	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, B); err != nil {
		return geometry.AffineTransform{}, err
	}

	return geometry.AffineTransform{
		A:  params.AtVec(0),
		B:  params.AtVec(1),
		TX: params.AtVec(2),
		C:  params.AtVec(3),
		D:  params.AtVec(4),
		TY: params.AtVec(5),
	}, nil
}

// MeanError returns the mean residual distance of the pairs under transform.
func MeanError(srcPoints, dstPoints []geometry.Point2D, transform geometry.AffineTransform) float64 {
	if len(srcPoints) != len(dstPoints) || len(srcPoints) == 0 {
		return math.Inf(1)
	}
	var total float64
	for i := range srcPoints {
		total += transform.Apply(srcPoints[i]).Distance(dstPoints[i])
	}
	return total / float64(len(srcPoints))
}
