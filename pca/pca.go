// Package pca builds principal-component transforms for multivariate
// adjustment and resolves their sign-orientation ambiguity.
package pca

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	xstats "github.com/j-haacker/xsdba/stats"
)

// PCMatrix constructs the principal-component transform of a data
// matrix: the eigenvectors of the covariance matrix, each scaled by the
// square root of its eigenvalue. data is MxN, the M coordinates of N
// points. NaNs are not handled here; a single missing observation
// poisons every entry involving that variable.
func PCMatrix(data *mat.Dense) (*mat.Dense, error) {
	m, n := data.Dims()
	if n < 2 {
		return nil, errors.New("need at least two observations to estimate a covariance")
	}
	var cov mat.SymDense
	// gonum expects observations in rows, variables in columns.
	stat.CovarianceMatrix(&cov, data.T(), nil)

	// The SVD of a symmetric positive semi-definite matrix is its
	// eigendecomposition.
	var svd mat.SVD
	if ok := svd.Factorize(&cov, mat.SVDFull); !ok {
		return nil, errors.New("SVD of the covariance matrix failed")
	}
	var u mat.Dense
	svd.UTo(&u)
	vals := svd.Values(nil)

	out := mat.NewDense(m, m, nil)
	for j := 0; j < m; j++ {
		s := math.Sqrt(vals[j])
		for i := 0; i < m; i++ {
			out.Set(i, j, u.At(i, j)*s)
		}
	}
	return out, nil
}

// orientedProduct returns (s∘R)·Hinv, where s scales the columns of R.
func orientedProduct(signs []float64, r, hinv *mat.Dense) *mat.Dense {
	m := len(signs)
	sr := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			sr.Set(i, j, signs[j]*r.At(i, j))
		}
	}
	var out mat.Dense
	out.Mul(sr, hinv)
	return &out
}

// signVector decodes candidate k into a vector of ±1 entries. Candidate
// zero is all +1, so ties in the orientation search resolve to the
// unflipped transform.
func signVector(k, m int) []float64 {
	signs := make([]float64, m)
	for i := 0; i < m; i++ {
		if k&(1<<i) == 0 {
			signs[i] = 1
		} else {
			signs[i] = -1
		}
	}
	return signs
}

// BestOrientationSimple resolves the sign ambiguity of an
// eigendecomposition-derived transform by reprojecting a synthetic far
// point P = diag(val, ..., val) through every candidate orientation and
// keeping the one minimizing the distance ‖P − (s∘R)·H⁻¹·P‖. val should
// be much larger than the data's range.
//
// The search enumerates all 2^M sign vectors, which is only viable for
// the small M (variables or sites) typical of multivariate adjustment.
func BestOrientationSimple(r, hinv *mat.Dense, val float64) ([]float64, error) {
	m, c := r.Dims()
	if m != c {
		return nil, fmt.Errorf("R must be square, got %dx%d", m, c)
	}
	if hm, hc := hinv.Dims(); hm != m || hc != m {
		return nil, fmt.Errorf("Hinv must match R, got %dx%d", hm, hc)
	}
	p := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		p.Set(i, i, val)
	}
	var best []float64
	bestErr := math.Inf(1)
	for k := 0; k < 1<<m; k++ {
		signs := signVector(k, m)
		var proj, diff mat.Dense
		proj.Mul(orientedProduct(signs, r, hinv), p)
		diff.Sub(p, &proj)
		if d := mat.Norm(&diff, 2); d < bestErr {
			bestErr = d
			best = signs
		}
	}
	return best, nil
}

// BestOrientationFull resolves the sign ambiguity using the training
// data itself: for every candidate orientation the historical series is
// reprojected into the implied scenario, and the orientation maximizing
// the mean per-variable Spearman correlation between the historical and
// reconstructed series wins. rmean and hmean are the target and source
// distribution centers; hist is the MxN training matrix.
func BestOrientationFull(r, hinv *mat.Dense, rmean, hmean []float64, hist *mat.Dense) ([]float64, error) {
	m, c := r.Dims()
	if m != c {
		return nil, fmt.Errorf("R must be square, got %dx%d", m, c)
	}
	hm, n := hist.Dims()
	if hm != m || len(rmean) != m || len(hmean) != m {
		return nil, errors.New("hist, rmean and hmean must match the dimension of R")
	}

	centered := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			centered.Set(i, j, hist.At(i, j)-hmean[i])
		}
	}

	var best []float64
	bestCorr := math.Inf(-1)
	for k := 0; k < 1<<m; k++ {
		signs := signVector(k, m)
		var scen mat.Dense
		scen.Mul(orientedProduct(signs, r, hinv), centered)
		corr := 0.0
		for i := 0; i < m; i++ {
			row := make([]float64, n)
			for j := 0; j < n; j++ {
				row[j] = rmean[i] + scen.At(i, j)
			}
			corr += xstats.Spearman(mat.Row(nil, i, hist), row)
		}
		corr /= float64(m)
		if corr > bestCorr {
			bestCorr = corr
			best = signs
		}
	}
	return best, nil
}

// RandRotationMatrix draws a uniformly distributed orthogonal matrix.
// The QR decomposition of a standard normal matrix is corrected by the
// signs of R's diagonal, following Mezzadri (2007).
func RandRotationMatrix(n int) (*mat.Dense, error) {
	if n < 1 {
		return nil, errors.New("matrix size must be positive")
	}
	z := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			z.Set(i, j, distuv.UnitNormal.Rand())
		}
	}
	var qr mat.QR
	qr.Factorize(z)
	var q, r mat.Dense
	qr.QTo(&q)
	qr.RTo(&r)

	out := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		sign := 1.0
		if r.At(j, j) < 0 {
			sign = -1
		}
		for i := 0; i < n; i++ {
			out.Set(i, j, q.At(i, j)*sign)
		}
	}
	return out, nil
}
