package correlation

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/phil-mansfield/tpcf/bins"
	"github.com/phil-mansfield/tpcf/cosmo"
	"github.com/phil-mansfield/tpcf/logging"
	"github.com/phil-mansfield/tpcf/paircount"
)

// Stat is a normalized pair count along with its Poisson error.
type Stat struct {
	Counts
	OneDErr, TwoDErr paircount.Hist
}

// Result is the correlation function measured under a single model.
type Result struct {
	Model  cosmo.Model
	SEdges []float64

	DD, D1R2, D2R1, RR Stat

	// Xi = (DD - D1R2 - D2R1 + RR) / RR, binned in s.
	Xi, XiErr paircount.Hist
	// XiS2 is Xi multiplied by the square of each s bin center.
	XiS2, XiS2Err paircount.Hist
	// Xi2D is Xi binned in (sigma, pi).
	Xi2D, Xi2DErr paircount.Hist

	// Direct is only set for the first model, and only when DD was also
	// counted directly in comoving space.
	Direct   *Stat
	XiDirect paircount.Hist
}

// PoissonError returns the error on a raw two-channel count. The
// unweighted error is sqrt(N) and the weighted error is W / sqrt(N), or
// zero where N is zero.
func PoissonError(h paircount.Hist) paircount.Hist {
	err := paircount.NewHist(h.Len())
	for i, n := range h[paircount.Unweighted] {
		e := math.Sqrt(math.Max(n, 0))
		err[paircount.Unweighted][i] = e
		if e > 0 {
			err[paircount.Weighted][i] = h[paircount.Weighted][i] / e
		}
	}
	return err
}

// scale divides each channel by its normalization. A zero normalization
// zeroes the channel.
func scale(h paircount.Hist, norm [2]float64) paircount.Hist {
	out := h.Clone()
	for ch := 0; ch < 2; ch++ {
		for i := range out[ch] {
			if norm[ch] == 0 {
				out[ch][i] = 0
			} else {
				out[ch][i] /= norm[ch]
			}
		}
	}
	return out
}

// Normalize computes Poisson errors from raw counts and then divides both
// the counts and the errors by norm.
func Normalize(raw Counts, norm [2]float64) Stat {
	return Stat{
		Counts: Counts{
			OneD: scale(raw.OneD, norm), TwoD: scale(raw.TwoD, norm),
		},
		OneDErr: scale(PoissonError(raw.OneD), norm),
		TwoDErr: scale(PoissonError(raw.TwoD), norm),
	}
}

// Xi evaluates the estimator bin by bin. Bins where rr is zero are zero.
func Xi(dd, d1r2, d2r1, rr, ddErr paircount.Hist) (xi, xiErr paircount.Hist) {
	xi, xiErr = paircount.NewHist(rr.Len()), paircount.NewHist(rr.Len())
	for ch := 0; ch < 2; ch++ {
		for i, r := range rr[ch] {
			if r == 0 { continue }
			xi[ch][i] = (dd[ch][i] - d1r2[ch][i] - d2r1[ch][i] + r) / r
			xiErr[ch][i] = ddErr[ch][i] / r
		}
	}
	return xi, xiErr
}

// NewResult normalizes raw pair counts and computes the correlation
// function from them.
func NewResult(
	model cosmo.Model, sEdges []float64,
	dd, d1r2, d2r1, rr Counts, norms paircount.Norms,
) Result {
	res := Result{
		Model: model, SEdges: sEdges,
		DD:   Normalize(dd, norms.DD),
		D1R2: Normalize(d1r2, norms.D1R2),
		D2R1: Normalize(d2r1, norms.D2R1),
		RR:   Normalize(rr, norms.RR),
	}

	res.Xi, res.XiErr = Xi(res.DD.OneD, res.D1R2.OneD, res.D2R1.OneD,
		res.RR.OneD, res.DD.OneDErr)
	res.Xi2D, res.Xi2DErr = Xi(res.DD.TwoD, res.D1R2.TwoD, res.D2R1.TwoD,
		res.RR.TwoD, res.DD.TwoDErr)

	res.XiS2, res.XiS2Err = res.Xi.Clone(), res.XiErr.Clone()
	for i := 0; i+1 < len(sEdges) && i < res.Xi.Len(); i++ {
		s := (sEdges[i] + sEdges[i+1]) / 2
		for ch := 0; ch < 2; ch++ {
			res.XiS2[ch][i] *= s * s
			res.XiS2Err[ch][i] *= s * s
		}
	}

	return res
}

// Estimate reconstructs every pair count of a complete accumulator and
// returns one Result per model.
func Estimate(acc *paircount.Accumulator, logger *slog.Logger) ([]Result, error) {
	if !acc.Complete() {
		return nil, fmt.Errorf("The accumulator is missing jobs %v out of %d.",
			acc.Missing(), acc.JobTotal)
	}
	if len(acc.Models) == 0 {
		return nil, fmt.Errorf("The accumulator has no cosmology models.")
	}
	log := logging.Or(logger)

	rc := Reconstructor{Acc: acc, Logger: logger}
	log.Info("Reconstructing DD")
	dd := rc.DD()
	log.Info("Reconstructing DR")
	d1r2, d2r1 := rc.DR(D1R2), rc.DR(D2R1)
	log.Info("Reconstructing RR")
	rr := rc.RR()

	sEdges := acc.Scheme.Edges(bins.S)
	out := make([]Result, len(acc.Models))
	for i, m := range acc.Models {
		out[i] = NewResult(m, sEdges, dd[i], d1r2[i], d2r1[i], rr[i],
			acc.Norms)
	}

	if !acc.DirectDD.Empty() {
		direct := Normalize(Counts{OneD: acc.DirectDD}, acc.Norms.DD)
		out[0].Direct = &direct
		out[0].XiDirect, _ = Xi(direct.OneD, out[0].D1R2.OneD,
			out[0].D2R1.OneD, out[0].RR.OneD, direct.OneDErr)
	}

	return out, nil
}
