/*package cosmo contains the cosmological background used to map redshifts to
comoving distances. Only flat models are supported.*/
package cosmo

import (
	"errors"
	"fmt"
	"math"
)

const (
	// SpeedOfLight is c in km/s, so c/H0 is in Mpc.
	SpeedOfLight = 299792.458
	// FlatTolerance is the largest |OmegaM + OmegaL - 1| accepted by New.
	FlatTolerance = 1e-3
)

// ErrConfig is wrapped by every error caused by an invalid parameter triple.
var ErrConfig = errors.New("invalid cosmology")

// Model is a flat cosmology. Models are values and are never modified after
// construction.
type Model struct {
	H0, OmegaM, OmegaL float64
}

// New returns the Model with the given parameters or a configuration error
// if they don't describe a flat universe with a positive expansion rate.
func New(h0, omegaM, omegaL float64) (Model, error) {
	switch {
	case !(h0 > 0) || math.IsInf(h0, 0):
		return Model{}, fmt.Errorf("%w: Hubble0 = %g, but it must be "+
			"positive.", ErrConfig, h0)
	case !(omegaM >= 0) || !(omegaL >= 0):
		return Model{}, fmt.Errorf("%w: OmegaM0 = %g and OmegaDE0 = %g, but "+
			"neither can be negative.", ErrConfig, omegaM, omegaL)
	case math.Abs(omegaM+omegaL-1) > FlatTolerance:
		return Model{}, fmt.Errorf("%w: OmegaM0 + OmegaDE0 = %g, but only "+
			"flat models are supported.", ErrConfig, omegaM+omegaL)
	}
	return Model{H0: h0, OmegaM: omegaM, OmegaL: omegaL}, nil
}

// HubbleFrac calculates h(z) = H(z)/H0. Here H(z) is from Hubble's Law,
// H(z)**2 + k (c/a)**2 = H0**2 h100**2 (OmegaR a**-4 + OmegaM a**-3 + OmegaL).
// Assumes k, r = 0.
func HubbleFrac(omegaM, omegaL, z float64) float64 {
	return math.Sqrt(omegaM*math.Pow(1.0+z, 3.0) + omegaL)
}

// E returns H(z)/H0 for the model.
func (m Model) E(z float64) float64 {
	return HubbleFrac(m.OmegaM, m.OmegaL, z)
}

// HubbleDistance returns c/H0 in Mpc.
func (m Model) HubbleDistance() float64 {
	return SpeedOfLight / m.H0
}

func (m Model) String() string {
	return fmt.Sprintf("H0=%.4g OmegaM=%.4g OmegaL=%.4g",
		m.H0, m.OmegaM, m.OmegaL)
}

// Nearest returns the model which places z closest to the observer. Smaller
// distances mean larger angles for a fixed separation, so this is the model
// which needs the widest angular and redshift ranges.
func Nearest(models []Model, z float64) Model {
	if len(models) == 0 {
		panic("Nearest() given no models.")
	}
	best, bestR := models[0], models[0].ZToDistance(z)
	for _, m := range models[1:] {
		if r := m.ZToDistance(z); r < bestR {
			best, bestR = m, r
		}
	}
	return best
}

// Farthest returns the model which places z farthest from the observer.
func Farthest(models []Model, z float64) Model {
	if len(models) == 0 {
		panic("Farthest() given no models.")
	}
	best, bestR := models[0], models[0].ZToDistance(z)
	for _, m := range models[1:] {
		if r := m.ZToDistance(z); r > bestR {
			best, bestR = m, r
		}
	}
	return best
}
