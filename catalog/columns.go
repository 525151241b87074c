package catalog

import (
	"fmt"
	"strings"

	"github.com/soniakeys/unit"
)

// Columns names the catalog columns which hold each quantity. Either Weight
// or all four of the weight components must be set. The total weight built
// from components is SDC * FKP * (Noz + CP - 1).
type Columns struct {
	RA, Dec, Z string
	Weight     string

	WeightFKP, WeightNoz, WeightCP, WeightSDC string
}

// Names returns every non-empty column name.
func (c Columns) Names() []string {
	out := []string{}
	for _, name := range []string{
		c.RA, c.Dec, c.Z, c.Weight,
		c.WeightFKP, c.WeightNoz, c.WeightCP, c.WeightSDC,
	} {
		if name != "" { out = append(out, name) }
	}
	return out
}

func (c Columns) components() []string {
	return []string{c.WeightFKP, c.WeightNoz, c.WeightCP, c.WeightSDC}
}

// FromColumns builds points out of named columns. RA and Dec are in degrees.
// An error wrapping ErrData is returned if a required column is missing or
// the columns have different lengths.
func FromColumns(cols map[string][]float64, c Columns) ([]Point, error) {
	get := func(name, role string) ([]float64, error) {
		if name == "" {
			return nil, fmt.Errorf("%w: no column was named for %s.",
				ErrData, role)
		}
		col, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("%w: the %s column '%s' is missing.",
				ErrData, role, name)
		}
		return col, nil
	}

	ra, err := get(c.RA, "ra")
	if err != nil { return nil, err }
	dec, err := get(c.Dec, "dec")
	if err != nil { return nil, err }
	z, err := get(c.Z, "redshift")
	if err != nil { return nil, err }

	var w []float64
	if c.Weight != "" {
		if w, err = get(c.Weight, "weight"); err != nil { return nil, err }
	} else {
		if w, err = componentWeights(cols, c, get); err != nil {
			return nil, err
		}
	}

	n := len(ra)
	for _, col := range [][]float64{dec, z, w} {
		if len(col) != n {
			return nil, fmt.Errorf("%w: the catalog's columns have "+
				"different lengths.", ErrData)
		}
	}

	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{
			Dec: unit.AngleFromDeg(dec[i]).Rad(),
			RA:  unit.AngleFromDeg(ra[i]).Rad(),
			Z:   z[i], W: w[i],
		}
	}
	return pts, nil
}

func componentWeights(
	cols map[string][]float64, c Columns,
	get func(name, role string) ([]float64, error),
) ([]float64, error) {
	named := 0
	for _, name := range c.components() {
		if name != "" { named++ }
	}
	if named == 0 {
		return nil, fmt.Errorf("%w: neither a weight column nor the four "+
			"weight component columns were named.", ErrData)
	}

	fkp, err := get(c.WeightFKP, "fkp weight")
	if err != nil { return nil, err }
	noz, err := get(c.WeightNoz, "noz weight")
	if err != nil { return nil, err }
	cp, err := get(c.WeightCP, "cp weight")
	if err != nil { return nil, err }
	sdc, err := get(c.WeightSDC, "sdc weight")
	if err != nil { return nil, err }

	n := len(fkp)
	if len(noz) != n || len(cp) != n || len(sdc) != n {
		return nil, fmt.Errorf("%w: the weight columns %s have different "+
			"lengths.", ErrData, strings.Join(c.components(), ", "))
	}

	w := make([]float64, n)
	for i := range w {
		w[i] = sdc[i] * fkp[i] * (noz[i] + cp[i] - 1)
	}
	return w, nil
}
