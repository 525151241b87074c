package cmd

import (
	"fmt"
	"os"

	"github.com/phil-mansfield/tpcf/bins"
	"github.com/phil-mansfield/tpcf/catalog"
	"github.com/phil-mansfield/tpcf/cosmo"
	"github.com/phil-mansfield/tpcf/parse"
)

// CatalogConfig is the location of a catalog and the names of its columns.
type CatalogConfig struct {
	Path    string
	Columns catalog.Columns
}

// Config is the contents of the config file read by the preprocess mode.
type Config struct {
	Galaxy1, Galaxy2 CatalogConfig
	Random1, Random2 CatalogConfig

	Limits bins.Limits
	NBins  bins.NBins

	Hubble0, OmegaM0, OmegaDE0 []float64

	cross bool
	text  string
}

func catalogVars(name string, c *CatalogConfig) *parse.ConfigVars {
	vars := parse.NewConfigVars(name)
	vars.String(&c.Path, "Path", "")
	vars.String(&c.Columns.RA, "RA", "ra")
	vars.String(&c.Columns.Dec, "Dec", "dec")
	vars.String(&c.Columns.Z, "Z", "z")
	vars.String(&c.Columns.Weight, "Weight", "")
	vars.String(&c.Columns.WeightFKP, "WeightFKP", "")
	vars.String(&c.Columns.WeightNoz, "WeightNoz", "")
	vars.String(&c.Columns.WeightCP, "WeightCP", "")
	vars.String(&c.Columns.WeightSDC, "WeightSDC", "")
	return vars
}

// ReadConfig reads a config file into config and checks its contents.
func (config *Config) ReadConfig(fname string) error {
	bs, err := os.ReadFile(fname)
	if err != nil { return err }
	return config.parse(string(bs), fname)
}

func (config *Config) parse(text, fname string) error {
	galaxy1 := catalogVars("Galaxy_1", &config.Galaxy1)
	galaxy2 := catalogVars("Galaxy_2", &config.Galaxy2).Optional()
	random1 := catalogVars("Random_1", &config.Random1)
	random2 := catalogVars("Random_2", &config.Random2).Optional()

	lim := &config.Limits
	limit := parse.NewConfigVars("Limit")
	limit.String(&lim.Unit, "Unit", "deg")
	limit.Float(&lim.RAMin, "RAMin", 0)
	limit.Float(&lim.RAMax, "RAMax", 0)
	limit.Float(&lim.DecMin, "DecMin", 0)
	limit.Float(&lim.DecMax, "DecMax", 0)
	limit.Float(&lim.ZMin, "ZMin", 0)
	limit.Float(&lim.ZMax, "ZMax", 0)
	limit.Float(&lim.SMax, "SMax", 0)

	var s, theta, z, ra, dec int64
	nbins := parse.NewConfigVars("NBins")
	nbins.Int(&s, "S", 0)
	nbins.Int(&theta, "Theta", 0)
	nbins.Int(&z, "Z", 0)
	nbins.Int(&ra, "RA", 0)
	nbins.Int(&dec, "Dec", 0)

	cosmology := parse.NewConfigVars("Cosmology")
	cosmology.Floats(&config.Hubble0, "Hubble0", nil)
	cosmology.Floats(&config.OmegaM0, "OmegaM0", nil)
	cosmology.Floats(&config.OmegaDE0, "OmegaDE0", nil)

	err := parse.ParseSections(text, fname, galaxy1, galaxy2,
		random1, random2, limit, nbins, cosmology)
	if err != nil { return err }

	config.NBins = bins.NBins{
		S: int(s), Theta: int(theta), Z: int(z), RA: int(ra), Dec: int(dec),
	}
	config.text = text

	if galaxy2.Found() != random2.Found() {
		return fmt.Errorf("The config file %s has only one of the "+
			"[galaxy_2] and [random_2] sections. A cross-correlation needs "+
			"both.", fname)
	}
	config.cross = galaxy2.Found()

	return config.validate()
}

// validate checks that all the user-set fields of Config are set
// properly. Bin counts and limits are checked when the binning scheme is
// built.
func (config *Config) validate() error {
	cats := []struct {
		name string
		c    *CatalogConfig
	}{
		{"galaxy_1", &config.Galaxy1}, {"random_1", &config.Random1},
		{"galaxy_2", &config.Galaxy2}, {"random_2", &config.Random2},
	}
	if !config.cross { cats = cats[:2] }

	for _, cat := range cats {
		if cat.c.Path == "" {
			return fmt.Errorf("The 'Path' variable in [%s] isn't set.",
				cat.name)
		}
	}

	switch config.Limits.Unit {
	case "deg", "rad":
	default:
		return fmt.Errorf("The 'Unit' variable in [limit] is set to '%s', "+
			"which I don't recognize.", config.Limits.Unit)
	}

	n := len(config.Hubble0)
	switch {
	case n == 0:
		return fmt.Errorf("The 'Hubble0' variable in [cosmology] isn't set.")
	case len(config.OmegaM0) != n || len(config.OmegaDE0) != n:
		return fmt.Errorf("'Hubble0', 'OmegaM0', and 'OmegaDE0' have "+
			"lengths %d, %d, and %d, but they must be the same.",
			n, len(config.OmegaM0), len(config.OmegaDE0))
	}

	_, err := config.Models()
	return err
}

// Cross returns true if the config file describes two catalog pairs.
func (config *Config) Cross() bool { return config.cross }

// Text returns the text of the config file that was read.
func (config *Config) Text() string { return config.text }

// Models returns the cosmology models listed in the [cosmology] section.
func (config *Config) Models() ([]cosmo.Model, error) {
	out := make([]cosmo.Model, len(config.Hubble0))
	for i := range out {
		m, err := cosmo.New(config.Hubble0[i], config.OmegaM0[i],
			config.OmegaDE0[i])
		if err != nil {
			return nil, fmt.Errorf("Cosmology model %d: %w", i, err)
		}
		out[i] = m
	}
	return out, nil
}

// ExampleConfig returns an example configuration file.
func (config *Config) ExampleConfig() string {
	return `# Catalogs are whitespace-separated text tables. The first comment line
# names the columns, e.g. "# ra dec z weight". Column variables may also be
# zero-indexed column numbers. RA and Dec are in degrees.
[Galaxy_1]
Path = path/to/galaxies.txt
RA = ra
Dec = dec
Z = z
# Either Weight is set, or all four of WeightFKP, WeightNoz, WeightCP, and
# WeightSDC are. In the second case the weight is SDC*FKP*(Noz + CP - 1).
Weight = weight
# WeightFKP = weight_fkp
# WeightNoz = weight_noz
# WeightCP = weight_cp
# WeightSDC = weight_sdc

[Random_1]
Path = path/to/randoms.txt
RA = ra
Dec = dec
Z = z
Weight = weight

# Adding [Galaxy_2] and [Random_2] sections with the same variables as above
# measures the cross-correlation between the two catalog pairs.

[Limit]
# Unit of RA and Dec limits: deg or rad.
Unit = deg
RAMin = 110
RAMax = 260
DecMin = -4
DecMax = 60
ZMin = 0.43
ZMax = 0.7
# Maximum comoving separation in Mpc.
SMax = 200

[NBins]
# If preprocess is run with --auto, only S is used.
S = 50
Theta = 100
Z = 100
RA = 50
Dec = 50

[Cosmology]
# One model per list entry. Only flat models are supported.
Hubble0 = 70, 67.7
OmegaM0 = 0.31, 0.31
OmegaDE0 = 0.69, 0.69`
}
