package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/tpcf/bins"
	"github.com/phil-mansfield/tpcf/catalog"
	txt "github.com/phil-mansfield/tpcf/cmd/catalog"
	"github.com/phil-mansfield/tpcf/logging"
	"github.com/phil-mansfield/tpcf/store"
)

// DefaultBinWidthS is the separation bin width used by automatic binning, in
// Mpc.
const DefaultBinWidthS = 2.0

// PreprocessMode reads the catalogs named in a config file, bins the random
// catalogs into marginal distributions, and writes a preprocess snapshot.
type PreprocessMode struct {
	ConfigFile string
	Prefix     string

	ISlice, NSlice int
	Auto           bool
	BinWidthS      float64

	Logger *slog.Logger
}

func (m *PreprocessMode) validate() error {
	switch {
	case m.ConfigFile == "":
		return fmt.Errorf("No config file was given.")
	case m.Prefix == "":
		return fmt.Errorf("No output prefix was given.")
	case m.NSlice <= 0:
		return fmt.Errorf("nslice is %d, but it must be positive.", m.NSlice)
	case m.ISlice < 0 || m.ISlice >= m.NSlice:
		return fmt.Errorf("islice is %d, but it must be in [0, %d).",
			m.ISlice, m.NSlice)
	case m.Auto && m.BinWidthS <= 0:
		return fmt.Errorf("binw is %g, but it must be positive.", m.BinWidthS)
	}
	return nil
}

func (m *PreprocessMode) Run(ctx context.Context) error {
	if err := m.validate(); err != nil { return err }
	log := modeLogger(m.Logger, "preprocess")

	config := &Config{}
	if err := config.ReadConfig(m.ConfigFile); err != nil { return err }
	models, err := config.Models()
	if err != nil { return err }
	for i, model := range models {
		log.Info("Cosmology", "index", i, "model", model.String())
	}

	nb := config.NBins
	nb.Auto, nb.BinWidthS = m.Auto, m.BinWidthS
	sc, err := bins.New(config.Limits, nb, models, m.ISlice, m.NSlice)
	if err != nil { return err }
	log.Info("Binning", "auto", m.Auto, "slice", m.ISlice, "of", m.NSlice)
	for _, line := range sc.Info() { log.Info(line) }

	cats := []CatalogConfig{config.Galaxy1, config.Random1}
	if config.Cross() {
		cats = append(cats, config.Galaxy2, config.Random2)
	}
	data := make([]*catalog.DataCatalog, len(cats))
	bounds := catalog.SchemeBounds(sc)

	g, gctx := errgroup.WithContext(ctx)
	for i := range cats {
		g.Go(func() error {
			if err := gctx.Err(); err != nil { return err }
			cat, err := ReadCatalog(cats[i], bounds)
			if err != nil { return err }
			log.Info("Read catalog", "path", cats[i].Path,
				"points", cat.Count())
			data[i] = cat
			return nil
		})
	}
	if err = g.Wait(); err != nil { return err }

	p := &store.Preprocessed{
		Scheme: *sc, Models: models,
		Data1: data[0], Rand1: data[1].ToRandom(sc),
		Config: config.Text(),
	}
	if config.Cross() {
		p.Data2, p.Rand2 = data[2], data[3].ToRandom(sc)
	}
	log.Debug("Preprocessed", "memory", logging.MemString())

	if err = store.SavePreprocessed(m.Prefix, p); err != nil { return err }
	log.Info("Wrote snapshot", "file", store.PreprocessName(m.Prefix))
	return nil
}

// ReadCatalog reads the catalog described by c and keeps only the points
// inside b.
func ReadCatalog(
	c CatalogConfig, b catalog.Bounds,
) (*catalog.DataCatalog, error) {
	cols, err := txt.ReadNamed(c.Path, c.Columns.Names())
	if err != nil { return nil, err }
	pts, err := catalog.FromColumns(cols, c.Columns)
	if err != nil {
		return nil, fmt.Errorf("Could not read the catalog %s: %w",
			c.Path, err)
	}
	return catalog.NewData(pts, b), nil
}
