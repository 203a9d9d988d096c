package dataset

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/icugreen/icucarbon/internal/logging"
)

// Conventional file names under the data directory.
const (
	AssumptionsFile   = "assumptions.json"
	InterventionsFile = "interventions.json"
	ZipFile           = "zip_co2.csv"
	SubregionFile     = "subregion_emissions.csv"
)

// Dataset bundles everything the engine needs, loaded once at startup and
// immutable afterwards.
type Dataset struct {
	Assumptions    *Assumptions
	Catalog        *Catalog
	ZipTable       *RateTable
	SubregionTable *RateTable
}

// Load reads the four data artifacts from dir concurrently. Assumptions and
// the catalog are required; the two rate tables are optional and resolve to
// nil when their files are absent, which pushes the grid resolver onto its
// country-default tier.
func Load(ctx context.Context, dir string) (*Dataset, error) {
	logger := logging.ComponentLogger(logging.FromContext(ctx), "dataset")

	ds := &Dataset{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		a, err := LoadAssumptions(filepath.Join(dir, AssumptionsFile))
		if err != nil {
			return err
		}
		ds.Assumptions = a
		return nil
	})
	g.Go(func() error {
		c, err := LoadCatalog(filepath.Join(dir, InterventionsFile), logger)
		if err != nil {
			return err
		}
		ds.Catalog = c
		return nil
	})
	g.Go(func() error {
		t, err := LoadRateTable(filepath.Join(dir, ZipFile), ZipColumn)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("file", ZipFile).Msg("zip rate table missing, zip lookups disabled")
			return nil
		}
		if err != nil {
			return err
		}
		ds.ZipTable = t
		return nil
	})
	g.Go(func() error {
		t, err := LoadRateTable(filepath.Join(dir, SubregionFile), "subregion")
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("file", SubregionFile).Msg("subregion rate table missing, median fallback disabled")
			return nil
		}
		if err != nil {
			return err
		}
		ds.SubregionTable = t
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info().
		Int("interventions", len(ds.Catalog.Interventions)).
		Int("groups", len(ds.Catalog.Groups)).
		Int("skipped", ds.Catalog.Skipped).
		Bool("zip_table", ds.ZipTable != nil).
		Bool("subregion_table", ds.SubregionTable != nil).
		Msg("dataset loaded")
	return ds, nil
}
