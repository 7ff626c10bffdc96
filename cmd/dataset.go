package cmd

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-matchup-chart/internal/model"
	"github.com/pable/go-matchup-chart/internal/ordering"
	"github.com/pable/go-matchup-chart/internal/results"
	"github.com/pable/go-matchup-chart/internal/storage"
)

// datasetFlags are shared by every command that loads a matchup table.
type datasetFlags struct {
	alt          bool
	gen          int
	tierFile     string
	tiers        []string
	order        string
	tspTimeLimit time.Duration
	tspSolutions int
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.BoolVar(&f.alt, "alt", false, "infile is an optimiser roster (opt<gen>.json); results come from --db")
	fl.IntVar(&f.gen, "gen", 1, "generation of the roster; selects the first species id")
	fl.StringVar(&f.tierFile, "tier-file", "", "text log whose headers supply tier labels")
	fl.StringSliceVar(&f.tiers, "tiers", nil, "only show species in these tiers (repeatable or comma-separated)")
	fl.StringVar(&f.order, "order", "", "ordering strategy: none, greedy or tsp")
	fl.DurationVar(&f.tspTimeLimit, "tsp-time-limit", 0, "tour search time limit, e.g. 30s")
	fl.IntVar(&f.tspSolutions, "tsp-solutions", 0, "tour search improving-solution limit")
}

// resolve fills values the user did not set from the loaded config.
func (f *datasetFlags) resolve(cmd *cobra.Command) (ordering.Strategy, ordering.Options, error) {
	fl := cmd.Flags()
	if !fl.Changed("gen") {
		f.gen = cfg.Gen
	}
	if !fl.Changed("order") {
		f.order = cfg.Order
	}
	strategy, err := ordering.ParseStrategy(f.order)
	if err != nil {
		return "", ordering.Options{}, err
	}

	opts := ordering.DefaultOptions()
	opts.TimeLimit = cfg.TSPTimeLimit
	opts.SolutionLimit = cfg.TSPSolutions
	if fl.Changed("tsp-time-limit") {
		if f.tspTimeLimit < 0 {
			return "", ordering.Options{}, fmt.Errorf("--tsp-time-limit must not be negative")
		}
		opts.TimeLimit = f.tspTimeLimit
	}
	if fl.Changed("tsp-solutions") {
		if f.tspSolutions < 0 {
			return "", ordering.Options{}, fmt.Errorf("--tsp-solutions must not be negative")
		}
		opts.SolutionLimit = f.tspSolutions
	}
	return strategy, opts, nil
}

// loadDataset reads the matchup table from a text log or, with --alt, from
// a roster plus the results store.
func (f *datasetFlags) loadDataset(infile string) (*model.Dataset, error) {
	var ds *model.Dataset
	if f.alt {
		roster, err := results.LoadRoster(infile, f.gen)
		if err != nil {
			return nil, err
		}
		db, err := storage.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()

		ds, err = results.BuildFromSource(roster, db)
		if err != nil {
			return nil, fmt.Errorf("build matrix: %w", err)
		}
	} else {
		var err error
		ds, err = results.LoadLog(infile)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", infile, err)
		}
	}

	if f.tierFile != "" {
		tiers, err := results.Tiers(f.tierFile)
		if err != nil {
			return nil, fmt.Errorf("tier file: %w", err)
		}
		results.ApplyTiers(ds, tiers)
	}

	log.Info().
		Str("source", infile).
		Bool("alt", f.alt).
		Int("species", ds.Len()).
		Int("known", ds.Matrix.KnownCount()).
		Msg("loaded dataset")
	return ds, nil
}

// orderDataset computes the ordering and applies the tier filter.
func (f *datasetFlags) orderDataset(cmd *cobra.Command, ds *model.Dataset) ([]int, error) {
	strategy, opts, err := f.resolve(cmd)
	if err != nil {
		return nil, err
	}
	order, err := ordering.Compute(cmd.Context(), strategy, ds.Matrix, opts)
	if err != nil {
		return nil, fmt.Errorf("order: %w", err)
	}
	shown := ordering.FilterTiers(order, ds.Entities, f.tiers)
	log.Info().
		Str("strategy", string(strategy)).
		Int("shown", len(shown)).
		Int("species", len(order)).
		Msg("ordering computed")
	return shown, nil
}
