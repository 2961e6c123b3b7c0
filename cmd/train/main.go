package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"career-compass/internal/app"
	"career-compass/internal/config"
	"career-compass/internal/database/seeder"
	"career-compass/internal/model"
	"career-compass/internal/pipeline"

	"github.com/joho/godotenv"
)

type options struct {
	source       string
	csvPath      string
	seedStore    bool
	trees        int
	seed         int64
	testFraction float64
}

func parseOptions(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.source, "source", "store", "training data source: store or csv")
	fs.StringVar(&o.csvPath, "csv", "", "labeled skill/demand CSV (required with -source=csv)")
	fs.BoolVar(&o.seedStore, "seed-store", false, "create the store schema and load sample postings first")
	fs.IntVar(&o.trees, "trees", 200, "number of trees in the ensemble")
	fs.Int64Var(&o.seed, "seed", pipeline.DefaultSeed, "training random seed")
	fs.Float64Var(&o.testFraction, "test-fraction", pipeline.DefaultTestFraction, "held-out fraction")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

func main() {
	opts, err := parseOptions(flag.NewFlagSet(os.Args[0], flag.ExitOnError), os.Args[1:])
	if err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	trainer := &pipeline.Trainer{
		NumTrees:     opts.trees,
		Seed:         opts.seed,
		TestFraction: opts.testFraction,
		Artifacts:    model.NewStore(cfg.Model.Dir),
	}

	var examples []pipeline.Example
	switch opts.source {
	case "store":
		c, err := app.NewTrainingContainer(cfg)
		if err != nil {
			log.Fatalf("failed to open posting store: %v", err)
		}
		defer func() {
			_ = c.Close()
		}()

		if opts.seedStore {
			runner := seeder.Runner{Seeders: seeder.Defaults()}
			if err := runner.Run(ctx, c.DB); err != nil {
				log.Fatalf("failed to seed posting store: %v", err)
			}
		}

		examples, err = pipeline.LoadFromStore(ctx, c.Postings)
		if err != nil {
			log.Fatalf("failed to load training data: %v", err)
		}
		trainer.Stratify = true
	case "csv":
		if opts.csvPath == "" {
			log.Fatalf("provide -csv with -source=csv")
		}
		examples, err = pipeline.LoadSkillCSV(opts.csvPath)
		if err != nil {
			log.Fatalf("failed to load training data: %v", err)
		}
	default:
		log.Fatalf("unknown -source %q (want store or csv)", opts.source)
	}

	res, err := trainer.Train(ctx, examples)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}

	log.Printf("training complete version=%s labels=%d train=%d held_out=%d dir=%s",
		res.Version, res.Labels, res.TrainCount, res.HeldOutCount, cfg.Model.Dir)
}
