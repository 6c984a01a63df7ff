package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"gocausal/adapters/excel"
	"gocausal/adapters/postgres"
	"gocausal/domain/run"
	"gocausal/fask"
	"gocausal/report"
	"gocausal/skeleton"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	var (
		input       = flag.String("input", "", "observation matrix file (.csv or .xlsx), header row of variable names")
		alpha       = flag.Float64("two-cycle-alpha", fask.DefaultConfig().TwoCycleAlpha, "significance level of the two-cycle test")
		screenAlpha = flag.Float64("screen-alpha", 0.01, "significance level of the adjacency screen")
		depth       = flag.Int("depth", fask.DefaultConfig().Depth, "max conditioning subset size in the two-cycle test")
		maxIter     = flag.Int("max-iterations", fask.DefaultConfig().MaxIterations, "orientation fixpoint bound")
		verbose     = flag.Bool("verbose", false, "log per-variable skew diagnostics and orientation progress")
		format      = flag.String("format", "markdown", "output format: markdown, html, or json")
		save        = flag.Bool("save", false, "persist the run to DATABASE_URL")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := fask.DefaultConfig()
	cfg.TwoCycleAlpha = *alpha
	cfg.Depth = *depth
	cfg.MaxIterations = *maxIter
	cfg.Verbose = *verbose

	if err := runSearch(*input, cfg, *screenAlpha, *format, *save); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSearch(input string, cfg fask.Config, screenAlpha float64, format string, save bool) error {
	sample, err := excel.NewDataReader().Read(input)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", input, err)
	}

	search, err := fask.New(sample, cfg, fask.WithSkeletonBuilder(&skeleton.FisherZ{Alpha: screenAlpha}))
	if err != nil {
		return err
	}

	ctx := context.Background()
	res, err := search.Run(ctx)
	if err != nil {
		return err
	}
	rec := res.Record()

	if save {
		if err := persist(ctx, rec); err != nil {
			return err
		}
		log.Printf("Saved run %s", rec.ID)
	}

	switch format {
	case "markdown":
		os.Stdout.Write(report.Markdown(rec))
	case "html":
		os.Stdout.Write(report.HTML(report.Markdown(rec)))
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}

func persist(ctx context.Context, rec *run.Record) error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return fmt.Errorf("-save requires DATABASE_URL")
	}
	db, err := postgres.Connect(dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}
	return postgres.NewRunRepository(db).Save(ctx, rec)
}
