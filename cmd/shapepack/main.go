// Command shapepack runs the genetic bin-packing optimizer over an item
// catalog and writes the packing plan in the requested formats.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/piwi3910/shapepack/internal/catalog"
	"github.com/piwi3910/shapepack/internal/config"
	"github.com/piwi3910/shapepack/internal/engine"
	"github.com/piwi3910/shapepack/internal/logging"
	"github.com/piwi3910/shapepack/internal/model"
	"github.com/piwi3910/shapepack/internal/report"
)

var (
	app = kingpin.New("shapepack", "Genetic 2D bin-packing optimizer.")

	configFile = app.Flag("config", "YAML configuration file.").Short('c').String()
	inputFile  = app.Flag("input", "Catalog JSON file with items and bins.").Short('i').String()
	itemsFile  = app.Flag("items", "Import items from a CSV or Excel sheet.").String()
	binSpec    = app.Flag("bin", "Container as WIDTHxHEIGHT, repeatable. Used with --items.").Strings()

	randomItems = app.Flag("random", "Generate a random catalog with this many items.").Int()
	randomBins  = app.Flag("random-bins", "Container count for the random catalog.").Default("4").Int()

	population  = app.Flag("population", "Population size.").Short('p').Int()
	generations = app.Flag("generations", "Maximum generations.").Short('g').Int()
	seedSet     bool
	seed        = app.Flag("seed", "Random seed for a reproducible run.").IsSetByUser(&seedSet).Int64()
	workers     = app.Flag("workers", "Fitness evaluation workers, 0 means all CPUs.").Int()

	jsonOut   = app.Flag("out", "Write the packing report as JSON.").Short('o').String()
	pdfOut    = app.Flag("pdf", "Write a PDF layout of the packed bins.").String()
	labelsOut = app.Flag("labels", "Write a PDF sheet of QR item labels.").String()
	dxfOut    = app.Flag("dxf", "Write the bin layouts as DXF.").String()
	xlsxOut   = app.Flag("xlsx", "Write the packing plan as an Excel workbook.").String()

	headless = app.Flag("headless", "No progress output, print the report as JSON.").Bool()
	debug    = app.Flag("debug", "Verbose console logging.").Bool()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	overrides := &config.CLIOverrides{ConfigFile: *configFile}
	if *population > 0 {
		overrides.Population = population
	}
	if seedSet {
		overrides.Seed = seed
	}
	if *workers > 0 {
		overrides.Workers = workers
	}
	cfg, err := config.Load(overrides)
	if err != nil {
		return err
	}
	if *generations > 0 {
		cfg.MaxGenerations = *generations
	}

	src := catalogSource{
		inputPath:   *inputFile,
		itemsPath:   *itemsFile,
		binSpecs:    *binSpec,
		randomItems: *randomItems,
		randomBins:  *randomBins,
	}
	cat, err := loadCatalog(src, cfg.Seed, logger)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded",
		zap.Int("items", len(cat.Items)),
		zap.Int("bins", len(cat.Containers)),
		zap.Float64("total_value", cat.TotalValue()))

	params := paramsFromConfig(cfg)
	opts := []engine.Option{}
	if !*headless {
		opts = append(opts, engine.WithObserver(engine.NewProgressLogger(logger, cfg.ProgressLogsPerSecond)))
	}

	eng, err := engine.New(cat.Items, cat.Containers, params, logger, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A cancelled run still carries the best result found so far; only
	// other failures abort without a report.
	result, runErr := eng.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	rep := report.Build(result.Best, result.BestFitness, result.RunID, result.Generations)
	out := outputs{
		jsonPath:   *jsonOut,
		pdfPath:    *pdfOut,
		labelsPath: *labelsOut,
		dxfPath:    *dxfOut,
		xlsxPath:   *xlsxOut,
		headless:   *headless,
	}
	if err := writeOutputs(os.Stdout, out, result, rep); err != nil {
		return err
	}

	if errors.Is(runErr, context.Canceled) {
		logger.Warn("run interrupted, reported best found so far",
			zap.String("run_id", result.RunID),
			zap.Int("generations", result.Generations))
		return nil
	}
	logger.Info("run finished",
		zap.String("run_id", result.RunID),
		zap.Int("generations", result.Generations),
		zap.Float64("fitness", result.BestFitness),
		zap.Int("packed", result.Best.PlacedCount()),
		zap.Int("unplaced", len(result.Best.UnplacedItems)))
	return nil
}

// catalogSource selects where the run's catalog comes from: a JSON input
// file, an imported item sheet with CLI bins, a generated random catalog,
// or the built-in demo.
type catalogSource struct {
	inputPath   string
	itemsPath   string
	binSpecs    []string
	randomItems int
	randomBins  int
}

func loadCatalog(src catalogSource, seed int64, logger *zap.Logger) (catalog.Catalog, error) {
	switch {
	case src.inputPath != "":
		cat, err := catalog.LoadJSON(src.inputPath)
		if err != nil {
			return catalog.Catalog{}, err
		}
		return cat, catalog.Validate(cat)

	case src.itemsPath != "":
		var res catalog.ImportResult
		if ext := strings.ToLower(filepath.Ext(src.itemsPath)); ext == ".xlsx" || ext == ".xlsm" {
			res = catalog.ImportExcel(src.itemsPath)
		} else {
			res = catalog.ImportCSV(src.itemsPath)
		}
		for _, w := range res.Warnings {
			logger.Warn("import", zap.String("detail", w))
		}
		if len(res.Errors) > 0 {
			return catalog.Catalog{}, fmt.Errorf("item import failed: %s", strings.Join(res.Errors, "; "))
		}
		bins, err := parseBins(src.binSpecs)
		if err != nil {
			return catalog.Catalog{}, err
		}
		cat := catalog.Catalog{Items: res.Items, Containers: bins}
		return cat, catalog.Validate(cat)

	case src.randomItems > 0:
		logger.Info("generating random catalog",
			zap.Int("items", src.randomItems),
			zap.Int("bins", src.randomBins),
			zap.Int64("seed", seed))
		cat := catalog.Random(src.randomItems, src.randomBins, seed)
		return cat, catalog.Validate(cat)

	default:
		logger.Info("no input given, using the built-in demo catalog")
		return catalog.Demo(), nil
	}
}

// parseBins turns repeated --bin WIDTHxHEIGHT flags into containers.
func parseBins(specs []string) ([]model.Container, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("--items requires at least one --bin WIDTHxHEIGHT")
	}
	bins := make([]model.Container, 0, len(specs))
	for i, s := range specs {
		var w, h float64
		if _, err := fmt.Sscanf(strings.ToLower(s), "%fx%f", &w, &h); err != nil {
			return nil, fmt.Errorf("invalid --bin %q, expected WIDTHxHEIGHT", s)
		}
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("invalid --bin %q, dimensions must be positive", s)
		}
		bins = append(bins, model.Container{
			ID:   i + 1,
			Dims: model.Dimensions{Width: w, Height: h, Shape: model.Rectangle},
		})
	}
	return bins, nil
}

func paramsFromConfig(cfg config.Config) engine.Params {
	params := engine.DefaultParams()
	params.PopulationSize = cfg.PopulationSize
	params.MaxGenerations = cfg.MaxGenerations
	params.SteadyGenerations = cfg.SteadyGenerations
	params.TournamentSize = cfg.TournamentSize
	params.OffspringFraction = cfg.OffspringFraction
	params.UniformCrossoverProb = cfg.UniformCrossoverProb
	params.SinglePointCrossoverProb = cfg.SinglePointCrossoverProb
	params.MutationRate = cfg.MutationRate
	params.UtilizationWeight = cfg.UtilizationWeight
	params.Seed = cfg.Seed
	if cfg.Workers > 0 {
		params.Workers = cfg.Workers
	}
	return params
}

// outputs names the report and export destinations of one run.
type outputs struct {
	jsonPath   string
	pdfPath    string
	labelsPath string
	dxfPath    string
	xlsxPath   string
	headless   bool
}

// writeOutputs writes the report and any requested export files. Without
// --out the report goes to w: JSON in headless mode, text otherwise.
func writeOutputs(w io.Writer, out outputs, result engine.Result, rep report.Report) error {
	switch {
	case out.jsonPath != "":
		f, err := os.Create(out.jsonPath)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		if err := rep.WriteJSON(f); err != nil {
			return err
		}
	case out.headless:
		if err := rep.WriteJSON(w); err != nil {
			return err
		}
	default:
		if err := rep.WriteText(w); err != nil {
			return err
		}
	}
	if out.pdfPath != "" {
		if err := report.ExportPDF(out.pdfPath, result.Best, rep); err != nil {
			return err
		}
	}
	if out.labelsPath != "" {
		if err := report.ExportLabels(out.labelsPath, result.Best); err != nil {
			return err
		}
	}
	if out.dxfPath != "" {
		if err := report.ExportDXF(out.dxfPath, result.Best); err != nil {
			return err
		}
	}
	if out.xlsxPath != "" {
		if err := report.ExportExcel(out.xlsxPath, rep); err != nil {
			return err
		}
	}
	return nil
}
