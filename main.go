package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/kazilabs/mpesa-statement-converter/internal/api"
	"github.com/kazilabs/mpesa-statement-converter/internal/logger"
	"github.com/kazilabs/mpesa-statement-converter/internal/parser"
	"github.com/kazilabs/mpesa-statement-converter/internal/pipeline"
	"github.com/kazilabs/mpesa-statement-converter/internal/store"
	"github.com/kazilabs/mpesa-statement-converter/internal/writer"
)

const version = "1.0.0"

// Result-store bounds for serve mode. Results are delivery handles, not
// persistence, so both can stay small.
const (
	resultTTL        = 15 * time.Minute
	resultMaxEntries = 100
)

func main() {
	emissionFlag := flag.String("emission", "split", "Line emission mode: split (one line per direction) or netted (one line per transaction)")
	dateOrderFlag := flag.String("date-order", "day-first", "Ambiguous date reading: day-first or month-first")
	dateRangeFlag := flag.String("date-range", "metadata", "Header date range source: metadata (From/To labels) or derived (min/max booking dates)")
	unparsedFlag := flag.String("unparsed-date", "raw", "Unparseable booking dates: raw (pass text through) or blank")
	swapFlag := flag.Bool("swap-day-month", false, "Swap day and month in rendered dates (only for downstreams that require it)")
	monthCheckFlag := flag.Bool("check-month", false, "Warn when booking dates fall outside the current month")
	strictMonthFlag := flag.Bool("strict-month", false, "With -check-month, also compare the year")
	outputDirFlag := flag.String("output-dir", "", "Directory for output workbooks (defaults next to each input)")
	serveFlag := flag.Bool("serve", false, "Run the HTTP upload service instead of converting files")
	portFlag := flag.Int("port", 3000, "HTTP port for -serve")
	staticDirFlag := flag.String("static-dir", "", "Directory of static files to serve at / (upload page)")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `M-Pesa Statement to D365FO Converter

Transforms M-Pesa statement workbooks into the Bank_statement_header and
Bank_statement_lines XLSX files the Dynamics 365 F&O bank-reconciliation
import consumes.

Usage:
  mpesa-statement-converter [flags] <statement.xlsx> [statement2.xlsx ...]
  mpesa-statement-converter -serve [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert one statement
  mpesa-statement-converter march.xlsx

  # Net same-row debit and credit into single lines
  mpesa-statement-converter -emission=netted march.xlsx

  # Derive the header date range from the transactions themselves
  mpesa-statement-converter -date-range=derived march.xlsx

  # Run as an upload service
  mpesa-statement-converter -serve -port=8080
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("mpesa-statement-converter v%s\n", version)
		os.Exit(0)
	}

	opts, err := buildOptions(*emissionFlag, *dateOrderFlag, *dateRangeFlag, *unparsedFlag, *swapFlag, *monthCheckFlag, *strictMonthFlag)
	if err != nil {
		fatalf("%v\n", err)
	}

	log := logger.New()

	if *serveFlag {
		serve(opts, log, *portFlag, *staticDirFlag)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(inputPath, opts, log, *outputDirFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func buildOptions(emission, dateOrder, dateRange, unparsed string, swap, checkMonth, strictMonth bool) (pipeline.Options, error) {
	var opts pipeline.Options
	var err error

	if opts.LineEmission, err = pipeline.ParseLineEmission(emission); err != nil {
		return opts, err
	}
	if opts.DateOrder, err = pipeline.ParseDateOrder(dateOrder); err != nil {
		return opts, err
	}
	if opts.DateRangeSource, err = pipeline.ParseDateRangeSource(dateRange); err != nil {
		return opts, err
	}
	if opts.UnparsedDates, err = pipeline.ParseUnparsedDatePolicy(unparsed); err != nil {
		return opts, err
	}
	opts.SwapDayMonthOutput = swap
	opts.ValidateCurrentMonth = checkMonth
	opts.StrictMonthValidation = strictMonth
	return opts, nil
}

func processFile(inputPath string, opts pipeline.Options, log zerolog.Logger, outputDir string) error {
	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".xlsx" && ext != ".xlsm" {
		return fmt.Errorf("expected .xlsx workbook, got %q", ext)
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	defer f.Close()

	fmt.Printf("Processing: %s\n", inputPath)

	rows, err := parser.ReadRows(f)
	if err != nil {
		return fmt.Errorf("workbook read failed: %w", err)
	}

	result := pipeline.New(opts, log).Run(rows)

	fmt.Printf("  Emitted %d line(s)\n", len(result.Lines))
	if len(result.Lines) == 0 {
		fmt.Println("  Warning: no transactions found past the header rows.")
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	headerPath := filepath.Join(dir, base+"-Header.xlsx")
	linesPath := filepath.Join(dir, base+"-Lines.xlsx")

	if err := writer.WriteHeaderFile(headerPath, result.Header); err != nil {
		return fmt.Errorf("header workbook write failed: %w", err)
	}
	if err := writer.WriteLinesFile(linesPath, result.Lines); err != nil {
		return fmt.Errorf("lines workbook write failed: %w", err)
	}

	fmt.Printf("  Header: %s\n", headerPath)
	fmt.Printf("  Lines:  %s\n", linesPath)
	if result.Header.FromDate != "" || result.Header.ToDate != "" {
		fmt.Printf("  Period: %s to %s\n", result.Header.FromDate, result.Header.ToDate)
	}
	fmt.Printf("  Ending balance: %s %s\n", result.Header.Currency, result.Header.EndingBalance.StringFixed(3))
	fmt.Println("  Done.")
	return nil
}

func serve(opts pipeline.Options, log zerolog.Logger, port int, staticDir string) {
	app := fiber.New(fiber.Config{
		BodyLimit: 32 << 20, // statement uploads are small; cap at 32MB
	})
	app.Use(recover.New())

	handler := &api.Handler{
		Defaults: opts,
		Store:    store.New(resultTTL, resultMaxEntries),
		Log:      log,
		Version:  version,
	}
	handler.Register(app)

	if staticDir != "" {
		app.Static("/", staticDir)
	}

	addr := fmt.Sprintf(":%d", port)
	log.Info().Str("addr", addr).Msg("listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
