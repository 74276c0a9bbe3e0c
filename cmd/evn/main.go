// evn analyzes cell phone invoice data. It extracts connection data
// from a Klarmobil EVN (Einzelverbindungsnachweis) in PDF format, adds
// it to the given database and answers statistics and per-month queries
// over the registered billing periods.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"evn/internal/amqp"
	"evn/internal/cli"
	"evn/internal/config"
	"evn/internal/core"
	"evn/internal/render"
	"evn/internal/report"
	"evn/internal/services"
	"evn/internal/storage"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()

	var (
		invoiceFile string
		month       string
		allMonths   bool
		listMonths  bool
		showStats   bool
	)
	flag.StringVar(&invoiceFile, "a", "", "add invoice `FILE` to the database")
	flag.StringVar(&invoiceFile, "add-invoice", "", "add invoice `FILE` to the database")
	flag.StringVar(&month, "m", "", "display the data registered for the given `MONTH` (e.g. 2011-03)")
	flag.StringVar(&month, "get-month", "", "display the data registered for the given `MONTH` (e.g. 2011-03)")
	flag.BoolVar(&allMonths, "M", false, "display the data for all registered billing dates")
	flag.BoolVar(&allMonths, "get-all-months", false, "display the data for all registered billing dates")
	flag.BoolVar(&listMonths, "L", false, "list the dates of all registered months")
	flag.BoolVar(&listMonths, "list-months", false, "list the dates of all registered months")
	flag.BoolVar(&showStats, "S", false, "display statistics calculated over all registered connection data")
	flag.BoolVar(&showStats, "show-statistics", false, "display statistics calculated over all registered connection data")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] database_file\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "error: incorrect number of arguments")
		flag.Usage()
		os.Exit(2)
	}
	dbPath := flag.Arg(0)

	cfg := cli.LoadAndValidateConfig(logger)
	repo := cli.InitSQLite(logger, dbPath)
	defer repo.Close()

	ctx := context.Background()

	// actions are mutually exclusive; the first one given wins
	var err error
	switch {
	case invoiceFile != "":
		err = addInvoice(ctx, logger, cfg, repo, invoiceFile, dbPath)
	case month != "":
		err = getMonth(ctx, repo, month)
	case allMonths:
		err = getAllMonths(ctx, repo)
	case listMonths:
		err = listRegisteredMonths(ctx, repo)
	case showStats:
		err = showStatistics(ctx, repo)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func addInvoice(ctx context.Context, logger *slog.Logger, cfg *config.Config, repo *storage.SQLiteRepository, invoiceFile, dbPath string) error {
	var notifier services.Notifier
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, skipping notifications", "error", err)
		} else {
			defer client.Close()
			notifier = client
		}
	}

	svc := services.NewInvoiceService(render.NewPDFToText(cfg.PDFToTextCommand), repo, notifier)

	fmt.Printf("Adding invoice %q to data base %q, ignoring potential querying parameters...\n",
		invoiceFile, dbPath)

	period, warnings, err := svc.AddInvoice(ctx, invoiceFile)
	if err != nil {
		if errors.Is(err, storage.ErrPeriodExists) {
			return fmt.Errorf("could not add new connections to data base: %w", err)
		}
		return err
	}

	for _, w := range warnings {
		logger.Warn("Category yielded no matches", "kind", w.Kind)
	}

	fmt.Printf("The following data has been registered for billing date %s:\n", period.Date)
	report.WritePeriod(os.Stdout, period)
	return nil
}

func getMonth(ctx context.Context, repo *storage.SQLiteRepository, month string) error {
	year, monthNum, err := parseMonth(month)
	if err != nil {
		return err
	}

	fmt.Printf("Fetching data for %q...\n", month)
	period, err := repo.FindByMonth(ctx, year, monthNum)
	if err != nil {
		return fmt.Errorf("could not fetch data for month %q: %w", month, err)
	}
	report.WritePeriod(os.Stdout, period)
	return nil
}

func getAllMonths(ctx context.Context, repo *storage.SQLiteRepository) error {
	fmt.Println("Fetching data for all months...")
	periods, err := repo.ListAll(ctx)
	if err != nil {
		return err
	}
	report.WritePeriods(os.Stdout, periods)
	return nil
}

func listRegisteredMonths(ctx context.Context, repo *storage.SQLiteRepository) error {
	fmt.Println("Fetching data on registered months...")
	dates, err := repo.ListDates(ctx)
	if err != nil {
		return err
	}
	report.WriteDates(os.Stdout, dates)
	return nil
}

func showStatistics(ctx context.Context, repo *storage.SQLiteRepository) error {
	fmt.Println("Calculating statistics...")

	var stats []report.CategoryStatistics
	for _, kind := range core.Kinds {
		agg, err := repo.AggregateByKind(ctx, kind)
		if err != nil {
			return err
		}
		s := report.CategoryStatistics{
			Kind:     kind,
			Periods:  agg.Count,
			MinUnits: agg.MinUnits,
			MaxUnits: agg.MaxUnits,
			AvgNet:   agg.AvgNet,
			AvgGross: agg.AvgGross,
		}
		if mean, ok := core.Mean(agg.UnitCounts); ok {
			s.MeanUnits = mean
		}
		if stdev, ok := core.StdDev(agg.UnitCounts); ok {
			s.StdevUnits = stdev
		}
		stats = append(stats, s)
	}
	report.WriteStatistics(os.Stdout, stats)
	return nil
}

// parseMonth validates a YYYY-MM argument.
func parseMonth(s string) (year, month int, err error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a valid year-month combination: %w", s, err)
	}
	return t.Year(), int(t.Month()), nil
}
