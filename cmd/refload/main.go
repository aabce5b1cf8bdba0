// refload bulk-loads reference data extracts into PostgreSQL: diagnosis
// and procedure code crosswalk tables, positional provider CSV extracts,
// and sharded ZIP+4 locality files. Every load is a transactional full
// replacement of its code system or namespace.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"refdata"
	"refdata/store"
	"refdata/tableparse"
)

func main() {
	dbHost := flag.String("host", envOr("PGHOST", "localhost"), "PostgreSQL host")
	dbPort := flag.Int("port", envIntOr("PGPORT", 5432), "PostgreSQL port")
	dbUser := flag.String("user", envOr("PGUSER", "postgres"), "PostgreSQL user")
	dbPassword := flag.String("password", envOr("PGPASSWORD", ""), "PostgreSQL password")
	dbName := flag.String("dbname", envOr("PGDATABASE", "refdata"), "PostgreSQL database name")
	initSchema := flag.Bool("init", false, "Initialize database schema")

	dxTable := flag.String("dxtable", "", "Path to a diagnosis code crosswalk text file")
	pcsTable := flag.String("pcstable", "", "Path to a procedure code crosswalk file")
	providerFile := flag.String("provider", "", "Path to a positional provider CSV extract")
	providerKind := flag.String("providerkind", "inpatient", "Provider extract layout: inpatient or outpatient")
	zipRoot := flag.String("ziproot", "", "Path to a ZIP+4 locality directory (carriers.txt, localities.txt, records/)")

	flag.Parse()

	haveInput := *dxTable != "" || *pcsTable != "" || *providerFile != "" || *zipRoot != ""
	if !haveInput && !*initSchema {
		fmt.Println("Usage: refload [options]")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		*dbUser, *dbPassword, *dbHost, *dbPort, *dbName)

	db, err := store.Open(ctx, connStr, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	log.Info("connected to database", zap.String("host", *dbHost), zap.String("dbname", *dbName))

	if *initSchema {
		if err := db.Init(ctx); err != nil {
			log.Fatal("failed to initialize schema", zap.Error(err))
		}
		log.Info("schema initialized")
	}

	if *dxTable != "" {
		if err := loadCrosswalk(ctx, db, log, *dxTable, refdata.Diagnosis); err != nil {
			log.Fatal("failed to load diagnosis crosswalk", zap.Error(err))
		}
	}
	if *pcsTable != "" {
		if err := loadCrosswalk(ctx, db, log, *pcsTable, refdata.Procedure); err != nil {
			log.Fatal("failed to load procedure crosswalk", zap.Error(err))
		}
	}
	if *providerFile != "" {
		if err := loadProvider(ctx, db, log, *providerFile, *providerKind); err != nil {
			log.Fatal("failed to load provider extract", zap.Error(err))
		}
	}
	if *zipRoot != "" {
		if err := loadZipLocalities(ctx, db, log, *zipRoot); err != nil {
			log.Fatal("failed to load zip localities", zap.Error(err))
		}
	}
}

func loadCrosswalk(ctx context.Context, db *store.DB, log *zap.Logger, path string, system refdata.CodeSystem) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var entries []refdata.CrosswalkEntry
	var report tableparse.Report
	if system == refdata.Procedure {
		entries, report, err = tableparse.ParseProcedureTable(string(text))
	} else {
		entries, report, err = tableparse.ParseCrosswalkTable(string(text), system)
	}
	if err != nil {
		return err
	}
	logReport(log, "crosswalk parsed", report,
		zap.String("file", path),
		zap.Stringer("system", system),
		zap.Int("entries", len(entries)))

	return db.ReplaceCrosswalk(ctx, system, entries)
}

func loadProvider(ctx context.Context, db *store.DB, log *zap.Logger, path, kind string) error {
	var spec tableparse.ColumnSpec
	var namespace string
	switch kind {
	case "inpatient":
		spec, namespace = inpatientProviderSpec(), "inpatient_provider"
	case "outpatient":
		spec, namespace = outpatientProviderSpec(), "outpatient_provider"
	default:
		return fmt.Errorf("unknown provider layout %q", kind)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := tableparse.ReadCSVRows(f, true)
	if err != nil {
		return err
	}
	records, report, err := tableparse.ParseReferenceRows(rows, spec)
	if err != nil {
		return err
	}
	logReport(log, "provider extract parsed", report,
		zap.String("file", path),
		zap.String("namespace", namespace),
		zap.Int("records", len(records)))

	return db.ReplaceReference(ctx, namespace, records)
}

func logReport(log *zap.Logger, msg string, report tableparse.Report, fields ...zap.Field) {
	if !report.Empty() {
		fields = append(fields,
			zap.Int("skipped_rows", report.SkippedRows),
			zap.Int("degraded_values", report.DegradedValues),
			zap.Strings("unparsed_dates", report.UnparsedDates),
			zap.Strings("degraded_ranges", report.DegradedRanges))
	}
	log.Info(msg, fields...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
