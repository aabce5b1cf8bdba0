package main

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"refdata"
	"refdata/store"
)

const (
	zipNamespace = "zip_locality"
	openEndYear  = 9999
)

// loadZipLocalities reads a ZIP+4 locality directory and replaces the
// zip_locality namespace. The directory holds two dictionary files,
// carriers.txt and localities.txt, and a records/ subdirectory of
// tab-separated shards (zip5, plus4, start year, end year, carrier
// index, locality index). Shards and dictionaries may be gzipped.
func loadZipLocalities(ctx context.Context, db *store.DB, log *zap.Logger, root string) error {
	carriers, err := readDictionary(filepath.Join(root, "carriers.txt"))
	if err != nil {
		return err
	}
	localities, err := readDictionary(filepath.Join(root, "localities.txt"))
	if err != nil {
		return err
	}

	recDir := filepath.Join(root, "records")
	dirEntries, err := os.ReadDir(recDir)
	if err != nil {
		return fmt.Errorf("read shard directory %s: %w", recDir, err)
	}

	var shards []string
	for _, e := range dirEntries {
		name := e.Name()
		if strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".tsv.gz") {
			shards = append(shards, name)
		}
	}
	sort.Strings(shards)

	var records []refdata.ReferenceRecord
	skipped := 0
	for _, shard := range shards {
		recs, n, err := parseZipShard(filepath.Join(recDir, shard), carriers, localities)
		if err != nil {
			return err
		}
		records = append(records, recs...)
		skipped += n
	}

	log.Info("zip localities parsed",
		zap.String("root", root),
		zap.Int("shards", len(shards)),
		zap.Int("records", len(records)),
		zap.Int("skipped_rows", skipped))

	return db.ReplaceReference(ctx, zipNamespace, records)
}

func parseZipShard(path string, carriers, localities []string) ([]refdata.ReferenceRecord, int, error) {
	r, closeFn, err := openMaybeGzip(path)
	if err != nil {
		return nil, 0, err
	}
	defer closeFn()

	var records []refdata.ReferenceRecord
	skipped := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\n")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 6 {
			skipped++
			continue
		}
		zip5, plus4 := fields[0], fields[1]

		startYear, err := strconv.Atoi(fields[2])
		if err != nil {
			skipped++
			continue
		}
		endYear, err := strconv.Atoi(fields[3])
		if err != nil {
			skipped++
			continue
		}
		carrier, ok := dictLookup(carriers, fields[4])
		if !ok {
			skipped++
			continue
		}
		locality, ok := dictLookup(localities, fields[5])
		if !ok {
			skipped++
			continue
		}

		key := zip5
		if plus4 != "" {
			key = zip5 + "-" + plus4
		}
		end := refdata.OpenEndDate
		if endYear != openEndYear {
			end = time.Date(endYear, time.December, 31, 0, 0, 0, 0, time.UTC)
		}

		records = append(records, refdata.ReferenceRecord{
			EntityKey:     key,
			EffectiveDate: time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC),
			EndDate:       end,
			Attributes: map[string]any{
				"zip_code":         zip5,
				"plus_four":        plus4,
				"carrier":          carrier,
				"pricing_locality": locality,
			},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan shard %s: %w", path, err)
	}
	return records, skipped, nil
}

// readDictionary loads a line-indexed dictionary file, falling back to a
// .gz sibling when the plain file is absent.
func readDictionary(path string) ([]string, error) {
	r, closeFn, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\n"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return lines, nil
}

func dictLookup(dict []string, index string) (string, bool) {
	i, err := strconv.Atoi(index)
	if err != nil || i < 0 || i >= len(dict) {
		return "", false
	}
	return dict[i], true
}

func openMaybeGzip(path string) (io.Reader, func() error, error) {
	if _, err := os.Stat(path); err != nil && !strings.HasSuffix(path, ".gz") {
		path += ".gz"
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, f.Close, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("open gzip %s: %w", path, err)
	}
	closeFn := func() error {
		gz.Close()
		return f.Close()
	}
	return gz, closeFn, nil
}
