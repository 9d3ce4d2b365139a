// Command promogen writes sample gzipped promo code lists for local development.
//
// codes1.gz: VALIDONE1, VALIDTWO12, ALLTHREE1, ONLYONE111, SUMMER2024
// codes2.gz: VALIDONE1, VALIDTWO12, ALLTHREE1, ONLYTWO222, WINTER2024
// codes3.gz: WINTER2024, SUMMER2024, ALLTHREE1, ONLYTHREE3, SPRING2024
//
// With the default PROMO_MIN_MATCHES=2 the ONLY* codes and SPRING2024 are rejected.
package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

func main() {
	dir := flag.String("dir", "data/promo", "output directory")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		logger.Fatal().Err(err).Str("dir", *dir).Msg("failed to create directory")
	}

	lists := map[string][]string{
		"codes1.gz": {"VALIDONE1", "VALIDTWO12", "ALLTHREE1", "ONLYONE111", "SUMMER2024"},
		"codes2.gz": {"VALIDONE1", "VALIDTWO12", "ALLTHREE1", "ONLYTWO222", "WINTER2024"},
		"codes3.gz": {"WINTER2024", "SUMMER2024", "ALLTHREE1", "ONLYTHREE3", "SPRING2024"},
	}

	for name, codes := range lists {
		path := filepath.Join(*dir, name)
		if err := writeCodes(path, codes); err != nil {
			logger.Fatal().Err(err).Str("file", path).Msg("failed to write promo file")
		}
		logger.Info().Str("file", path).Int("codes", len(codes)).Msg("promo file written")
	}
}

func writeCodes(path string, codes []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	gz := gzip.NewWriter(f)
	for _, code := range codes {
		if _, err := fmt.Fprintln(gz, code); err != nil {
			return fmt.Errorf("failed to write code: %w", err)
		}
	}
	return gz.Close()
}
