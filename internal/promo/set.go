package promo

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"
)

type codeSet map[string]struct{}

// NewCodeSet builds a set from codes. Codes are matched case-insensitively.
func NewCodeSet(codes ...string) CodeSet {
	s := make(codeSet, len(codes))
	for _, c := range codes {
		s.add(c)
	}
	return s
}

func (s codeSet) add(code string) {
	if code = normalize(code); code != "" {
		s[code] = struct{}{}
	}
}

func (s codeSet) Contains(code string) bool {
	_, ok := s[normalize(code)]
	return ok
}

func (s codeSet) Size() int {
	return len(s)
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// readCodes decompresses r and collects one code per line.
func readCodes(ctx context.Context, r io.Reader) (CodeSet, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	set := make(codeSet)
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for lines := 0; scanner.Scan(); lines++ {
		if lines%100_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		set.add(scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read codes: %w", err)
	}

	return set, nil
}
