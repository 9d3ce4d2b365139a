package promo

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func gzipCodes(t *testing.T, codes []string) []byte {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	for _, c := range codes {
		_, err := gz.Write([]byte(c + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// createPromoFile writes a gzipped code list into a temp dir and returns its path.
func createPromoFile(t *testing.T, name string, codes []string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, gzipCodes(t, codes), 0o600))
	return path
}
