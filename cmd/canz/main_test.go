package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	a := app()
	a.Writer = &out
	a.ErrWriter = &out

	err := a.Run(append([]string{"canz", "--log-level", "error"}, args...))
	require.NoError(t, err, out.String())

	return out.String()
}

func writeSampleFile(t *testing.T, dir string, n int) (string, string) {
	t.Helper()

	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString(strconv.Itoa(i*i%1013 - 500))
		sb.WriteByte('\n')
	}

	path := filepath.Join(dir, "samples.txt")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))

	return path, sb.String()
}

func TestCLI_CompressDecompress(t *testing.T) {
	dir := t.TempDir()
	in, want := writeSampleFile(t, dir, 333)
	trace := filepath.Join(dir, "samples.canz")
	out := filepath.Join(dir, "restored.txt")

	run(t, "compress", "--block-size", "40", "--compression", "zstd", "--channel", "IU.ANMO.00.BHZ",
		"--sample-rate", "20", "--start", "2024-03-01T12:00:00Z", in, trace)
	run(t, "decompress", trace, out)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, want, string(got))

	report := run(t, "inspect", trace)
	require.Contains(t, report, "start:        2024-03-01T12:00:00Z")
	require.Contains(t, report, "samples:      333")
	require.Contains(t, report, "blocks:       9 x 40")
	require.Contains(t, report, "compression:  Zstd")
	require.Contains(t, report, "sample rate:  20 Hz")
}

func TestCLI_Binary(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "samples.bin")
	require.NoError(t, os.WriteFile(in, []byte{0, 0, 0, 5, 0xff, 0xff, 0xff, 0xfb}, 0o600))
	trace := filepath.Join(dir, "samples.canz")
	out := filepath.Join(dir, "restored.bin")

	run(t, "compress", "--binary", in, trace)
	run(t, "decompress", "--binary", trace, out)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 5, 0xff, 0xff, 0xff, 0xfb}, got)
}

func TestCLI_Archive(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "archive.db")
	in, want := writeSampleFile(t, dir, 500)
	out := filepath.Join(dir, "restored.txt")

	run(t, "archive", "--db", db, "put", "--channel", "IU.ANMO.00.BHZ", "--seq", "1", "--encode", in)
	run(t, "archive", "--db", db, "get", "--channel", "IU.ANMO.00.BHZ", "--seq", "1", out)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, want, string(got))

	listing := run(t, "archive", "--db", db, "list", "--channel", "IU.ANMO.00.BHZ")
	require.True(t, strings.HasPrefix(listing, "1\t"), listing)
	require.Contains(t, listing, "500 samples")

	run(t, "archive", "--db", db, "delete", "--channel", "IU.ANMO.00.BHZ", "--seq", "1")
	require.Empty(t, run(t, "archive", "--db", db, "list", "--channel", "IU.ANMO.00.BHZ"))
}

func TestCLI_Errors(t *testing.T) {
	dir := t.TempDir()
	in, _ := writeSampleFile(t, dir, 10)

	a := app()
	a.Writer = &bytes.Buffer{}
	a.ErrWriter = &bytes.Buffer{}
	err := a.Run([]string{"canz", "--log-level", "error", "compress", "--block-size", "30", in, filepath.Join(dir, "x.canz")})
	require.Error(t, err)

	a = app()
	a.Writer = &bytes.Buffer{}
	a.ErrWriter = &bytes.Buffer{}
	err = a.Run([]string{"canz", "--log-level", "error", "decompress", in, filepath.Join(dir, "x.txt")})
	require.Error(t, err)
}
