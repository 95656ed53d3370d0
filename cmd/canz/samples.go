package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/arloliu/canz/endian"
)

// sampleEngine is the byte order of --binary sample files.
var sampleEngine = endian.GetBigEndianEngine()

// readSamples reads one decimal sample per line, ignoring blank lines and lines
// starting with '#', or packed big-endian int32 values when binary is set.
func readSamples(r io.Reader, binary bool) ([]int32, error) {
	if binary {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if len(data)%4 != 0 {
			return nil, fmt.Errorf("binary input of %d bytes is not a whole number of int32 samples", len(data))
		}
		samples := make([]int32, len(data)/4)
		for i := range samples {
			samples[i] = int32(sampleEngine.Uint32(data[i*4:])) //nolint:gosec
		}

		return samples, nil
	}

	var samples []int32
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		samples = append(samples, int32(v))
	}

	return samples, scanner.Err()
}

// writeSamples is the inverse of readSamples.
func writeSamples(w io.Writer, samples []int32, binary bool) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, s := range samples {
		buf = buf[:0]
		if binary {
			buf = sampleEngine.AppendUint32(buf, uint32(s)) //nolint:gosec
		} else {
			buf = strconv.AppendInt(buf, int64(s), 10)
			buf = append(buf, '\n')
		}
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// openInput opens path for reading, "-" meaning stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, errors.New("missing input path")
	}
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(path)
}

// writeOutput writes data to path, "-" meaning stdout.
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return errors.New("missing output path")
	}
	if path == "-" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func readFile(path string) ([]byte, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return io.ReadAll(in)
}
