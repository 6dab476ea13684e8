package feature

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Read parses an observation file: a header line, which is discarded,
// followed by one space-separated feature vector per line. Blank lines are
// skipped. Every vector must have the dimension of the first one.
func Read(r io.Reader) ([][]float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var frames [][]float64
	lineNum := 0
	dim := -1
	for scanner.Scan() {
		lineNum++
		if lineNum == 1 {
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if dim < 0 {
			dim = len(fields)
		} else if len(fields) != dim {
			return nil, fmt.Errorf("line %d: expected %d values, got %d", lineNum, dim, len(fields))
		}
		v := make([]float64, len(fields))
		for i, f := range fields {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			v[i] = x
		}
		frames = append(frames, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read observations: %w", err)
	}
	return frames, nil
}

// ReadFile is a convenience wrapper that opens a file path.
func ReadFile(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	frames, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frames, nil
}
