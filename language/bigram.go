package language

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

// Bigram is a linear-domain word transition weight P(To | From).
type Bigram struct {
	From   string
	To     string
	Weight float64
}

// LoadBigrams reads tab-separated bigram lines.
// Format: word1<TAB>word2<TAB>weight
// Lines with another field count or an unparsable weight are skipped.
func LoadBigrams(r io.Reader) ([]Bigram, error) {
	var bigrams []Bigram
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != 3 {
			glog.V(2).Infof("bigram line %d: expected 3 fields, got %d", lineNum, len(parts))
			continue
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			glog.V(2).Infof("bigram line %d: bad weight %q", lineNum, parts[2])
			continue
		}
		bigrams = append(bigrams, Bigram{
			From:   strings.TrimSpace(parts[0]),
			To:     strings.TrimSpace(parts[1]),
			Weight: w,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read bigrams: %w", err)
	}
	return bigrams, nil
}

// LoadBigramsFile is a convenience wrapper that opens a file path.
func LoadBigramsFile(path string) ([]Bigram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadBigrams(f)
}
