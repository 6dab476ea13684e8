package language

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

const gramsSuffix = "-grams:"

// LoadARPA reads the unigram and bigram sections of an ARPA language model.
// Base-10 log probabilities and backoff weights are converted to natural
// log. Sections above order 2 are skipped. A malformed entry in a loaded
// section is an error.
func LoadARPA(r io.Reader) (*BigramModel, error) {
	m := NewBigramModel()
	scanner := bufio.NewScanner(r)

	// section is -1 before \data\, 0 inside it, n inside \n-grams:.
	section := -1
	declared := make(map[int]int)
	skipped := 0
	lineNo := 0
scan:
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == `\data\`:
			section = 0
			continue
		case line == `\end\`:
			break scan
		case strings.HasPrefix(line, `\`) && strings.HasSuffix(line, gramsSuffix):
			n, err := strconv.Atoi(line[1 : len(line)-len(gramsSuffix)])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("arpa line %d: bad section header %q", lineNo, line)
			}
			section = n
			if n > 2 {
				glog.V(2).Infof("arpa line %d: skipping %d-gram section", lineNo, n)
			}
			continue
		}

		switch {
		case section < 0:
		case section == 0:
			order, count, ok := parseCount(line)
			if ok {
				declared[order] = count
			}
		case section <= 2:
			if err := m.addEntry(section, line); err != nil {
				return nil, fmt.Errorf("arpa line %d: %w", lineNo, err)
			}
		default:
			skipped++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read arpa: %w", err)
	}
	if section < 0 {
		return nil, errors.New(`read arpa: missing \data\ header`)
	}

	if n, ok := declared[1]; ok && n != len(m.Unigrams) {
		glog.V(1).Infof("arpa: %d unigrams declared, %d read", n, len(m.Unigrams))
	}
	if n, ok := declared[2]; ok && n != len(m.Bigrams) {
		glog.V(1).Infof("arpa: %d bigrams declared, %d read", n, len(m.Bigrams))
	}
	glog.V(1).Infof("loaded bigram model: %d unigrams, %d bigrams, %d higher-order entries skipped",
		len(m.Unigrams), len(m.Bigrams), skipped)
	return m, nil
}

// parseCount reads an "ngram N=C" line of the \data\ section.
func parseCount(line string) (order, count int, ok bool) {
	rest, found := strings.CutPrefix(line, "ngram ")
	if !found {
		return 0, 0, false
	}
	o, c, found := strings.Cut(rest, "=")
	if !found {
		return 0, 0, false
	}
	order, err1 := strconv.Atoi(strings.TrimSpace(o))
	count, err2 := strconv.Atoi(strings.TrimSpace(c))
	return order, count, err1 == nil && err2 == nil
}

// addEntry stores one "logprob w1 .. wn [backoff]" line of an n-gram
// section, n being 1 or 2.
func (m *BigramModel) addEntry(order int, line string) error {
	fields := strings.Fields(line)
	if len(fields) < order+1 {
		return fmt.Errorf("too few fields for %d-gram: %q", order, line)
	}
	lp, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("log probability of %q: %w", line, err)
	}
	e := entry{LogProb: lp * math.Ln10}
	if len(fields) > order+1 {
		bo, err := strconv.ParseFloat(fields[order+1], 64)
		if err != nil {
			return fmt.Errorf("backoff of %q: %w", line, err)
		}
		e.LogBackoff = bo * math.Ln10
	}

	if order == 1 {
		m.Unigrams[fields[1]] = e
	} else {
		m.Bigrams[[2]string{fields[1], fields[2]}] = e
	}
	return nil
}

// LoadARPAFile reads an ARPA language model from path.
func LoadARPAFile(path string) (*BigramModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadARPA(f)
}
