package acoustic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

var (
	macroLine = regexp.MustCompile(`^~h\s+"([^"]+)"`)
	tagLine   = regexp.MustCompile(`^<([A-Za-z]+)>\s*(.*)$`)
)

// dataMode says what the numeric lines following a tag contain.
type dataMode int

const (
	dataNone dataMode = iota
	dataMean
	dataVariance
	dataTransitions
)

// Parse reads an HTK-style text model definition.
//
// Only ~h "name" macros open a model. Any other macro closes the open model
// and its body is skipped up to the next ~h. MIXTURE,
// MEAN, VARIANCE, STATE and TRANSP drive the builder and every other tag is
// ignored. Numeric lines are routed by the most recent data-carrying tag.
// Lines that do not fit the current context are dropped.
func Parse(r io.Reader) (*ModelSet, error) {
	b := NewBuilder()
	mode := dataNone
	skipping := false
	lineNo := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "~") {
			mode = dataNone
			if m := macroLine.FindStringSubmatch(line); m != nil {
				skipping = false
				b.Apply(Event{Kind: EventModel, Name: m[1]})
			} else {
				skipping = true
				b.Apply(Event{Kind: EventEndModel})
				glog.V(2).Infof("line %d: skipping macro %q", lineNo, line)
			}
			continue
		}
		if skipping {
			continue
		}

		if m := tagLine.FindStringSubmatch(line); m != nil {
			mode = applyTag(b, strings.ToUpper(m[1]), m[2], lineNo)
			continue
		}

		values, err := parseFloats(line)
		if err != nil {
			glog.V(2).Infof("line %d: %v", lineNo, err)
			continue
		}
		switch mode {
		case dataMean:
			b.Apply(Event{Kind: EventMean, Values: values})
		case dataVariance:
			b.Apply(Event{Kind: EventVariance, Values: values})
		case dataTransitions:
			b.Apply(Event{Kind: EventTransitionRow, Values: values})
		default:
			glog.V(2).Infof("line %d: numeric data outside of a block", lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read model definition: %w", err)
	}
	set := b.Finish()
	glog.V(1).Infof("parsed %d models", set.Len())
	return set, nil
}

func applyTag(b *Builder, tag, rest string, lineNo int) dataMode {
	fields := strings.Fields(rest)
	switch tag {
	case "STATE":
		b.Apply(Event{Kind: EventState})
		return dataNone
	case "MIXTURE":
		if len(fields) == 0 {
			glog.V(2).Infof("line %d: mixture without weight", lineNo)
			return dataNone
		}
		w, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			glog.V(2).Infof("line %d: bad mixture weight %q", lineNo, fields[len(fields)-1])
			return dataNone
		}
		b.Apply(Event{Kind: EventMixture, Value: w})
		return dataNone
	case "MEAN":
		b.Apply(Event{Kind: EventMeanTotal, Value: float64(leadingInt(fields))})
		return dataMean
	case "VARIANCE":
		b.Apply(Event{Kind: EventVarianceTotal, Value: float64(leadingInt(fields))})
		return dataVariance
	case "TRANSP":
		b.Apply(Event{Kind: EventTransitions, Value: float64(leadingInt(fields))})
		return dataTransitions
	}
	return dataNone
}

func leadingInt(fields []string) int {
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

func parseFloats(line string) ([]float64, error) {
	fields := strings.Fields(line)
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("not a numeric line: %q", f)
		}
		values[i] = v
	}
	return values, nil
}

// LoadFile loads a model set from path. Files ending in .gob are read with
// LoadGob, anything else is parsed as a text definition.
func LoadFile(path string) (*ModelSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".gob") {
		return LoadGob(f)
	}
	return Parse(f)
}
