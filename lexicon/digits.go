package lexicon

import (
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultClassMap maps the connected-digit vocabulary to class labels.
// "oh" and "zero" share class 0.
func DefaultClassMap() map[string]int {
	return map[string]int{
		"oh":    0,
		"zero":  0,
		"one":   1,
		"two":   2,
		"three": 3,
		"four":  4,
		"five":  5,
		"six":   6,
		"seven": 7,
		"eight": 8,
		"nine":  9,
	}
}

var digitNames = map[rune]string{
	'z': "zero",
	'o': "oh",
	'0': "zero",
	'1': "one",
	'2': "two",
	'3': "three",
	'4': "four",
	'5': "five",
	'6': "six",
	'7': "seven",
	'8': "eight",
	'9': "nine",
}

// DigitReference derives the spoken digit words from an utterance file
// name such as "44z5938a.txt". The trailing take letter (a or b) and any
// "_label" suffix are ignored. It reports false when the name holds
// anything other than digit codes.
func DigitReference(path string) ([]string, bool) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.IndexByte(base, '_'); i >= 0 {
		base = base[:i]
	}
	base = strings.ToLower(base)
	if n := len(base); n > 1 && (base[n-1] == 'a' || base[n-1] == 'b') {
		base = base[:n-1]
	}
	if base == "" {
		return nil, false
	}
	words := make([]string, 0, len(base))
	for _, r := range base {
		w, ok := digitNames[r]
		if !ok {
			return nil, false
		}
		words = append(words, w)
	}
	return words, true
}

// FileLabel extracts the class label from an isolated-word file name of the
// form "<anything>_<digit>.txt".
func FileLabel(path string) (int, bool) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	i := strings.LastIndexByte(base, '_')
	if i < 0 || i == len(base)-1 {
		return 0, false
	}
	suffix := base[i+1:]
	if len(suffix) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}
