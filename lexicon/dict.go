package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/ieee0824/wordhmm/acoustic"
)

// Entry represents a single pronunciation for a word.
type Entry struct {
	Word     string
	Phonemes []acoustic.Phoneme // phoneme sequence
}

// Dictionary holds word-to-pronunciation mappings in file order.
type Dictionary struct {
	Entries map[string][]Entry // word -> list of alternative pronunciations
	order   []string
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		Entries: make(map[string][]Entry),
	}
}

// Add adds a pronunciation entry to the dictionary.
func (d *Dictionary) Add(word string, phonemes []acoustic.Phoneme) {
	if _, ok := d.Entries[word]; !ok {
		d.order = append(d.order, word)
	}
	d.Entries[word] = append(d.Entries[word], Entry{
		Word:     word,
		Phonemes: phonemes,
	})
}

// Load reads a pronunciation dictionary.
// Format: word<TAB>phoneme1 phoneme2 phoneme3 ...
// Blank lines, # comments and lines without a tab are skipped.
func Load(r io.Reader) (*Dictionary, error) {
	d := NewDictionary()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		word, rest, ok := strings.Cut(line, "\t")
		if !ok {
			glog.V(2).Infof("dictionary line %d: no tab separator, skipped", lineNum)
			continue
		}
		word = strings.TrimSpace(word)
		phonemeStrs := strings.Fields(rest)
		if word == "" || len(phonemeStrs) == 0 {
			glog.V(2).Infof("dictionary line %d: empty word or pronunciation, skipped", lineNum)
			continue
		}

		phonemes := make([]acoustic.Phoneme, len(phonemeStrs))
		for i, p := range phonemeStrs {
			phonemes[i] = acoustic.Phoneme(p)
		}

		d.Add(word, phonemes)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}

	return d, nil
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// PhonemeSequence returns the phoneme sequence for a word (first pronunciation).
func (d *Dictionary) PhonemeSequence(word string) ([]acoustic.Phoneme, bool) {
	entries := d.Entries[word]
	if len(entries) == 0 {
		return nil, false
	}
	return entries[0].Phonemes, true
}

// Words returns all words in the order they were first added.
func (d *Dictionary) Words() []string {
	return append([]string(nil), d.order...)
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int { return len(d.order) }
