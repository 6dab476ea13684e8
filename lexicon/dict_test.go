package lexicon

import (
	"strings"
	"testing"

	"github.com/ieee0824/wordhmm/acoustic"
)

const testDict = `# connected digits
one	w ah n
two	t uw
oh	ow
zero	z iy r ow
malformed line without tab
two	t uw sp

`

func TestLoadDict(t *testing.T) {
	d, err := Load(strings.NewReader(testDict))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	entries := d.Entries["one"]
	if len(entries) != 1 {
		t.Fatalf("one entries = %d, want 1", len(entries))
	}
	if len(entries[0].Phonemes) != 3 {
		t.Errorf("one phonemes = %d, want 3", len(entries[0].Phonemes))
	}
	if entries[0].Phonemes[0] != acoustic.Phoneme("w") {
		t.Errorf("one phonemes[0] = %s, want w", entries[0].Phonemes[0])
	}

	// two should have 2 entries (duplicates)
	entries = d.Entries["two"]
	if len(entries) != 2 {
		t.Errorf("two entries = %d, want 2", len(entries))
	}
	if d.Len() != 4 {
		t.Errorf("Len = %d, want 4", d.Len())
	}
}

func TestDictWordsInFileOrder(t *testing.T) {
	d, err := Load(strings.NewReader(testDict))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	want := []string{"one", "two", "oh", "zero"}
	got := d.Words()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Words = %v, want %v", got, want)
	}
}

func TestPhonemeSequence(t *testing.T) {
	d, err := Load(strings.NewReader(testDict))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	phonemes, ok := d.PhonemeSequence("two")
	if !ok {
		t.Fatal("PhonemeSequence(two) not found")
	}
	if len(phonemes) != 2 {
		t.Errorf("two uses pronunciation of length %d, want the first (2)", len(phonemes))
	}

	if _, ok := d.PhonemeSequence("nine"); ok {
		t.Error("PhonemeSequence(nine) should not be found")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/dictionary.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}
