package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "sp", cfg.ShortPause)
	assert.Equal(t, "sil", cfg.Silence)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Equal(t, 10, cfg.Classes())
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "wordhmm.yaml", `
hmm: models/hmmdefs
dictionary: models/dict.txt
bigram: models/digits.arpa
workers: 3
short_pause: ""
cmn: true
database: results.db
class_map:
  ten: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "models/hmmdefs", cfg.HMM)
	assert.Equal(t, "models/digits.arpa", cfg.Bigram)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "", cfg.ShortPause)
	assert.Equal(t, "sil", cfg.Silence, "unset keys keep defaults")
	assert.True(t, cfg.CMN)
	assert.Equal(t, "results.db", cfg.Database)
	assert.Equal(t, 10, cfg.ClassMap["ten"])
	assert.Equal(t, 0, cfg.ClassMap["oh"])
	assert.Equal(t, 11, cfg.Classes())
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "wordhmm.toml", `
hmm = "hmm.gob"
input = "tst_viterbi"
workers = 2
silence = ""

[class_map]
nought = 0
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hmm.gob", cfg.HMM)
	assert.Equal(t, "tst_viterbi", cfg.Input)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "", cfg.Silence)
	assert.Equal(t, "dictionary.txt", cfg.Dictionary)
	assert.Equal(t, 0, cfg.ClassMap["nought"])
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(write(t, "wordhmm.json", `{}`))
	assert.Error(t, err)

	_, err = Load(write(t, "bad.yaml", "workers: [1, 2"))
	assert.Error(t, err)

	_, err = Load(write(t, "bad.toml", "workers = "))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.HMM = ""
	cfg.Workers = 0
	cfg.ClassMap["minus"] = -1

	err := cfg.Validate()
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	assert.Len(t, merr.Errors, 3)
}
