package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run kinds.
const (
	KindClassify = "classify"
	KindDecode   = "decode"
)

// Store persists recognition results in SQLite.
type Store struct {
	*sql.DB
}

// Open opens or creates the results database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; batch workers share this connection.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			kind              TEXT NOT NULL,
			hmm               TEXT,
			dictionary        TEXT,
			started_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS results (
			run_id            TEXT NOT NULL,
			path              TEXT NOT NULL,
			expected          TEXT,
			observed          TEXT,
			expected_class    INTEGER,
			observed_class    INTEGER,
			log_score         DOUBLE,
			word_errors       INTEGER,
			ref_words         INTEGER,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db}, nil
}

// BeginRun registers a new run and returns its id.
func (s *Store) BeginRun(kind, hmm, dictionary string) (string, error) {
	id := uuid.NewString()
	_, err := s.Exec(`INSERT INTO runs (run_id, kind, hmm, dictionary) VALUES (?, ?, ?, ?)`,
		id, kind, hmm, dictionary)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// Classification is one isolated-word result. A negative class is unknown.
type Classification struct {
	Path          string
	Observed      string
	ExpectedClass int
	ObservedClass int
	LogScore      float64
}

// RecordClassification stores one isolated-word result.
func (s *Store) RecordClassification(runID string, c Classification) error {
	_, err := s.Exec(`
		INSERT INTO results (run_id, path, observed, expected_class, observed_class, log_score)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, c.Path, c.Observed, nullClass(c.ExpectedClass), nullClass(c.ObservedClass), c.LogScore)
	if err != nil {
		return fmt.Errorf("insert classification: %w", err)
	}
	return nil
}

// Decoding is one continuous recognition result.
type Decoding struct {
	Path       string
	Reference  string
	Hypothesis string
	LogScore   float64
	WordErrors int
	RefWords   int
}

// RecordDecode stores one continuous recognition result.
func (s *Store) RecordDecode(runID string, d Decoding) error {
	_, err := s.Exec(`
		INSERT INTO results (run_id, path, expected, observed, log_score, word_errors, ref_words)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, d.Path, d.Reference, d.Hypothesis, d.LogScore, d.WordErrors, d.RefWords)
	if err != nil {
		return fmt.Errorf("insert decode: %w", err)
	}
	return nil
}

func nullClass(c int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(c), Valid: c >= 0}
}

// Confusion rebuilds the classes x classes confusion matrix of a run,
// indexed [expected][observed]. Results without both classes, or with a
// class out of range, are left out.
func (s *Store) Confusion(runID string, classes int) ([][]int, error) {
	rows, err := s.Query(`
		SELECT expected_class, observed_class, COUNT(*)
		FROM results
		WHERE run_id = ? AND expected_class IS NOT NULL AND observed_class IS NOT NULL
		GROUP BY expected_class, observed_class`, runID)
	if err != nil {
		return nil, fmt.Errorf("query confusion: %w", err)
	}
	defer rows.Close()

	m := make([][]int, classes)
	for i := range m {
		m[i] = make([]int, classes)
	}
	for rows.Next() {
		var expected, observed, n int
		if err := rows.Scan(&expected, &observed, &n); err != nil {
			return nil, err
		}
		if expected >= classes || observed >= classes {
			continue
		}
		m[expected][observed] = n
	}
	return m, rows.Err()
}

// WordErrorRate returns the total word errors over the total reference
// words of a run, and the number of scored utterances.
func (s *Store) WordErrorRate(runID string) (float64, int, error) {
	var errs, words sql.NullInt64
	var n int
	err := s.QueryRow(`
		SELECT SUM(word_errors), SUM(ref_words), COUNT(*)
		FROM results
		WHERE run_id = ? AND ref_words > 0`, runID).Scan(&errs, &words, &n)
	if err != nil {
		return 0, 0, fmt.Errorf("query word error rate: %w", err)
	}
	if !words.Valid || words.Int64 == 0 {
		return 0, n, nil
	}
	return float64(errs.Int64) / float64(words.Int64), n, nil
}

// RunKind returns the kind of a recorded run.
func (s *Store) RunKind(runID string) (string, error) {
	var kind string
	err := s.QueryRow(`SELECT kind FROM runs WHERE run_id = ?`, runID).Scan(&kind)
	if err != nil {
		return "", fmt.Errorf("run %s: %w", runID, err)
	}
	return kind, nil
}
