// Package storage persists sweep runs as directories under a data
// root: metadata.json describing the configuration and best result,
// results.csv holding every evaluated arrangement.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bgoddard/lilypad/internal/sweep"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata summarizes one saved sweep.
type RunMetadata struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // grid or random
	Timestamp time.Time `json:"timestamp"`
	Gap       float64   `json:"gap"`
	TxRadius  float64   `json:"tx_radius"`
	Points    int       `json:"points"`
	DL        float64   `json:"dl"`
	Frequency float64   `json:"frequency"`
	Load      float64   `json:"load"`
	Rows      int       `json:"rows"`
	Best      sweep.Row `json:"best"`
}

var csvHeader = []string{
	"pos2", "pos3", "radius", "m21", "m32", "s22", "k21", "k32", "vout", "power",
}

func rowRecord(r sweep.Row) []string {
	vals := []float64{r.Pos2, r.Pos3, r.Radius, r.M21, r.M32, r.S22, r.K21, r.K32, r.Vout, r.Power}
	rec := make([]string, len(vals))
	for i, v := range vals {
		rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return rec
}

// Save writes a run directory and returns its ID.
func (s *Store) Save(meta RunMetadata, rows []sweep.Row) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Kind, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Rows = len(rows)
	if best, ok := sweep.Best(rows); ok {
		meta.Best = best
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "results.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, r := range rows {
		if err := w.Write(rowRecord(r)); err != nil {
			return "", err
		}
	}
	w.Flush()

	return runID, w.Error()
}

// List returns metadata of every saved run.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

// Load reads one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRows reads back the per-arrangement results of a run.
func (s *Store) LoadRows(runID string) ([]sweep.Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "results.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sweep.Row{}, nil
	}

	rows := make([]sweep.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("storage: malformed row in %s: %d fields", runID, len(rec))
		}
		vals := make([]float64, len(rec))
		for i, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: bad value %q in %s: %w", cell, runID, err)
			}
			vals[i] = v
		}
		rows = append(rows, sweep.Row{
			Pos2: vals[0], Pos3: vals[1], Radius: vals[2],
			M21: vals[3], M32: vals[4], S22: vals[5],
			K21: vals[6], K32: vals[7], Vout: vals[8], Power: vals[9],
		})
	}

	return rows, nil
}
