package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/polyspring/internal/metrics"
	"github.com/san-kum/polyspring/internal/scene"
)

// Store keeps evaluated scenes as one directory per run.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	KFactor   float64            `json:"k_factor"`
	BFactor   float64            `json:"b_factor"`
	Fields    int                `json:"fields"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and springs.csv for the scene's last evaluation.
func (s *Store) Save(sc *scene.Scene) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", sc.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	reports := sc.Report()
	mp := sc.Params()
	meta := RunMetadata{
		ID:        runID,
		Scene:     sc.Name,
		Timestamp: now,
		KFactor:   mp.KFactor,
		BFactor:   mp.BFactor,
		Fields:    len(reports),
		Metrics:   metrics.Summarize(reports),
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

	csvFile, err := os.Create(filepath.Join(runDir, "springs.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSpringsCSV(csvFile, reports); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns every run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

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

func (s *Store) LoadSprings(runID string) ([]SpringRecord, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "springs.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSpringsCSV(f)
}
