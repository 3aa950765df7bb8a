package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jseverin/hmclab/internal/mcmc"
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

type RunMetadata struct {
	ID             string    `json:"id"`
	Target         string    `json:"target"`
	Sampler        string    `json:"sampler"`
	Timestamp      time.Time `json:"timestamp"`
	Seed           int64     `json:"seed"`
	NSamples       int       `json:"n_samples"`
	NWarmup        int       `json:"n_warmup"`
	Thin           int       `json:"thin"`
	FinalStepSize  float64   `json:"final_step_size"`
	AcceptanceRate float64   `json:"acceptance_rate"`
	Divergences    int       `json:"divergences"`
}

// Save writes one run directory: metadata.json plus trace.csv with one row
// per retained sample and one column per scalar component.
func (s *Store) Save(target, sampler string, seed int64, nWarmup, thin int, trace *mcmc.Trace) (string, error) {
	runID := fmt.Sprintf("%s_%d", target, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Target:         target,
		Sampler:        sampler,
		Timestamp:      time.Now(),
		Seed:           seed,
		NSamples:       trace.NSamples,
		NWarmup:        nWarmup,
		Thin:           thin,
		FinalStepSize:  trace.FinalStepSize,
		AcceptanceRate: trace.AcceptanceRate,
		Divergences:    trace.Divergences,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "trace.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	vars := trace.Space().Variables()

	header := []string{}
	for _, v := range vars {
		if v.Size == 1 {
			header = append(header, v.Name)
			continue
		}
		for i := 0; i < v.Size; i++ {
			header = append(header, fmt.Sprintf("%s[%d]", v.Name, i))
		}
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := 0; i < trace.NSamples; i++ {
		row := make([]string, 0, len(header))
		for _, v := range vars {
			for _, val := range trace.Values[v.Name][i] {
				row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrace reads trace.csv back as column name -> sample series.
func (s *Store) LoadTrace(runID string) (map[string][]float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trace.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 1 {
		return map[string][]float64{}, nil
	}

	header := records[0]
	series := make(map[string][]float64, len(header))
	for _, name := range header {
		series[name] = make([]float64, 0, len(records)-1)
	}

	for i := 1; i < len(records); i++ {
		for j, field := range records[i] {
			if j >= len(header) {
				break
			}
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("bad value at row %d column %s: %w", i, header[j], err)
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}

	return series, nil
}
