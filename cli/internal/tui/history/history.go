// ABOUTME: Remembers the last calculation and recently sized models between sessions
// ABOUTME: Stored as history.json in the gpu-memory config directory

package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/amazingchow/LLMToolset/backend/models"
)

// MaxRecentModels bounds the recent model list
const MaxRecentModels = 5

// Entry is the persisted history document
type Entry struct {
	CalculationType models.CalculationType         `json:"calculation_type,omitempty"`
	LastInput       *models.MemoryCalculationInput `json:"last_input,omitempty"`
	RecentModels    []string                       `json:"recent_models"`
}

// Store reads and writes the history file. A Store with an empty dir
// keeps nothing.
type Store struct {
	dir string
}

// New creates a store rooted at dir
func New(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns $GPU_MEMORY_CONFIG_DIR, else $XDG_CONFIG_HOME/gpu-memory,
// else ~/.config/gpu-memory.
func DefaultDir() string {
	if dir := os.Getenv("GPU_MEMORY_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gpu-memory")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gpu-memory")
}

func (s *Store) path() string {
	return filepath.Join(s.dir, "history.json")
}

// Load returns the saved history. A missing or corrupt file yields an
// empty entry.
func (s *Store) Load() Entry {
	empty := Entry{RecentModels: []string{}}
	if s.dir == "" {
		return empty
	}
	data, err := os.ReadFile(s.path())
	if err != nil {
		return empty
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return empty
	}
	if e.RecentModels == nil {
		e.RecentModels = []string{}
	}
	return e
}

// Record saves input as the last calculation and moves its model to the
// front of the recent list.
func (s *Store) Record(calcType models.CalculationType, input *models.MemoryCalculationInput) error {
	if s.dir == "" || input == nil {
		return nil
	}
	e := s.Load()
	e.CalculationType = calcType
	saved := *input
	e.LastInput = &saved

	if input.ModelName != "" {
		recent := []string{input.ModelName}
		for _, m := range e.RecentModels {
			if m != input.ModelName {
				recent = append(recent, m)
			}
		}
		e.RecentModels = recent[:min(len(recent), MaxRecentModels)]
	}
	return s.save(e)
}

func (s *Store) save(e Entry) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), data, 0644)
}

// MergeModels puts recent models that are not in catalog ahead of the
// catalog list, so custom model names typed earlier stay selectable.
func MergeModels(recent, catalog []string) []string {
	out := make([]string, 0, len(recent)+len(catalog))
	for _, m := range recent {
		if !slices.Contains(catalog, m) && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return append(out, catalog...)
}
