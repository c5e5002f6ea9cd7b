package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"wled-hyperion-bridge/internal/domain/model"
)

type JSONConfigRepository struct {
	filepath string
	mu       sync.RWMutex
}

func NewJSONConfigRepository(filepath string) *JSONConfigRepository {
	return &JSONConfigRepository{filepath: filepath}
}

// Get loads the stored configuration. A missing file yields the defaults;
// fields absent from the file are filled with their defaults.
func (r *JSONConfigRepository) Get(ctx context.Context) (*model.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg model.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", r.filepath, err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

func (r *JSONConfigRepository) Save(ctx context.Context, config *model.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(r.filepath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(r.filepath, data, 0644)
}
