// Package records loads and writes service record batches as JSON files.
package records

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/justicehub-au/finder-dedupe/internal/models"
)

// batchFile is the wrapped form some exports use.
type batchFile struct {
	Services []models.ServiceRecord `json:"services"`
}

// Load reads a batch of service records from a JSON file. The file may be a
// top-level array or an object with a "services" key.
func Load(path string) ([]models.ServiceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}
	return Decode(data, path)
}

// Decode parses a record batch from raw JSON. name is used in error
// messages only.
func Decode(data []byte, name string) ([]models.ServiceRecord, error) {
	var services []models.ServiceRecord
	if err := json.Unmarshal(data, &services); err == nil {
		return services, nil
	}

	var wrapped batchFile
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if wrapped.Services == nil {
		return nil, fmt.Errorf("parse %s: expected a JSON array or a \"services\" object", name)
	}
	return wrapped.Services, nil
}

// WriteJSON writes v to path as indented JSON, creating parent directories
// as needed.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
