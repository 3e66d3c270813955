package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Mirror is the durable copy of the cart. It is overwritten wholesale after
// every successful mutation, so its contents always match the last rendered
// cart. Implementations must treat unreadable or malformed state as an empty
// cart rather than failing the load.
type Mirror interface {
	Load() ([]Line, error)
	Save(lines []Line) error
}

// FileMirror persists the cart as a JSON array of lines in a single file.
type FileMirror struct {
	path string
}

// NewFileMirror creates a mirror backed by the given file path.
func NewFileMirror(path string) *FileMirror {
	return &FileMirror{path: path}
}

// Load reads the mirror file. A missing file or content that does not parse
// as a line array degrades to an empty cart.
func (m *FileMirror) Load() ([]Line, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cart mirror: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, nil
	}
	return lines, nil
}

// Save overwrites the mirror file with the given lines.
func (m *FileMirror) Save(lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling cart: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("creating mirror directory: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("writing cart mirror: %w", err)
	}
	return nil
}
