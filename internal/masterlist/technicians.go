// Package masterlist loads the reference data the ledger validates against:
// the technician roster and the authorized panel-ID whitelist. Both files are
// created with defaults when absent, never treated as fatal.
package masterlist

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// defaultTechnicians seeds a freshly created roster file.
const defaultTechnicians = "Admin\nAnand\n"

// Technicians is the newline-delimited technician roster. The roster is
// informational: transactions record whichever name the operator supplies.
type Technicians struct {
	path  string
	names []string
}

func LoadTechnicians(path string, logger *slog.Logger) (*Technicians, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Info("technician roster missing, creating with defaults", "path", path)
		if err := os.WriteFile(path, []byte(defaultTechnicians), 0644); err != nil {
			return nil, fmt.Errorf("failed to create technician roster: %w", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open technician roster: %w", err)
	}
	defer func() { _ = f.Close() }()

	t := &Technicians{path: path}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			t.names = append(t.names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read technician roster: %w", err)
	}
	return t, nil
}

// Names returns the roster in file order.
func (t *Technicians) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}
