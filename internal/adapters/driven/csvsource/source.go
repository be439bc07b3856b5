package csvsource

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driven"
	"github.com/custodia-labs/certprobe/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.IdentitySource = (*Source)(nil)

// Extension is the file extension of group input files.
const Extension = ".csv"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source reads identities from <dir>/<group>.csv.
type Source struct {
	dir func() string
}

// New creates a source reading from a fixed directory.
func New(dir string) *Source {
	return &Source{dir: func() string { return dir }}
}

// NewDynamic creates a source whose directory is resolved on every call,
// so changes to the input.dir setting apply without a restart.
func NewDynamic(dir func() string) *Source {
	return &Source{dir: dir}
}

// Location returns the path of the file for group.
func (s *Source) Location(group domain.ResourceGroup) string {
	dir := s.dir()
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, group.String()+Extension)
}

// Has reports whether the file for group exists.
func (s *Source) Has(group domain.ResourceGroup) bool {
	info, err := os.Stat(s.Location(group))
	return err == nil && !info.IsDir()
}

// Identities returns the raw identity cells for group in file order.
// Entries are not validated here; the verifier skips invalid ones.
func (s *Source) Identities(ctx context.Context, group domain.ResourceGroup) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Location(group)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInputUnavailable, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	identities, err := Parse(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	logger.Debug("Read %d entries from %s", len(identities), path)
	return identities, nil
}

// Parse reads identity cells from CSV data.
// It returns domain.ErrNoIdentities when no entries are present.
func Parse(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrNoIdentities
	}

	var identities []string
	if isHeader(rows) {
		col := emailColumn(rows[0])
		if col < 0 {
			return nil, domain.ErrNoEmailColumn
		}
		logger.Debug("Using header column %q", rows[0][col])
		for _, row := range rows[1:] {
			if col >= len(row) {
				continue
			}
			if cell := strings.TrimSpace(row[col]); cell != "" {
				identities = append(identities, cell)
			}
		}
	} else {
		for _, row := range rows {
			switch {
			case len(row) > 1:
				identities = append(identities, strings.TrimSpace(row[1]))
			case len(row) == 1:
				identities = append(identities, strings.TrimSpace(row[0]))
			}
		}
	}

	if len(identities) == 0 {
		return nil, domain.ErrNoIdentities
	}
	return identities, nil
}

// isHeader reports whether the first row holds column names rather than data.
// A row naming an email column is a header. A row with no such column is a
// header only when no row of the file contains an address at all, so a
// malformed first entry stays data and is skipped by the verifier.
func isHeader(rows [][]string) bool {
	if hasAddress(rows[0]) {
		return false
	}
	if emailColumn(rows[0]) >= 0 {
		return true
	}
	for _, row := range rows[1:] {
		if hasAddress(row) {
			return false
		}
	}
	return true
}

func hasAddress(row []string) bool {
	for _, cell := range row {
		if strings.Contains(cell, "@") {
			return true
		}
	}
	return false
}

func emailColumn(header []string) int {
	for i, name := range header {
		if strings.Contains(strings.ToLower(name), "email") {
			return i
		}
	}
	return -1
}
