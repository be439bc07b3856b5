package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

// Timestamp layouts.
const (
	fileStampLayout = "20060102_150405"
	dateLayout      = "2006-01-02 15:04:05"
)

// writeFile creates <dir>/<group>_<kind>_<stamp>.<ext> and fills it with render.
func writeFile(
	ctx context.Context,
	dir string,
	report *domain.RunReport,
	kind, ext string,
	render func(w io.Writer, report *domain.RunReport) error,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if report == nil {
		return "", fmt.Errorf("%w: nil report", domain.ErrInvalidInput)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%s.%s", report.Group, kind, stamp(report).Format(fileStampLayout), ext)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if err := render(w, report); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// stamp is the time a report is named and dated by.
func stamp(report *domain.RunReport) time.Time {
	if !report.FinishedAt.IsZero() {
		return report.FinishedAt
	}
	return report.StartedAt
}
