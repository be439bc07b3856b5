package report

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driven"
)

// Ensure URLList implements the interface.
var _ driven.ReportSink = (*URLList)(nil)

// Marks used in URL lists.
const (
	MarkFound   = "✓"
	MarkMissing = "✗"
)

// URLList writes <group>_urls_<stamp>.txt files.
type URLList struct {
	dir func() string
}

// NewURLList creates a URL list sink writing into the directory dir returns.
func NewURLList(dir func() string) *URLList {
	return &URLList{dir: dir}
}

// Name implements driven.ReportSink.
func (u *URLList) Name() string { return "urls" }

// Write implements driven.ReportSink.
func (u *URLList) Write(ctx context.Context, report *domain.RunReport) (string, error) {
	return writeFile(ctx, u.dir(), report, "urls", "txt", renderURLs)
}

func renderURLs(w io.Writer, report *domain.RunReport) error {
	header := fmt.Sprintf("URLs for event: %s\nGenerated: %s\nConversion: @ -> _\n\n",
		report.Group, stamp(report).Format(dateLayout))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	for _, rec := range report.Records {
		var line string
		if rec.Outcome.Found() {
			line = fmt.Sprintf("%s %s\n", MarkFound, rec.Outcome.Address)
		} else {
			line = fmt.Sprintf("%s %s  # %s\n", MarkMissing, rec.Outcome.Address, rec.Outcome.Diagnostic)
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
