package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driven"
)

// Ensure ResultsLog implements the interface.
var _ driven.ReportSink = (*ResultsLog)(nil)

// ResultsLog writes <group>_results_<stamp>.log files.
type ResultsLog struct {
	dir func() string
}

// NewResultsLog creates a results log sink writing into the directory dir returns.
func NewResultsLog(dir func() string) *ResultsLog {
	return &ResultsLog{dir: dir}
}

// Name implements driven.ReportSink.
func (r *ResultsLog) Name() string { return "results" }

// Write implements driven.ReportSink.
func (r *ResultsLog) Write(ctx context.Context, report *domain.RunReport) (string, error) {
	return writeFile(ctx, r.dir(), report, "results", "log", renderResults)
}

func renderResults(w io.Writer, report *domain.RunReport) error {
	s := report.Summary
	header := fmt.Sprintf("Event: %s\nDate: %s\nTotal: %d, Found: %d, Missing: %d\n",
		report.Group, stamp(report).Format(dateLayout), s.Total, s.Found, s.Missing)
	if report.Status == domain.RunCancelled {
		header += "Status: cancelled\n"
	}
	if _, err := io.WriteString(w, header+"\nEmail,Filename,Status,URL,Message\n"); err != nil {
		return err
	}

	for _, rec := range report.Records {
		row := quoteAll(
			string(rec.Identity),
			rec.Filename(),
			rec.Outcome.Kind.Status(),
			rec.Outcome.Address.String(),
			rec.Outcome.Diagnostic,
		)
		if _, err := io.WriteString(w, row+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// quoteAll renders fields as a CSV row with every field quoted.
func quoteAll(fields ...string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
