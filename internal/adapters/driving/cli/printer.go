package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
)

// Ensure printer implements the interface.
var _ driving.RunObserver = (*printer)(nil)

const (
	// ruleWidth is the widest separator line printed.
	ruleWidth = 60

	// failureLimit is how many missing emails the summary lists.
	failureLimit = 5
)

// printer writes live check progress and run summaries.
// Colours are only emitted when out is a terminal.
type printer struct {
	out    io.Writer
	policy domain.ProbePolicy
	rule   string
	now    func() time.Time

	plain   lipgloss.Style
	header  lipgloss.Style
	found   lipgloss.Style
	missing lipgloss.Style
	warn    lipgloss.Style
	muted   lipgloss.Style
	saved   lipgloss.Style
}

func newPrinter(out io.Writer, policy domain.ProbePolicy) *printer {
	r := lipgloss.NewRenderer(out)

	return &printer{
		out:     out,
		policy:  policy,
		rule:    strings.Repeat("=", outputWidth(out)),
		now:     time.Now,
		plain:   r.NewStyle(),
		header:  r.NewStyle().Foreground(lipgloss.Color("6")),
		found:   r.NewStyle().Foreground(lipgloss.Color("2")),
		missing: r.NewStyle().Foreground(lipgloss.Color("1")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		saved:   r.NewStyle().Foreground(lipgloss.Color("4")),
	}
}

// outputWidth returns the separator width for out.
func outputWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return ruleWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 || width > ruleWidth {
		return ruleWidth
	}
	return width
}

// OnRunStart implements driving.RunObserver.
func (p *printer) OnRunStart(group domain.ResourceGroup, location string, entries int, first string) {
	p.line(p.header, "")
	p.line(p.header, p.rule)
	p.line(p.header, "Processing group: "+group.String())
	p.line(p.header, "CSV file: "+location)
	p.line(p.header, "Start time: "+p.now().Format("15:04:05"))
	p.line(p.header, fmt.Sprintf("Retry policy: %d attempts with %s delay", p.policy.MaxAttempts, p.policy.RetryDelay))
	p.line(p.header, p.rule)
	p.line(p.found, fmt.Sprintf("Found %d emails to check", entries))
	if id, ok := domain.ParseIdentity(first); ok {
		p.line(p.header, fmt.Sprintf("Example conversion: %s → %s", id, id.Filename()))
	}
	p.line(p.header, "")
}

// OnSkipped implements driving.BatchObserver.
func (p *printer) OnSkipped(entry domain.SkippedEntry) {
	p.line(p.warn, fmt.Sprintf("     Skipping invalid email: %q", entry.Raw))
}

// OnRetry implements driving.BatchObserver.
func (p *printer) OnRetry(_ domain.Identity, attempt domain.RetryAttempt) {
	p.line(p.warn, fmt.Sprintf("     %s (attempt %d/%d), retrying in %s...",
		retryLabel(attempt.Class), attempt.Attempt, attempt.MaxAttempts, attempt.Delay))
}

// OnRecord implements driving.BatchObserver.
func (p *printer) OnRecord(rec domain.OutcomeRecord) {
	style, mark := p.found, "✓"
	if !rec.Outcome.Found() {
		style, mark = p.missing, "✗"
	}

	p.line(style, fmt.Sprintf("%3d. %s %s", rec.Position+1, mark, rec.Identity))
	p.line(style, "     → "+rec.Identity.Filename())
	p.line(style, "     URL: "+rec.Outcome.Address.String())
	p.line(style, "     Status: "+rec.Outcome.Diagnostic)
	p.line(p.muted, "     "+strings.Repeat("─", 40))
}

// Summary prints the totals of a finished run, the first missing emails
// and where the reports were written.
func (p *printer) Summary(report *domain.RunReport) {
	s := report.Summary

	p.line(p.header, "")
	p.line(p.header, p.rule)
	p.line(p.header, fmt.Sprintf("SUMMARY for %s:", report.Group))
	p.line(p.plain, fmt.Sprintf("Total emails checked: %d", s.Total))
	p.line(p.found, fmt.Sprintf("PDFs found: %d", s.Found))
	p.line(p.missing, fmt.Sprintf("PDFs not found: %d", s.Missing))
	if n := len(report.Skipped); n > 0 {
		p.line(p.warn, fmt.Sprintf("Skipped entries: %d", n))
	}
	if report.Status == domain.RunCancelled {
		p.line(p.warn, "Run cancelled before every email was checked")
	}

	for _, rec := range report.Records {
		if rec.Outcome.Found() {
			p.line(p.found, "")
			p.line(p.found, "Example successful URL:")
			p.line(p.found, rec.Outcome.Address.String())
			break
		}
	}

	if s.Missing > 0 {
		p.line(p.warn, "")
		p.line(p.warn, "Failed to find PDFs for:")
		shown := 0
		for _, rec := range report.Records {
			if rec.Outcome.Found() {
				continue
			}
			if shown == failureLimit {
				break
			}
			p.line(p.warn, "  • "+rec.Identity.String())
			p.line(p.warn, "    → "+rec.Identity.Filename())
			p.line(p.warn, "    URL: "+rec.Outcome.Address.String())
			shown++
		}
		if s.Missing > failureLimit {
			p.line(p.warn, fmt.Sprintf("  ... and %d more", s.Missing-failureLimit))
		}
	}

	if len(report.ReportPaths) > 0 {
		p.line(p.saved, "")
		for _, path := range report.ReportPaths {
			p.line(p.saved, "Report saved to: "+path)
		}
	}
	p.line(p.muted, "Run ID: "+report.ID)
}

// Failed prints a group that could not be checked.
func (p *printer) Failed(group domain.ResourceGroup, err error) {
	p.line(p.missing, fmt.Sprintf("Error processing %s: %v", group, err))
}

// Outcome prints the result of a single probe.
func (p *printer) Outcome(identity domain.Identity, outcome domain.ProbeOutcome) {
	style, mark := p.found, "✓"
	if !outcome.Found() {
		style, mark = p.missing, "✗"
	}

	p.line(style, fmt.Sprintf("%s %s", mark, identity))
	p.line(style, "  → "+identity.Filename())
	p.line(style, "  URL: "+outcome.Address.String())
	p.line(style, "  Status: "+outcome.Diagnostic)
	p.line(p.muted, fmt.Sprintf("  Attempts: %d", outcome.Attempts))
}

func (p *printer) line(style lipgloss.Style, text string) {
	if text == "" {
		fmt.Fprintln(p.out)
		return
	}
	fmt.Fprintln(p.out, style.Render(text))
}

// retryLabel names a failure class the way retry lines show it.
func retryLabel(class domain.FailureClass) string {
	switch class {
	case domain.FailureTimeout:
		return "Timeout"
	case domain.FailureConnection:
		return "Connection error"
	default:
		return "Request error"
	}
}
