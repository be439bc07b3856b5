package progress

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
)

// Ensure observer implements the interface.
var _ driving.RunObserver = (*observer)(nil)

// observer forwards run events to the view as Bubbletea messages.
// Sends stop once the view is closed so the run never blocks on a dead UI.
type observer struct {
	events chan<- tea.Msg
	stop   <-chan struct{}
}

func (o *observer) send(msg tea.Msg) {
	select {
	case o.events <- msg:
	case <-o.stop:
	}
}

func (o *observer) OnRunStart(group domain.ResourceGroup, location string, entries int, _ string) {
	o.send(messages.GroupStarted{Group: group, Location: location, Entries: entries})
}

func (o *observer) OnSkipped(entry domain.SkippedEntry) {
	o.send(messages.EntrySkipped{Entry: entry})
}

func (o *observer) OnRetry(identity domain.Identity, attempt domain.RetryAttempt) {
	o.send(messages.RetryScheduled{Identity: identity, Attempt: attempt})
}

func (o *observer) OnRecord(record domain.OutcomeRecord) {
	o.send(messages.RecordProduced{Record: record})
}
