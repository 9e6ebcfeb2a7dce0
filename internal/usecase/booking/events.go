package booking

import (
	"github.com/appointra/scheduler/internal/audit"
	"github.com/appointra/scheduler/internal/notify"
)

// The write-path use cases emit audit and notification events through these
// narrow interfaces so tests can observe them without a database behind.
type AuditSink interface {
	Dispatch(ev audit.Event)
}

type NotifySink interface {
	Schedule(ev notify.Event)
}
