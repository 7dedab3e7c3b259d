package events

import (
	"github.com/penoFahmi/e-arsip-sub000/models"
	"github.com/penoFahmi/e-arsip-sub000/utils/logger"
)

// DispositionEventType names a change in a disposition's lifecycle.
type DispositionEventType string

const (
	// DispositionSent is published after a disposition is committed.
	DispositionSent DispositionEventType = "DispositionSent"

	// DispositionStatusChanged is published after the recipient moves the status.
	DispositionStatusChanged DispositionEventType = "DispositionStatusChanged"
)

// DispositionEvent is the payload delivered to notifiers.
type DispositionEvent struct {
	Type        DispositionEventType
	Disposition models.Disposition
	Letter      models.IncomingLetter
	OldStatus   models.DispositionStatus
}

// DispositionEventBus is buffered so publishing never waits on a slow notifier.
var DispositionEventBus = make(chan DispositionEvent, 100)

// Publish enqueues e without blocking. When the buffer is full the event is
// dropped and logged; notifications are best effort.
func Publish(e DispositionEvent) {
	select {
	case DispositionEventBus <- e:
	default:
		logger.App().WithField("disposition_id", e.Disposition.ID).
			Warn("disposition event bus full, notification dropped")
	}
}
