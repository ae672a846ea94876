package editor

import (
	"context"
	"time"
)

// DefaultAutosaveInterval is used when no interval is configured.
const DefaultAutosaveInterval = 30 * time.Second

// Autosaver saves a dirty session on a fixed interval. A failed tick is
// retried on the next one.
type Autosaver struct {
	session  *Session
	interval time.Duration
	onError  func(error)
}

func NewAutosaver(session *Session, interval time.Duration, onError func(error)) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Autosaver{session: session, interval: interval, onError: onError}
}

// Run blocks until ctx is done.
func (a *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.session.AutosaveTick(ctx); err != nil && a.onError != nil {
				a.onError(err)
			}
		}
	}
}
