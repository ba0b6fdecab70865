// Package inspector is the read/clear surface over the durable crash slot,
// used by the HTTP handlers and the CLI.
package inspector

import (
	"context"

	"crashwatch/src/crash"
	"crashwatch/src/model"

	logger "github.com/sirupsen/logrus"
)

type Inspector struct {
	store crash.Store
}

func New(store crash.Store) *Inspector {
	return &Inspector{store: store}
}

// GetLastCrash returns the stored report. The second result is false when
// the slot is empty or its content cannot be read back.
func (i *Inspector) GetLastCrash(ctx context.Context) (*model.CrashReport, bool) {
	if i == nil || i.store == nil {
		return nil, false
	}

	report, err := i.store.Load(ctx)
	if err != nil {
		logger.WithError(err).Warn("Failed to read last crash report")
		return nil, false
	}
	if report == nil {
		return nil, false
	}
	return report, true
}

// ClearLastCrash empties the slot.
func (i *Inspector) ClearLastCrash(ctx context.Context) error {
	if i == nil || i.store == nil {
		return nil
	}
	return i.store.Clear(ctx)
}
