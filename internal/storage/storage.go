package storage

import (
	"context"

	"stableTvl/internal/model"
)

// Storage defines a sink for TVL snapshots.
type Storage interface {
	PutSnapshot(ctx context.Context, snap model.Snapshot) error
}

// Multi writes a snapshot to every sink in order and stops at the first error.
type Multi []Storage

// PutSnapshot implements Storage.
func (m Multi) PutSnapshot(ctx context.Context, snap model.Snapshot) error {
	for _, sink := range m {
		if err := sink.PutSnapshot(ctx, snap); err != nil {
			return err
		}
	}
	return nil
}
