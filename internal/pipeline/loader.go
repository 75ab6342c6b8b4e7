package pipeline

import (
	"context"

	"github.com/couchcryptid/levee-files/internal/output"
)

// MultiLoader hands each artifact to every loader in order and stops at the
// first failure.
type MultiLoader []Loader

func (m MultiLoader) Load(ctx context.Context, doc output.Document) error {
	for _, l := range m {
		if err := l.Load(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}
