// Package events fans committed activity out to live consumers.
package events

import (
	"context"
	"errors"

	"github.com/mini-social/api-go/models"
)

// Publisher receives activity after the owning transaction has committed.
// Delivery is best effort; callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, activity models.ActivityLog) error
}

type Discard struct{}

func (Discard) Publish(context.Context, models.ActivityLog) error { return nil }

// Fanout publishes to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, activity models.ActivityLog) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, activity); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
