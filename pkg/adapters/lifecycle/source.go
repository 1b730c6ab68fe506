// Package lifecycle bridges vault activity to github.com/aretw0/lifecycle.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/timethings/pkg/core"
)

type activitySource struct {
	events <-chan core.Activity
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits the activity read from
// events. The source ends when events is closed or its context is done.
func NewSource(events <-chan core.Activity) lifecycle.Source {
	return &activitySource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *activitySource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *activitySource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case a, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- a:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
