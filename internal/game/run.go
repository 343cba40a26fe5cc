package game

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrFrameLimit is returned when a match is still undecided after the frame budget.
var ErrFrameLimit = errors.New("frame limit reached")

// Run drives the match in real time at the tuning's tick rate, publishing a
// snapshot after every frame, until the match ends or ctx is cancelled.
// publish may be nil.
func (m *Match) Run(ctx context.Context, publish func(Snapshot)) (Result, error) {
	ticker := time.NewTicker(m.tuning.FrameDuration())
	defer ticker.Stop()

	if publish != nil {
		publish(m.Snapshot())
	}

	for m.phase != PhaseEnded {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-ticker.C:
			if err := m.Step(); err != nil {
				return Result{}, err
			}
			if publish != nil {
				publish(m.Snapshot())
			}
		}
	}

	result, _ := m.Result()
	return result, nil
}

// Simulate steps the match as fast as possible. maxFrames <= 0 means no limit.
func (m *Match) Simulate(maxFrames int) (Result, error) {
	for m.phase != PhaseEnded {
		if maxFrames > 0 && m.frame >= maxFrames {
			return Result{}, fmt.Errorf("%w after %d frames (%d alive)", ErrFrameLimit, m.frame, len(m.active))
		}
		if err := m.Step(); err != nil {
			return Result{}, err
		}
	}

	result, _ := m.Result()
	return result, nil
}
