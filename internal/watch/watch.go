// Package watch turns a changing document source into a sequence of handler
// calls, at most one per batch of changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Source is something whose content changes over time: a saved page on disk,
// a live browser tab.
type Source interface {
	Name() string
	// Run blocks until ctx is done, calling notify whenever the content may
	// have changed. notify never blocks.
	Run(ctx context.Context, notify func()) error
	// Read returns the current content.
	Read(ctx context.Context) ([]byte, error)
}

// Handler receives the content after each batch. Calls are sequential.
type Handler func(ctx context.Context, doc []byte)

// Observe reads src once immediately and then once per batch of
// notifications. Notifications that arrive within quiet of each other are
// coalesced into a single batch. It returns when ctx is done or src stops.
func Observe(ctx context.Context, src Source, quiet time.Duration, handle Handler) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pending := make(chan struct{}, 1)
	notify := func() {
		select {
		case pending <- struct{}{}:
		default:
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- src.Run(ctx, notify)
	}()

	deliver := func() error {
		doc, err := src.Read(ctx)
		if err != nil {
			return fmt.Errorf("reading %s: %w", src.Name(), err)
		}
		handle(ctx, doc)
		return nil
	}

	if err := deliver(); err != nil && !errors.Is(err, ErrSkip) {
		cancel()
		<-done
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return waitRun(done)
		case err := <-done:
			if ctx.Err() != nil {
				return nil
			}
			return err
		case <-pending:
		}

		if !settle(ctx, pending, quiet) {
			return waitRun(done)
		}
		if err := deliver(); err != nil && !errors.Is(err, ErrSkip) {
			cancel()
			<-done
			return err
		}
	}
}

// ErrSkip can be returned by Source.Read when there is nothing to deliver
// for this batch, such as a file that was removed mid-save.
var ErrSkip = errors.New("nothing to read")

// settle waits until no notification has arrived for quiet.
func settle(ctx context.Context, pending <-chan struct{}, quiet time.Duration) bool {
	if quiet <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(quiet)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-pending:
			timer.Reset(quiet)
		case <-timer.C:
			return true
		}
	}
}

func waitRun(done <-chan error) error {
	err := <-done
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
