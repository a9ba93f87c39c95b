package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/ctxcopy/internal/source"
	"github.com/temirov/ctxcopy/internal/types"
	"github.com/temirov/ctxcopy/internal/walker"
)

var (
	errNilChannel = errors.New("stream: event channel is nil")
	errNilRoot    = errors.New("stream: load root is nil")
)

// LoadOptions configures StreamLoad.
type LoadOptions struct {
	Root    source.DirectoryHandle
	Walk    walker.Options
	Command string
}

type emitter struct {
	ctx     context.Context
	out     chan<- Event
	command string
}

func newEmitter(ctx context.Context, out chan<- Event, command string) *emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &emitter{ctx: ctx, out: out, command: command}
}

func (e *emitter) send(event Event) error {
	if e.out == nil {
		return errNilChannel
	}
	event.Version = SchemaVersion
	if event.Command == "" {
		event.Command = e.command
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	case e.out <- event:
		return nil
	}
}

type summaryTracker struct {
	files int
	bytes int64
}

func (tracker *summaryTracker) add(size int64) {
	tracker.files++
	tracker.bytes += size
}

func (tracker *summaryTracker) summary(result walker.Result) *SummaryEvent {
	return &SummaryEvent{
		Files:      tracker.files,
		Bytes:      tracker.bytes,
		Skipped:    len(result.Skipped),
		Oversized:  result.CountSkipped(types.SkipReasonOversized),
		ReadErrors: result.CountSkipped(types.SkipReasonReadError),
		Entries:    result.Progress.TotalEntries,
	}
}

// StreamLoad walks opts.Root and forwards every walker event to out, framed
// by a start event and, when the walk completes, a done event carrying the
// summary. The caller owns out.
func StreamLoad(ctx context.Context, opts LoadOptions, out chan<- Event) error {
	if opts.Root == nil {
		return errNilRoot
	}

	emitter := newEmitter(ctx, out, opts.Command)
	rootName := opts.Root.Name()
	if err := emitter.send(Event{Kind: EventKindStart, Path: rootName}); err != nil {
		return err
	}

	tracker := &summaryTracker{}
	handler := func(evt walker.Event) error {
		switch evt.Kind {
		case walker.EventKindRecord:
			tracker.add(evt.Record.SizeBytes())
			return emitter.send(Event{Kind: EventKindRecord, Path: evt.Record.Path, Record: evt.Record, File: evt.File})
		case walker.EventKindSkipped:
			return emitter.send(Event{Kind: EventKindSkipped, Path: evt.Skipped.Path, Skipped: evt.Skipped})
		case walker.EventKindProgress:
			return emitter.send(Event{Kind: EventKindProgress, Progress: evt.Progress})
		default:
			return fmt.Errorf("stream: unknown walker event kind %d", evt.Kind)
		}
	}

	result, walkErr := walker.Walk(emitter.ctx, opts.Root, opts.Walk, handler)
	if walkErr != nil {
		return walkErr
	}
	return emitter.send(Event{Kind: EventKindDone, Path: rootName, Summary: tracker.summary(result)})
}

// Dispatch runs produce and consume concurrently over an unbuffered channel.
// The first error from either side cancels the other and is returned.
func Dispatch(
	ctx context.Context,
	produce func(context.Context, chan<- Event) error,
	consume func(Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := consume(event); err != nil {
					return err
				}
			}
		}
	})

	return group.Wait()
}
