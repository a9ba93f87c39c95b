package stream_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/temirov/ctxcopy/internal/classifier"
	"github.com/temirov/ctxcopy/internal/services/stream"
	"github.com/temirov/ctxcopy/internal/source"
	"github.com/temirov/ctxcopy/internal/walker"
)

func collectEvents(t *testing.T, produce func(context.Context, chan<- stream.Event) error) []stream.Event {
	t.Helper()
	var events []stream.Event
	err := stream.Dispatch(context.Background(), produce, func(event stream.Event) error {
		events = append(events, event)
		return nil
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	return events
}

func TestStreamLoadEmitsEventsWithSummary(t *testing.T) {
	fileSystem := fstest.MapFS{
		"nested/example.txt": {Data: []byte("tree")},
		"nested/huge.txt":    {Data: []byte("0123456789")},
		"ignored/skip.txt":   {Data: []byte("skip")},
	}
	options := stream.LoadOptions{
		Root:    source.NewFSDirectory(fileSystem, "root"),
		Command: "list",
		Walk: walker.Options{
			IgnorePatterns: []string{"ignored"},
			Classifier:     classifier.New(classifier.Options{MaxFileSize: 5}),
		},
	}
	events := collectEvents(t, func(ctx context.Context, ch chan<- stream.Event) error {
		return stream.StreamLoad(ctx, options, ch)
	})

	if len(events) == 0 {
		t.Fatalf("expected events, got none")
	}
	if events[0].Kind != stream.EventKindStart || events[0].Path != "root" {
		t.Fatalf("expected first event to be start for root, got %+v", events[0])
	}
	last := events[len(events)-1]
	if last.Kind != stream.EventKindDone || last.Summary == nil {
		t.Fatalf("expected last event to be done with summary, got %+v", last)
	}
	if last.Summary.Files != 1 || last.Summary.Bytes != int64(len("tree")) {
		t.Fatalf("unexpected summary %+v", last.Summary)
	}
	if last.Summary.Oversized != 1 || last.Summary.Skipped != 1 {
		t.Fatalf("expected one oversized skip, got %+v", last.Summary)
	}

	var sawRecord, sawSkipped, sawProgress bool
	for _, event := range events {
		if event.Version != stream.SchemaVersion || event.Command != "list" {
			t.Fatalf("unexpected envelope %+v", event)
		}
		switch event.Kind {
		case stream.EventKindRecord:
			sawRecord = true
			if event.Record.Path != "nested/example.txt" {
				t.Fatalf("unexpected record path %s", event.Record.Path)
			}
			if event.File == nil {
				t.Fatalf("record event missing file handle")
			}
		case stream.EventKindSkipped:
			sawSkipped = true
		case stream.EventKindProgress:
			sawProgress = true
		}
	}
	if !sawRecord || !sawSkipped || !sawProgress {
		t.Fatalf("missing events: record=%t skipped=%t progress=%t", sawRecord, sawSkipped, sawProgress)
	}
}

func TestDispatchPropagatesConsumerError(t *testing.T) {
	consumerErr := errors.New("consumer failed")
	fileSystem := fstest.MapFS{"a.txt": {Data: []byte("a")}}
	err := stream.Dispatch(context.Background(), func(ctx context.Context, ch chan<- stream.Event) error {
		return stream.StreamLoad(ctx, stream.LoadOptions{Root: source.NewFSDirectory(fileSystem, "root")}, ch)
	}, func(event stream.Event) error {
		if event.Kind == stream.EventKindRecord {
			return consumerErr
		}
		return nil
	})
	if !errors.Is(err, consumerErr) {
		t.Fatalf("expected consumer error, got %v", err)
	}
}

func TestStreamLoadRequiresRoot(t *testing.T) {
	err := stream.StreamLoad(context.Background(), stream.LoadOptions{}, make(chan stream.Event, 1))
	if err == nil {
		t.Fatalf("expected error for missing root")
	}
}
