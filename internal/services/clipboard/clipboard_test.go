package clipboard_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/temirov/ctxcopy/internal/services/clipboard"
)

func TestWriterSink(t *testing.T) {
	var buffer bytes.Buffer
	sink := clipboard.WriterSink{Writer: &buffer}
	if err := sink.WriteText(context.Background(), "payload"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buffer.String() != "payload" {
		t.Fatalf("expected payload, got %q", buffer.String())
	}
}

func TestWriterSinkHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buffer bytes.Buffer
	if err := (clipboard.WriterSink{Writer: &buffer}).WriteText(ctx, "payload"); err == nil {
		t.Fatalf("expected cancellation error")
	}
	if buffer.Len() != 0 {
		t.Fatalf("expected nothing written")
	}
}

func TestSinkFunc(t *testing.T) {
	var received string
	sink := clipboard.SinkFunc(func(_ context.Context, text string) error {
		received = text
		return nil
	})
	if err := sink.WriteText(context.Background(), "value"); err != nil || received != "value" {
		t.Fatalf("expected value to be forwarded, got %q (%v)", received, err)
	}
}
