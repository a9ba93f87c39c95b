// Package clipboard provides the sinks that receive copied selections.
package clipboard

import (
	"context"
	"io"

	"github.com/atotto/clipboard"
)

// Sink receives the rendered selection.
type Sink interface {
	WriteText(ctx context.Context, text string) error
}

// Service implements Sink using github.com/atotto/clipboard.
type Service struct {
	writeAll func(text string) error
}

// NewService constructs a system clipboard sink.
func NewService() *Service {
	return &Service{writeAll: clipboard.WriteAll}
}

// Available reports whether a clipboard utility was found on this system.
func (service *Service) Available() bool {
	return !clipboard.Unsupported
}

// WriteText replaces the system clipboard contents with text.
func (service *Service) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return service.writeAll(text)
}

// WriterSink writes the selection to an io.Writer such as standard output.
type WriterSink struct {
	Writer io.Writer
}

// WriteText writes text to the underlying writer.
func (sink WriterSink) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := io.WriteString(sink.Writer, text)
	return err
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, text string) error

// WriteText calls the wrapped function.
func (sinkFunc SinkFunc) WriteText(ctx context.Context, text string) error {
	return sinkFunc(ctx, text)
}

var (
	_ Sink = (*Service)(nil)
	_ Sink = WriterSink{}
	_ Sink = SinkFunc(nil)
)
