package stream

import (
	"time"

	"github.com/temirov/ctxcopy/internal/source"
	"github.com/temirov/ctxcopy/internal/types"
)

const SchemaVersion = 1

type EventKind string

const (
	EventKindStart    EventKind = "start"
	EventKindRecord   EventKind = "record"
	EventKindSkipped  EventKind = "skipped"
	EventKindProgress EventKind = "progress"
	EventKindDone     EventKind = "done"
)

type Event struct {
	Version   int       `json:"version"`
	Kind      EventKind `json:"kind"`
	Command   string    `json:"command,omitempty"`
	Path      string    `json:"path,omitempty"`
	EmittedAt time.Time `json:"emittedAt,omitempty"`

	Record   *types.FileRecord   `json:"record,omitempty"`
	Skipped  *types.SkippedFile  `json:"skipped,omitempty"`
	Progress *types.LoadProgress `json:"progress,omitempty"`
	Summary  *SummaryEvent       `json:"summary,omitempty"`

	// File reads the record's content on demand. It is never serialized.
	File source.FileHandle `json:"-"`
}

type SummaryEvent struct {
	Files      int   `json:"files"`
	Bytes      int64 `json:"bytes"`
	Skipped    int   `json:"skipped"`
	Oversized  int   `json:"oversized"`
	ReadErrors int   `json:"readErrors"`
	Entries    int   `json:"entries"`
}
