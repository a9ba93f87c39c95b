// Package walker traverses a directory handle with an explicit worklist,
// applying ignore rules, tracking load progress and classifying every file.
package walker

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/ctxcopy/internal/classifier"
	"github.com/temirov/ctxcopy/internal/source"
	"github.com/temirov/ctxcopy/internal/types"
	"github.com/temirov/ctxcopy/internal/utils"
)

var (
	// ErrNilHandler is returned when Walk is called without an event handler.
	ErrNilHandler = errors.New("walker: event handler is nil")
	// ErrNilRoot is returned when Walk is called without a root directory.
	ErrNilRoot = errors.New("walker: root directory is nil")
)

const (
	rootListingErrorFormat = "listing root directory %s: %w"
	skipLogMessage         = "skipping file"
	skipDirectoryMessage   = "skipping directory"
	oversizedDetailFormat  = "%d bytes exceeds limit of %d bytes"
)

// EventKind identifies the payload of an Event.
type EventKind int

const (
	EventKindRecord EventKind = iota
	EventKindSkipped
	EventKindProgress
)

// Event is delivered to the handler for every record, skip and progress change.
type Event struct {
	Kind     EventKind
	Record   *types.FileRecord
	File     source.FileHandle
	Skipped  *types.SkippedFile
	Progress *types.LoadProgress
}

// Options configures a walk.
type Options struct {
	IgnorePatterns []string
	Classifier     *classifier.Classifier
	Cache          *classifier.Cache
	Logger         *zap.Logger
}

// Result summarizes a completed walk.
type Result struct {
	RecordCount int
	Skipped     []types.SkippedFile
	Progress    types.LoadProgress
}

// CountSkipped returns the number of skipped files with the given reason.
func (result Result) CountSkipped(reason types.SkipReason) int {
	count := 0
	for _, skippedFile := range result.Skipped {
		if skippedFile.Reason == reason {
			count++
		}
	}
	return count
}

type pendingDirectory struct {
	handle source.DirectoryHandle
	path   string
}

type walkState struct {
	options  Options
	handler  func(Event) error
	progress types.LoadProgress
	result   Result
}

// Walk lists root and every non-ignored descendant, invoking handler as
// records, skips and progress snapshots are produced. A failure to list the
// root aborts the walk; every other per-entry failure becomes a skip.
func Walk(ctx context.Context, root source.DirectoryHandle, options Options, handler func(Event) error) (Result, error) {
	if handler == nil {
		return Result{}, ErrNilHandler
	}
	if root == nil {
		return Result{}, ErrNilRoot
	}
	if options.Classifier == nil {
		options.Classifier = classifier.New(classifier.Options{MaxFileSize: classifier.DefaultMaxFileSize})
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	options.IgnorePatterns = utils.NormalizeIgnorePatterns(options.IgnorePatterns)

	state := &walkState{options: options, handler: handler, progress: types.NewLoadProgress()}
	worklist := []pendingDirectory{{handle: root}}
	for len(worklist) > 0 {
		if contextError := ctx.Err(); contextError != nil {
			return state.finish(), contextError
		}
		current := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		subdirectories, walkError := state.walkDirectory(ctx, current)
		if walkError != nil {
			return state.finish(), walkError
		}
		for subdirectoryIndex := len(subdirectories) - 1; subdirectoryIndex >= 0; subdirectoryIndex-- {
			worklist = append(worklist, subdirectories[subdirectoryIndex])
		}
	}
	return state.finish(), nil
}

func (state *walkState) finish() Result {
	state.result.Progress = state.progress.Clone()
	return state.result
}

// walkDirectory handles one listing and returns the subdirectories still to visit.
func (state *walkState) walkDirectory(ctx context.Context, current pendingDirectory) ([]pendingDirectory, error) {
	isRoot := current.path == ""
	entries, listError := current.handle.ListEntries(ctx)
	if listError != nil {
		if isRoot {
			return nil, fmt.Errorf(rootListingErrorFormat, current.handle.Name(), listError)
		}
		if contextError := ctx.Err(); contextError != nil {
			return nil, contextError
		}
		state.options.Logger.Debug(skipDirectoryMessage, zap.String("path", current.path), zap.Error(listError))
		if skipError := state.skip(current.path, types.SkipReasonReadError, listError.Error()); skipError != nil {
			return nil, skipError
		}
		return nil, state.markProcessed()
	}

	state.progress.TotalEntries += len(entries)
	if progressError := state.emitProgress(); progressError != nil {
		return nil, progressError
	}

	var subdirectories []pendingDirectory
	for _, entry := range entries {
		if contextError := ctx.Err(); contextError != nil {
			return nil, contextError
		}
		relativePath := utils.JoinRelativePath(current.path, entry.Name)
		if utils.ShouldIgnoreByPath(relativePath, state.options.IgnorePatterns) {
			if processedError := state.markProcessed(); processedError != nil {
				return nil, processedError
			}
			continue
		}

		if entry.IsDirectory() {
			subdirectory, openError := current.handle.OpenSubdirectory(ctx, entry.Name)
			if openError != nil {
				if contextError := ctx.Err(); contextError != nil {
					return nil, contextError
				}
				if skipError := state.skip(relativePath, types.SkipReasonReadError, openError.Error()); skipError != nil {
					return nil, skipError
				}
				if processedError := state.markProcessed(); processedError != nil {
					return nil, processedError
				}
				continue
			}
			subdirectories = append(subdirectories, pendingDirectory{handle: subdirectory, path: relativePath})
			continue
		}

		if visitError := state.visitFile(ctx, current.handle, entry.Name, relativePath); visitError != nil {
			return nil, visitError
		}
		if processedError := state.markProcessed(); processedError != nil {
			return nil, processedError
		}
	}

	if !isRoot {
		if processedError := state.markProcessed(); processedError != nil {
			return nil, processedError
		}
	}
	return subdirectories, nil
}

func (state *walkState) visitFile(ctx context.Context, directory source.DirectoryHandle, name string, relativePath string) error {
	state.progress.InFlight[relativePath] = struct{}{}
	defer delete(state.progress.InFlight, relativePath)
	if progressError := state.emitProgress(); progressError != nil {
		return progressError
	}

	fileHandle, openError := directory.OpenFile(ctx, name)
	if openError != nil {
		return state.readFailure(ctx, relativePath, openError)
	}
	fileSize, sizeError := fileHandle.Size()
	if sizeError != nil {
		return state.readFailure(ctx, relativePath, sizeError)
	}
	if state.options.Classifier.IsOversized(fileSize) {
		detail := fmt.Sprintf(oversizedDetailFormat, fileSize, state.options.Classifier.MaxFileSize())
		state.options.Logger.Debug(skipLogMessage, zap.String("path", relativePath), zap.String("reason", string(types.SkipReasonOversized)), zap.Int64("size", fileSize))
		return state.skip(relativePath, types.SkipReasonOversized, detail)
	}

	classification, isCached := classifier.Result{}, false
	if state.options.Cache != nil {
		classification, isCached = state.options.Cache.Lookup(relativePath)
	}
	if !isCached {
		input := classifier.Input{Name: name, Size: &fileSize}
		if !classifier.BinaryExtensions.Has(classifier.ExtractExtension(name)) {
			sample, readError := fileHandle.ReadBytes(ctx, 0, utils.SniffLength)
			if readError != nil {
				return state.readFailure(ctx, relativePath, readError)
			}
			input.Sample = sample
		}
		classification = state.options.Classifier.Classify(input)
		if state.options.Cache != nil {
			state.options.Cache.Store(relativePath, classification)
		}
	}

	recordSize := fileSize
	record := types.FileRecord{
		Name:         name,
		Path:         relativePath,
		Extension:    classification.Extension,
		Size:         &recordSize,
		IsSelectable: classification.IsSelectable,
		IsText:       classification.IsText,
		Category:     classification.Category,
		MimeType:     classification.MimeType,
	}
	state.result.RecordCount++
	return state.handler(Event{Kind: EventKindRecord, Record: &record, File: fileHandle})
}

func (state *walkState) readFailure(ctx context.Context, relativePath string, readError error) error {
	if contextError := ctx.Err(); contextError != nil {
		return contextError
	}
	state.options.Logger.Debug(skipLogMessage, zap.String("path", relativePath), zap.String("reason", string(types.SkipReasonReadError)), zap.Error(readError))
	return state.skip(relativePath, types.SkipReasonReadError, readError.Error())
}

func (state *walkState) skip(relativePath string, reason types.SkipReason, detail string) error {
	skippedFile := types.SkippedFile{Path: relativePath, Reason: reason, Detail: detail}
	state.result.Skipped = append(state.result.Skipped, skippedFile)
	return state.handler(Event{Kind: EventKindSkipped, Skipped: &skippedFile})
}

func (state *walkState) markProcessed() error {
	state.progress.ProcessedEntries++
	return state.emitProgress()
}

func (state *walkState) emitProgress() error {
	snapshot := state.progress.Clone()
	return state.handler(Event{Kind: EventKindProgress, Progress: &snapshot})
}
