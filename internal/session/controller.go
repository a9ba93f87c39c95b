// Package session owns the loaded file list and the selection for one chosen
// root and exposes the operations a user interface drives.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/ctxcopy/internal/classifier"
	"github.com/temirov/ctxcopy/internal/metrics"
	"github.com/temirov/ctxcopy/internal/output"
	"github.com/temirov/ctxcopy/internal/selection"
	"github.com/temirov/ctxcopy/internal/services/clipboard"
	"github.com/temirov/ctxcopy/internal/services/stream"
	"github.com/temirov/ctxcopy/internal/source"
	"github.com/temirov/ctxcopy/internal/status"
	"github.com/temirov/ctxcopy/internal/tokenizer"
	"github.com/temirov/ctxcopy/internal/types"
	"github.com/temirov/ctxcopy/internal/walker"
)

var (
	// ErrLoadInProgress is returned by SelectRoot while another load is running.
	ErrLoadInProgress = errors.New("session: a load is already in progress")
	// ErrNoSelection is returned by CopySelected when nothing is selected.
	ErrNoSelection = errors.New("session: no files selected")
	// ErrNothingReadable is returned by CopySelected when no selected file could be read.
	ErrNothingReadable = errors.New("session: none of the selected files could be read")
	// ErrNoSink is returned by CopySelected when no clipboard sink is configured.
	ErrNoSink = errors.New("session: no clipboard sink configured")
	// ErrUnknownPreset is returned by ApplyPreset for an unrecognized preset name.
	ErrUnknownPreset = errors.New("session: unknown quick-select preset")
)

const (
	loadCommandName = "load"

	noFilesSelectedMessage    = "No files selected"
	nothingReadableMessage    = "None of the selected files could be read"
	foundFilesMessageFormat   = "Found %d %s"
	loadedWithSkipsFormat     = "Loaded %d %s, skipped %d (%d oversized, %d unreadable)"
	loadFailedMessageFormat   = "Failed to load folder: %v"
	accessFailedMessageFormat = "Could not open folder: %v"
	copiedMessageFormat       = "Copied %d %s to clipboard"
	tokensSuffixFormat        = " (%d tokens)"
	unreadableSuffixFormat    = " (%d unreadable)"
	copyFailedMessageFormat   = "Failed to copy to clipboard: %v"
)

// IgnoreSource supplies the ignore patterns read at the start of every load.
type IgnoreSource interface {
	IgnorePatterns() []string
}

// StaticIgnore is an IgnoreSource backed by a fixed list.
type StaticIgnore []string

// IgnorePatterns returns a copy of the list.
func (patterns StaticIgnore) IgnorePatterns() []string {
	return append([]string(nil), patterns...)
}

// Options configures a Controller. Zero values select sensible defaults.
type Options struct {
	Sink              clipboard.Sink
	Ignore            IgnoreSource
	Classifier        classifier.Options
	DefaultCategories []types.Category
	Publisher         *status.Publisher
	Metrics           *metrics.Recorder
	Counter           tokenizer.Counter
	Logger            *zap.Logger
}

// UpdateKind names what changed in an Update.
type UpdateKind string

const (
	UpdateLoadStarted  UpdateKind = "load_started"
	UpdateRecord       UpdateKind = "record"
	UpdateProgress     UpdateKind = "progress"
	UpdateLoadFinished UpdateKind = "load_finished"
	UpdateStatus       UpdateKind = "status"
)

// Update notifies subscribers that controller state changed.
type Update struct {
	Kind     UpdateKind
	Record   *types.FileRecord
	Progress *types.LoadProgress
	Status   *types.Status
}

// LoadReport summarizes a completed load.
type LoadReport struct {
	RootName   string
	Files      int
	Skipped    []types.SkippedFile
	Oversized  int
	ReadErrors int
	Duration   time.Duration
}

// CopyReport summarizes a successful copy.
type CopyReport struct {
	Files      int
	Unreadable []string
	Bytes      int
	Tokens     int
	Text       string
}

// Controller drives loads, selection, and copying for one root at a time.
type Controller struct {
	store      *selection.Store
	classifier *classifier.Classifier
	cache      *classifier.Cache
	publisher  *status.Publisher
	metrics    *metrics.Recorder
	counter    tokenizer.Counter
	sink       clipboard.Sink
	ignore     IgnoreSource
	defaults   []types.Category
	logger     *zap.Logger

	mutex     sync.RWMutex
	loading   bool
	rootName  string
	progress  types.LoadProgress
	files     map[string]source.FileHandle
	contents  map[string]string
	listeners []func(Update)
}

// New constructs a Controller.
func New(options Options) *Controller {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	publisher := options.Publisher
	if publisher == nil {
		publisher = status.NewPublisher(status.DefaultClearDelay)
	}
	ignore := options.Ignore
	if ignore == nil {
		ignore = StaticIgnore(nil)
	}
	classifierOptions := options.Classifier
	if classifierOptions.MaxFileSize == 0 {
		classifierOptions.MaxFileSize = classifier.DefaultMaxFileSize
	}
	controller := &Controller{
		store:      selection.NewStore(),
		classifier: classifier.New(classifierOptions),
		cache:      classifier.NewCache(),
		publisher:  publisher,
		metrics:    options.Metrics,
		counter:    options.Counter,
		sink:       options.Sink,
		ignore:     ignore,
		defaults:   append([]types.Category(nil), options.DefaultCategories...),
		logger:     logger,
		progress:   types.NewLoadProgress(),
		files:      map[string]source.FileHandle{},
		contents:   map[string]string{},
	}
	publisher.Subscribe(func(current types.Status) {
		statusCopy := current
		controller.notify(Update{Kind: UpdateStatus, Status: &statusCopy})
	})
	return controller
}

// Subscribe registers listener for every state change. Listeners run on the
// goroutine that made the change and must not block.
func (controller *Controller) Subscribe(listener func(Update)) {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	controller.listeners = append(controller.listeners, listener)
}

// Close stops the pending status timer.
func (controller *Controller) Close() {
	controller.publisher.Stop()
}

// SelectRoot asks picker for a directory and loads it. A cancelled picker
// leaves the current list untouched and publishes nothing.
func (controller *Controller) SelectRoot(ctx context.Context, picker source.Picker) (LoadReport, error) {
	if !controller.beginLoad() {
		return LoadReport{}, ErrLoadInProgress
	}
	defer controller.endLoad()

	root, accessErr := picker.RequestDirectoryAccess(ctx)
	if accessErr != nil {
		if errors.Is(accessErr, source.ErrCancelled) || errors.Is(accessErr, context.Canceled) {
			controller.logger.Debug("directory selection cancelled")
			return LoadReport{}, accessErr
		}
		controller.publisher.Error(fmt.Sprintf(accessFailedMessageFormat, accessErr))
		controller.logger.Warn("directory access failed", zap.Error(accessErr))
		return LoadReport{}, accessErr
	}
	return controller.load(ctx, root)
}

// Load loads root directly, bypassing the picker.
func (controller *Controller) Load(ctx context.Context, root source.DirectoryHandle) (LoadReport, error) {
	if !controller.beginLoad() {
		return LoadReport{}, ErrLoadInProgress
	}
	defer controller.endLoad()
	return controller.load(ctx, root)
}

func (controller *Controller) beginLoad() bool {
	controller.mutex.Lock()
	defer controller.mutex.Unlock()
	if controller.loading {
		return false
	}
	controller.loading = true
	return true
}

func (controller *Controller) endLoad() {
	controller.mutex.Lock()
	controller.loading = false
	controller.mutex.Unlock()
}

func (controller *Controller) load(ctx context.Context, root source.DirectoryHandle) (LoadReport, error) {
	startedAt := time.Now()
	controller.resetForLoad(root.Name())
	controller.notify(Update{Kind: UpdateLoadStarted})

	ignorePatterns := controller.ignore.IgnorePatterns()
	controller.logger.Debug("load started", zap.String("root", root.Name()), zap.Strings("ignore", ignorePatterns))

	report := LoadReport{RootName: root.Name()}
	loadOptions := stream.LoadOptions{
		Root:    root,
		Command: loadCommandName,
		Walk: walker.Options{
			IgnorePatterns: ignorePatterns,
			Classifier:     controller.classifier,
			Cache:          controller.cache,
			Logger:         controller.logger,
		},
	}
	produce := func(streamCtx context.Context, out chan<- stream.Event) error {
		return stream.StreamLoad(streamCtx, loadOptions, out)
	}
	consume := func(event stream.Event) error {
		controller.consume(event, &report)
		return nil
	}

	loadErr := stream.Dispatch(ctx, produce, consume)
	report.Duration = time.Since(startedAt)
	if loadErr != nil {
		controller.discardLoad()
		if errors.Is(loadErr, context.Canceled) || errors.Is(loadErr, context.DeadlineExceeded) {
			controller.metrics.RecordLoad(metrics.ResultCancelled, 0, report.Duration)
			controller.logger.Debug("load cancelled", zap.String("root", report.RootName))
			controller.notify(Update{Kind: UpdateLoadFinished})
			return LoadReport{RootName: report.RootName, Duration: report.Duration}, loadErr
		}
		controller.metrics.RecordLoad(metrics.ResultFailure, 0, report.Duration)
		controller.publisher.Error(fmt.Sprintf(loadFailedMessageFormat, loadErr))
		controller.logger.Warn("load failed", zap.String("root", report.RootName), zap.Error(loadErr))
		controller.notify(Update{Kind: UpdateLoadFinished})
		return LoadReport{RootName: report.RootName, Duration: report.Duration}, loadErr
	}

	controller.finishProgress()
	report.Files = controller.store.Len()
	if len(controller.defaults) > 0 {
		controller.store.SelectCategories(controller.defaults...)
	}
	controller.metrics.RecordLoad(metrics.ResultSuccess, report.Files, report.Duration)
	controller.publishLoadStatus(report)
	controller.logger.Info("load finished",
		zap.String("root", report.RootName),
		zap.Int("files", report.Files),
		zap.Int("skipped", len(report.Skipped)),
		zap.Duration("duration", report.Duration),
	)
	controller.notify(Update{Kind: UpdateLoadFinished})
	return report, nil
}

func (controller *Controller) consume(event stream.Event, report *LoadReport) {
	switch event.Kind {
	case stream.EventKindRecord:
		if event.Record == nil {
			return
		}
		record := *event.Record
		controller.store.Append(record)
		controller.mutex.Lock()
		if event.File != nil {
			controller.files[record.Path] = event.File
		}
		controller.mutex.Unlock()
		controller.notify(Update{Kind: UpdateRecord, Record: &record})
	case stream.EventKindSkipped:
		if event.Skipped == nil {
			return
		}
		report.Skipped = append(report.Skipped, *event.Skipped)
		switch event.Skipped.Reason {
		case types.SkipReasonOversized:
			report.Oversized++
		case types.SkipReasonReadError:
			report.ReadErrors++
		}
		controller.metrics.RecordSkipped(string(event.Skipped.Reason))
	case stream.EventKindProgress:
		if event.Progress == nil {
			return
		}
		snapshot := event.Progress.Clone()
		controller.mutex.Lock()
		controller.progress = snapshot
		controller.mutex.Unlock()
		controller.notify(Update{Kind: UpdateProgress, Progress: &snapshot})
	}
}

func (controller *Controller) publishLoadStatus(report LoadReport) {
	if len(report.Skipped) == 0 {
		controller.publisher.Success(fmt.Sprintf(foundFilesMessageFormat, report.Files, pluralizeFiles(report.Files)))
		return
	}
	controller.publisher.Warning(fmt.Sprintf(
		loadedWithSkipsFormat,
		report.Files,
		pluralizeFiles(report.Files),
		len(report.Skipped),
		report.Oversized,
		report.ReadErrors,
	))
}

func (controller *Controller) resetForLoad(rootName string) {
	controller.store.Reset()
	controller.cache.Reset()
	controller.mutex.Lock()
	controller.rootName = rootName
	controller.progress = types.NewLoadProgress()
	controller.files = map[string]source.FileHandle{}
	controller.contents = map[string]string{}
	controller.mutex.Unlock()
}

func (controller *Controller) discardLoad() {
	controller.store.Reset()
	controller.mutex.Lock()
	controller.files = map[string]source.FileHandle{}
	controller.contents = map[string]string{}
	controller.progress.InFlight = map[string]struct{}{}
	controller.mutex.Unlock()
}

func (controller *Controller) finishProgress() {
	controller.mutex.Lock()
	controller.progress.InFlight = map[string]struct{}{}
	controller.mutex.Unlock()
}

// Preview returns the tree of selected paths followed by their contents.
func (controller *Controller) Preview(ctx context.Context) (string, error) {
	assembled, err := controller.assemble(ctx)
	if err != nil {
		return "", err
	}
	return assembled.text, nil
}

// CopySelected writes the preview of the selection to the clipboard sink.
func (controller *Controller) CopySelected(ctx context.Context) (CopyReport, error) {
	if controller.store.Count() == 0 {
		controller.publisher.Warning(noFilesSelectedMessage)
		controller.metrics.RecordCopy(metrics.ResultEmpty, 0)
		return CopyReport{}, ErrNoSelection
	}

	assembled, assembleErr := controller.assemble(ctx)
	if assembleErr != nil {
		controller.metrics.RecordCopy(metrics.ResultFailure, 0)
		controller.publisher.Error(fmt.Sprintf(copyFailedMessageFormat, assembleErr))
		return CopyReport{}, assembleErr
	}
	report := CopyReport{
		Files:      assembled.readCount,
		Unreadable: assembled.unreadable,
		Bytes:      len(assembled.text),
		Text:       assembled.text,
	}
	if assembled.readCount == 0 {
		controller.publisher.Warning(nothingReadableMessage)
		controller.metrics.RecordCopy(metrics.ResultEmpty, 0)
		return report, ErrNothingReadable
	}
	if controller.sink == nil {
		controller.publisher.Error(fmt.Sprintf(copyFailedMessageFormat, ErrNoSink))
		controller.metrics.RecordCopy(metrics.ResultFailure, 0)
		return report, ErrNoSink
	}

	if sinkErr := controller.sink.WriteText(ctx, assembled.text); sinkErr != nil {
		controller.publisher.Error(fmt.Sprintf(copyFailedMessageFormat, sinkErr))
		controller.metrics.RecordCopy(metrics.ResultFailure, 0)
		controller.logger.Warn("clipboard write failed", zap.Error(sinkErr))
		return report, fmt.Errorf("writing to clipboard: %w", sinkErr)
	}

	if controller.counter != nil {
		tokens, countErr := tokenizer.CountTexts(controller.counter, []string{assembled.text})
		if countErr != nil {
			controller.logger.Warn("token counting failed", zap.Error(countErr))
		} else {
			report.Tokens = tokens
		}
	}

	message := fmt.Sprintf(copiedMessageFormat, report.Files, pluralizeFiles(report.Files))
	if report.Tokens > 0 {
		message += fmt.Sprintf(tokensSuffixFormat, report.Tokens)
	}
	if len(report.Unreadable) > 0 {
		message += fmt.Sprintf(unreadableSuffixFormat, len(report.Unreadable))
	}
	controller.publisher.Success(message)
	controller.metrics.RecordCopy(metrics.ResultSuccess, report.Bytes)
	return report, nil
}

type assembledSelection struct {
	text       string
	readCount  int
	unreadable []string
}

func (controller *Controller) assemble(ctx context.Context) (assembledSelection, error) {
	selectedPaths := controller.store.Selected()
	blocks := make([]output.ContentBlock, 0, len(selectedPaths))
	var unreadable []string
	for _, selectedPath := range selectedPaths {
		content, readErr := controller.readContent(ctx, selectedPath)
		if readErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return assembledSelection{}, ctxErr
			}
			controller.logger.Warn("reading selected file failed", zap.String("path", selectedPath), zap.Error(readErr))
			unreadable = append(unreadable, selectedPath)
			continue
		}
		blocks = append(blocks, output.ContentBlock{Path: selectedPath, Content: content})
	}
	text := output.Preview(output.RenderTree(selectedPaths), output.RenderContent(blocks))
	return assembledSelection{text: text, readCount: len(blocks), unreadable: unreadable}, nil
}

func (controller *Controller) readContent(ctx context.Context, filePath string) (string, error) {
	controller.mutex.RLock()
	cached, isCached := controller.contents[filePath]
	handle := controller.files[filePath]
	controller.mutex.RUnlock()
	if isCached {
		return cached, nil
	}
	if handle == nil {
		return "", fmt.Errorf("no file handle for %s", filePath)
	}
	content, err := handle.ReadText(ctx)
	if err != nil {
		return "", err
	}
	controller.mutex.Lock()
	controller.contents[filePath] = content
	controller.mutex.Unlock()
	return content, nil
}

func (controller *Controller) notify(update Update) {
	controller.mutex.RLock()
	listeners := append([]func(Update){}, controller.listeners...)
	controller.mutex.RUnlock()
	for _, listener := range listeners {
		listener(update)
	}
}

func pluralizeFiles(count int) string {
	if count == 1 {
		return "file"
	}
	return "files"
}
