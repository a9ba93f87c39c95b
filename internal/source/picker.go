package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

const (
	defaultPromptLabel        = "Directory to load"
	currentDirectoryPath      = "."
	resolvePathErrorFormat    = "unable to resolve %s: %w"
	accessPathErrorFormat     = "unable to access %s: %w"
	pathNotDirectoryFormat    = "%s is not a directory"
	emptyDirectoryPathMessage = "directory path is empty"
	promptFailedErrorFormat   = "directory prompt failed: %w"
)

// PathPicker resolves a directory given on the command line.
type PathPicker struct {
	Path string
}

// RequestDirectoryAccess validates Path and returns a handle rooted at it.
func (picker PathPicker) RequestDirectoryAccess(ctx context.Context) (DirectoryHandle, error) {
	if contextError := ctx.Err(); contextError != nil {
		return nil, contextError
	}
	directoryPath := strings.TrimSpace(picker.Path)
	if directoryPath == "" {
		directoryPath = currentDirectoryPath
	}
	absolutePath, absoluteError := filepath.Abs(directoryPath)
	if absoluteError != nil {
		return nil, fmt.Errorf(resolvePathErrorFormat, directoryPath, absoluteError)
	}
	if validationError := validateDirectory(absolutePath); validationError != nil {
		return nil, validationError
	}
	return NewFSDirectory(os.DirFS(absolutePath), filepath.Base(absolutePath)), nil
}

func validateDirectory(directoryPath string) error {
	directoryInfo, statError := os.Stat(directoryPath)
	if statError != nil {
		return fmt.Errorf(accessPathErrorFormat, directoryPath, classifyAccessError(statError))
	}
	if !directoryInfo.IsDir() {
		return fmt.Errorf(pathNotDirectoryFormat, directoryPath)
	}
	openedDirectory, openError := os.Open(directoryPath)
	if openError != nil {
		return fmt.Errorf(accessPathErrorFormat, directoryPath, classifyAccessError(openError))
	}
	return openedDirectory.Close()
}

// lineReader is satisfied by *promptui.Prompt.
type lineReader interface {
	Run() (string, error)
}

// PromptPicker asks for a directory path interactively. Interrupting the
// prompt maps to ErrCancelled.
type PromptPicker struct {
	Label   string
	Default string
	Stdin   io.ReadCloser
	Stdout  io.WriteCloser

	newReader func(picker PromptPicker) lineReader
}

// RequestDirectoryAccess prompts for a path and resolves it with PathPicker.
func (picker PromptPicker) RequestDirectoryAccess(ctx context.Context) (DirectoryHandle, error) {
	if contextError := ctx.Err(); contextError != nil {
		return nil, contextError
	}
	newReader := picker.newReader
	if newReader == nil {
		newReader = newPromptReader
	}
	answer, promptError := newReader(picker).Run()
	if promptError != nil {
		if errors.Is(promptError, promptui.ErrInterrupt) || errors.Is(promptError, promptui.ErrEOF) || errors.Is(promptError, promptui.ErrAbort) {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf(promptFailedErrorFormat, promptError)
	}
	return PathPicker{Path: answer}.RequestDirectoryAccess(ctx)
}

func newPromptReader(picker PromptPicker) lineReader {
	label := picker.Label
	if label == "" {
		label = defaultPromptLabel
	}
	return &promptui.Prompt{
		Label:   label,
		Default: picker.Default,
		Stdin:   picker.Stdin,
		Stdout:  picker.Stdout,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New(emptyDirectoryPathMessage)
			}
			return validateDirectory(input)
		},
	}
}
