// Package source defines how ctxcopy reaches a user-chosen directory tree and
// ships the adapters used by the command line: an io/fs backed handle, a path
// picker and an interactive prompt picker.
package source

import (
	"context"
	"errors"
)

var (
	// ErrCancelled reports that the user dismissed the directory picker.
	ErrCancelled = errors.New("directory selection cancelled")
	// ErrPermissionDenied reports that access to a directory or file was refused.
	ErrPermissionDenied = errors.New("permission denied")
)

// EntryKind distinguishes files from directories in a listing.
type EntryKind string

const (
	EntryKindFile      EntryKind = "file"
	EntryKindDirectory EntryKind = "directory"
)

// Entry is one child of a directory listing.
type Entry struct {
	Name string
	Kind EntryKind
}

// IsDirectory reports whether the entry names a subdirectory.
func (entry Entry) IsDirectory() bool {
	return entry.Kind == EntryKindDirectory
}

// FileHandle gives read access to one file.
type FileHandle interface {
	Name() string
	Size() (int64, error)
	ReadText(ctx context.Context) (string, error)
	ReadBytes(ctx context.Context, offset int64, length int) ([]byte, error)
}

// DirectoryHandle gives read access to one directory.
type DirectoryHandle interface {
	Name() string
	ListEntries(ctx context.Context) ([]Entry, error)
	OpenFile(ctx context.Context, name string) (FileHandle, error)
	OpenSubdirectory(ctx context.Context, name string) (DirectoryHandle, error)
}

// Picker asks the user for a directory.
type Picker interface {
	RequestDirectoryAccess(ctx context.Context) (DirectoryHandle, error)
}

// PickerFunc adapts a function to the Picker interface.
type PickerFunc func(ctx context.Context) (DirectoryHandle, error)

// RequestDirectoryAccess calls the wrapped function.
func (pickerFunc PickerFunc) RequestDirectoryAccess(ctx context.Context) (DirectoryHandle, error) {
	return pickerFunc(ctx)
}
