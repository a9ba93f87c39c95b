package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
)

const (
	rootDirectoryPath         = "."
	notADirectoryErrorFormat  = "%s is not a directory"
	isADirectoryErrorFormat   = "%s is a directory"
	invalidReadRangeFormat    = "invalid read range offset=%d length=%d"
	permissionWrapErrorFormat = "%w: %w"
)

// FSDirectory is a DirectoryHandle over an fs.FS, typically os.DirFS for
// local disk or fstest.MapFS in tests.
type FSDirectory struct {
	fileSystem    fs.FS
	directoryPath string
	name          string
}

// NewFSDirectory returns a handle for the root of fileSystem presented under name.
func NewFSDirectory(fileSystem fs.FS, name string) *FSDirectory {
	return &FSDirectory{fileSystem: fileSystem, directoryPath: rootDirectoryPath, name: name}
}

// Name returns the directory's base name.
func (directory *FSDirectory) Name() string {
	return directory.name
}

// ListEntries returns the immediate children sorted by name. Symbolic links
// are never followed: a link is listed as a file, so a link to a directory
// fails to open and is skipped instead of being walked.
func (directory *FSDirectory) ListEntries(ctx context.Context) ([]Entry, error) {
	if contextError := ctx.Err(); contextError != nil {
		return nil, contextError
	}
	directoryEntries, readError := fs.ReadDir(directory.fileSystem, directory.directoryPath)
	if readError != nil {
		return nil, classifyAccessError(readError)
	}
	entries := make([]Entry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entryKind := EntryKindFile
		if directoryEntry.IsDir() {
			entryKind = EntryKindDirectory
		}
		entries = append(entries, Entry{Name: directoryEntry.Name(), Kind: entryKind})
	}
	return entries, nil
}

// OpenFile returns a handle for the named child file.
func (directory *FSDirectory) OpenFile(ctx context.Context, name string) (FileHandle, error) {
	if contextError := ctx.Err(); contextError != nil {
		return nil, contextError
	}
	filePath := directory.childPath(name)
	fileInfo, statError := fs.Stat(directory.fileSystem, filePath)
	if statError != nil {
		return nil, classifyAccessError(statError)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf(isADirectoryErrorFormat, filePath)
	}
	return &FSFile{fileSystem: directory.fileSystem, filePath: filePath, name: name, size: fileInfo.Size()}, nil
}

// OpenSubdirectory returns a handle for the named child directory.
func (directory *FSDirectory) OpenSubdirectory(ctx context.Context, name string) (DirectoryHandle, error) {
	if contextError := ctx.Err(); contextError != nil {
		return nil, contextError
	}
	subdirectoryPath := directory.childPath(name)
	directoryInfo, statError := fs.Stat(directory.fileSystem, subdirectoryPath)
	if statError != nil {
		return nil, classifyAccessError(statError)
	}
	if !directoryInfo.IsDir() {
		return nil, fmt.Errorf(notADirectoryErrorFormat, subdirectoryPath)
	}
	return &FSDirectory{fileSystem: directory.fileSystem, directoryPath: subdirectoryPath, name: name}, nil
}

func (directory *FSDirectory) childPath(name string) string {
	if directory.directoryPath == rootDirectoryPath {
		return name
	}
	return path.Join(directory.directoryPath, name)
}

// FSFile is a FileHandle over an fs.FS entry.
type FSFile struct {
	fileSystem fs.FS
	filePath   string
	name       string
	size       int64
}

// Name returns the file's base name.
func (file *FSFile) Name() string {
	return file.name
}

// Size returns the size observed when the file was opened.
func (file *FSFile) Size() (int64, error) {
	return file.size, nil
}

// ReadText returns the whole file as a string.
func (file *FSFile) ReadText(ctx context.Context) (string, error) {
	if contextError := ctx.Err(); contextError != nil {
		return "", contextError
	}
	fileBytes, readError := fs.ReadFile(file.fileSystem, file.filePath)
	if readError != nil {
		return "", classifyAccessError(readError)
	}
	return string(fileBytes), nil
}

// ReadBytes returns up to length bytes starting at offset. A short result
// means the end of the file was reached.
func (file *FSFile) ReadBytes(ctx context.Context, offset int64, length int) ([]byte, error) {
	if contextError := ctx.Err(); contextError != nil {
		return nil, contextError
	}
	if offset < 0 || length < 0 {
		return nil, fmt.Errorf(invalidReadRangeFormat, offset, length)
	}
	if offset >= file.size {
		return []byte{}, nil
	}
	openedFile, openError := file.fileSystem.Open(file.filePath)
	if openError != nil {
		return nil, classifyAccessError(openError)
	}
	defer openedFile.Close()

	buffer := make([]byte, length)
	if readerAt, isReaderAt := openedFile.(io.ReaderAt); isReaderAt {
		readCount, readError := readerAt.ReadAt(buffer, offset)
		if readError != nil && !errors.Is(readError, io.EOF) {
			return nil, classifyAccessError(readError)
		}
		return buffer[:readCount], nil
	}

	if _, discardError := io.CopyN(io.Discard, openedFile, offset); discardError != nil {
		if errors.Is(discardError, io.EOF) {
			return []byte{}, nil
		}
		return nil, classifyAccessError(discardError)
	}
	readCount, readError := io.ReadFull(openedFile, buffer)
	if readError != nil && !errors.Is(readError, io.EOF) && !errors.Is(readError, io.ErrUnexpectedEOF) {
		return nil, classifyAccessError(readError)
	}
	return buffer[:readCount], nil
}

func classifyAccessError(accessError error) error {
	if errors.Is(accessError, fs.ErrPermission) {
		return fmt.Errorf(permissionWrapErrorFormat, ErrPermissionDenied, accessError)
	}
	return accessError
}
