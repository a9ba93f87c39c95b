package classifier

// PreferredExtensions lists the extensions presented first in the filter.
var PreferredExtensions = newExtensionSet(
	"js", "jsx", "ts", "tsx",
	"py", "rb", "php",
	"json", "yaml", "yml",
	"md", "txt",
	"css", "scss", "less",
	"html", "htm",
	"sh", "bash",
	"sql",
)

// CodeExtensions lists source code extensions.
var CodeExtensions = newExtensionSet(
	"js", "jsx", "ts", "tsx", "py", "rb", "php", "java", "cpp", "c",
	"go", "rs", "swift", "kt", "cs", "scala", "lua", "r", "pl",
)

// BinaryExtensions lists extensions that are never sampled.
var BinaryExtensions = newExtensionSet(
	// images
	"jpg", "jpeg", "png", "gif", "bmp", "ico", "webp", "tiff", "svg",
	// audio and video
	"mp3", "wav", "ogg", "mp4", "avi", "mov", "wmv", "flv", "webm",
	// archives
	"zip", "rar", "7z", "tar", "gz", "bz2",
	// executables
	"exe", "dll", "so", "dylib", "bin",
	// documents
	"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx",
	// fonts
	"ttf", "otf", "woff", "woff2",
	"db", "sqlite", "pyc",
)

// WellKnownNames lists extension-less file names that act as their own extension.
var WellKnownNames = newExtensionSet(
	"dockerfile", "makefile", "license", "readme", "procfile",
	"gemfile", "rakefile", "vagrantfile", "jenkinsfile",
)

type extensionSet map[string]struct{}

func newExtensionSet(extensions ...string) extensionSet {
	set := make(extensionSet, len(extensions))
	for _, extension := range extensions {
		set[extension] = struct{}{}
	}
	return set
}

// Has reports whether the set contains extension.
func (set extensionSet) Has(extension string) bool {
	_, exists := set[extension]
	return exists
}

func (set extensionSet) union(others ...extensionSet) extensionSet {
	merged := make(extensionSet, len(set))
	for extension := range set {
		merged[extension] = struct{}{}
	}
	for _, other := range others {
		for extension := range other {
			merged[extension] = struct{}{}
		}
	}
	return merged
}
