package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/ctxcopy/internal/types"
	"github.com/temirov/ctxcopy/internal/utils"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	indentPrefix = ""
	indentSpacer = "  "

	selectedMarker     = "[x]"
	unselectedMarker   = "[ ]"
	unselectableMarker = "[-]"
	listLineFormat     = "%s %s (%s, %s)\n"
	unknownSize        = "?"
	unsupportedFormat  = "unsupported list format %q"
)

// ListedRecord is a record annotated with its selection state.
type ListedRecord struct {
	types.FileRecord
	Selected bool `json:"selected"`
}

// WriteRecordList writes records in the requested format. Text output marks
// selected, unselected and unselectable files; JSON output is an indented array.
func WriteRecordList(writer io.Writer, records []ListedRecord, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		for _, record := range records {
			marker := unselectedMarker
			switch {
			case !record.IsSelectable:
				marker = unselectableMarker
			case record.Selected:
				marker = selectedMarker
			}
			size := unknownSize
			if record.Size != nil {
				size = utils.FormatFileSize(*record.Size)
			}
			if _, err := fmt.Fprintf(writer, listLineFormat, marker, record.Path, size, record.Category); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		if records == nil {
			records = []ListedRecord{}
		}
		encoded, err := json.MarshalIndent(records, indentPrefix, indentSpacer)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(writer, string(encoded))
		return err
	default:
		return fmt.Errorf(unsupportedFormat, format)
	}
}
