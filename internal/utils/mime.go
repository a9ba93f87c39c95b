package utils

import (
	"net/http"
)

// UnknownMimeType is returned when no sample is available.
const UnknownMimeType = ""

// DetectMimeType returns the MIME type of the provided content sample.
// It uses http.DetectContentType, which inspects at most the first 512 bytes.
func DetectMimeType(sample []byte) string {
	if sample == nil {
		return UnknownMimeType
	}
	return http.DetectContentType(sample)
}
