package utils

const (
	// SniffLength defines the maximum number of bytes read when detecting binary content.
	SniffLength = 4096
	// TextRatioThreshold is the share of text bytes a sample must exceed to count as text.
	TextRatioThreshold = 0.9

	tabByte            = 9
	lineFeedByte       = 10
	carriageReturnByte = 13
	firstPrintableByte = 32
	lastPrintableByte  = 126
)

// IsTextByte reports whether a byte is printable ASCII, a tab, a line feed, or a carriage return.
func IsTextByte(value byte) bool {
	if value >= firstPrintableByte && value <= lastPrintableByte {
		return true
	}
	return value == tabByte || value == lineFeedByte || value == carriageReturnByte
}

// CountTextBytes splits the first SniffLength bytes of data into text and binary counts.
func CountTextBytes(data []byte) (int, int) {
	if len(data) > SniffLength {
		data = data[:SniffLength]
	}
	var textBytes int
	for _, byteValue := range data {
		if IsTextByte(byteValue) {
			textBytes++
		}
	}
	return textBytes, len(data) - textBytes
}

// IsTextSample reports whether the sample appears to be text.
// An empty sample is text.
func IsTextSample(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	textBytes, binaryBytes := CountTextBytes(data)
	return float64(textBytes)/float64(textBytes+binaryBytes) > TextRatioThreshold
}
