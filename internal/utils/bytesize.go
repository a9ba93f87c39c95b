package utils

import (
	"strconv"
	"strings"
)

const byteUnitStep = 1024

// byteUnits are the suffixes used for file sizes in listings, the browser and copy summaries.
var byteUnits = [...]string{"b", "kb", "mb", "gb", "tb", "pb"}

// FormatFileSize renders a byte count with a lower-case unit: whole bytes
// below one kilobyte, one decimal below ten units, whole units otherwise.
// Negative counts render as zero.
func FormatFileSize(byteCount int64) string {
	if byteCount < byteUnitStep {
		return strconv.FormatInt(max(byteCount, 0), 10) + byteUnits[0]
	}
	scaled := float64(byteCount)
	unit := 0
	for scaled >= byteUnitStep && unit < len(byteUnits)-1 {
		scaled /= byteUnitStep
		unit++
	}
	precision := 0
	if scaled < 10 {
		precision = 1
	}
	rendered := strings.TrimSuffix(strconv.FormatFloat(scaled, 'f', precision, 64), ".0")
	return rendered + byteUnits[unit]
}
