package models

import (
	"strings"
	"time"
)

// LogFile is a dated access log found in the log directory.
type LogFile struct {
	Key  string    // slash-separated path relative to the log directory
	Date time.Time // date encoded in the file name, UTC midnight
}

// IsGzip reports whether the file has to be decompressed while reading.
func (f *LogFile) IsGzip() bool {
	return strings.HasSuffix(f.Key, ".gz")
}
