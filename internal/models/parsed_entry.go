package models

// ParsedEntry is the request extracted from one access log line.
type ParsedEntry struct {
	URL         string  `validate:"required"`
	RequestTime float64 `validate:"gte=0"` // seconds
}
