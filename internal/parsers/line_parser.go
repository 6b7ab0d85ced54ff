package parsers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"log-analyzer/internal/models"
)

// DefaultMethodOffset skips the client address, remote user and most of the
// timestamp of an nginx line before looking for the request field.
const DefaultMethodOffset = 30

const httpSuffix = " HTTP"

// Soft errors: the line does not have the expected shape and is skipped.
var (
	ErrNoHTTPMethod    = errors.New("no http method found")
	ErrNoURLTerminator = errors.New("no url terminator found")
)

// ErrInvalidRequestTime is a hard error: the line has a request field but the
// trailing request time is not a number.
var ErrInvalidRequestTime = errors.New("invalid request time")

// httpMethods are matched together with the quote opening the request field.
var httpMethods = []string{`"GET`, `"POST`, `"PUT`, `"DELETE`, `"HEAD`, `"CONNECT`, `"OPTIONS`, `"TRACE`}

// IsSoftError reports whether err means the line was skipped rather than malformed.
func IsSoftError(err error) bool {
	return errors.Is(err, ErrNoHTTPMethod) || errors.Is(err, ErrNoURLTerminator)
}

// LineParser extracts the URL and request time from one line of the nginx
// "ui_short" access log:
//
//	1.99.174.176 3b81f63526fa8  - [29/Jun/2017:03:50:22 +0300] "GET /api/1/photogenic_banners/list/?server_name=WIN7RB4 HTTP/1.1" 200 12 "-" "Python-urllib/2.7" "-" "1498697422-32900793-4708-9752770" "-" 0.133
type LineParser interface {
	// Parse returns a soft error (see IsSoftError) for lines of another shape and
	// ErrInvalidRequestTime when the last field is not a number.
	Parse(line string) (*models.ParsedEntry, error)
}

type lineParser struct {
	methodOffset int
}

func NewLineParser(methodOffset int) LineParser {
	if methodOffset < 0 {
		methodOffset = 0
	}
	return &lineParser{methodOffset: methodOffset}
}

func (p *lineParser) Parse(line string) (*models.ParsedEntry, error) {
	line = strings.TrimRight(line, "\r\n")

	methodAt, method := p.findMethod(line)
	if methodAt == -1 {
		return nil, ErrNoHTTPMethod
	}

	// method token, one space, then the URL up to the query string or protocol
	urlStart := methodAt + len(method) + 1
	if urlStart > len(line) {
		return nil, ErrNoURLTerminator
	}
	urlEnd := -1
	if i := strings.IndexByte(line[urlStart:], '?'); i != -1 {
		urlEnd = urlStart + i
	}
	if i := strings.Index(line[urlStart:], httpSuffix); i != -1 && (urlEnd == -1 || urlStart+i < urlEnd) {
		urlEnd = urlStart + i
	}
	if urlEnd == -1 {
		return nil, ErrNoURLTerminator
	}

	rawTime := line[strings.LastIndexByte(line, ' ')+1:]
	requestTime, err := strconv.ParseFloat(rawTime, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRequestTime, rawTime)
	}

	return &models.ParsedEntry{
		URL:         line[urlStart:urlEnd],
		RequestTime: requestTime,
	}, nil
}

// findMethod returns the position of the earliest method token at or after the
// search start, or -1. Position decides, not the order of httpMethods: a line
// with "POST before a later "GET resolves to POST.
func (p *lineParser) findMethod(line string) (int, string) {
	start := p.searchStart(line)
	methodAt, method := -1, ""
	for _, m := range httpMethods {
		i := strings.Index(line[start:], m)
		if i != -1 && (methodAt == -1 || start+i < methodAt) {
			methodAt, method = start+i, m
		}
	}
	return methodAt, method
}

// searchStart is the method offset, pulled back to just after the closing
// bracket of the timestamp when that field ends earlier.
func (p *lineParser) searchStart(line string) int {
	start := p.methodOffset
	if i := strings.IndexByte(line, ']'); i != -1 && i+1 < start {
		start = i + 1
	}
	if start > len(line) {
		start = len(line)
	}
	return start
}
