package aggregators

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// maxLineBytes bounds a single access log line.
const maxLineBytes = 1024 * 1024

var ErrLineTooLong = errors.New("log line too long")

// LineSource yields log lines in order, without their line terminators.
type LineSource interface {
	Scan() bool
	Text() string
	// LineErr is set when the current line could not be read as a whole.
	// The source has moved past it and Scan can be called again.
	LineErr() error
	// Err is the read failure that ended the source, nil at the end of input.
	Err() error
}

// NewLineSource splits r into lines of at most maxLineBytes. Longer lines are
// drained and reported through LineErr.
func NewLineSource(r io.Reader) LineSource {
	return newLineReader(r, maxLineBytes)
}

type lineReader struct {
	reader  *bufio.Reader
	maxLen  int
	line    string
	lineErr error
	err     error
}

func newLineReader(r io.Reader, maxLen int) *lineReader {
	return &lineReader{reader: bufio.NewReader(r), maxLen: maxLen}
}

func (r *lineReader) Scan() bool {
	r.line, r.lineErr = "", nil
	if r.err != nil {
		return false
	}

	var buf []byte
	size, oversized := 0, false
	for {
		chunk, err := r.reader.ReadSlice('\n')
		size += len(chunk)
		if !oversized {
			if len(strings.TrimRight(string(chunk), "\r\n"))+len(buf) > r.maxLen {
				oversized, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil {
			r.err = err
			if !errors.Is(err, io.EOF) {
				// a partial line before a read failure is dropped
				return false
			}
			if size == 0 {
				return false
			}
		}
		break
	}

	if oversized {
		r.lineErr = fmt.Errorf("%w: %d bytes, limit %d", ErrLineTooLong, size, r.maxLen)
		return true
	}
	r.line = strings.TrimRight(string(buf), "\r\n")
	return true
}

func (r *lineReader) Text() string {
	return r.line
}

func (r *lineReader) LineErr() error {
	return r.lineErr
}

func (r *lineReader) Err() error {
	if errors.Is(r.err, io.EOF) {
		return nil
	}
	return r.err
}
