package batch

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"

	"github.com/on-the-ground/collatz_ive_go/collatz"
)

var (
	// ErrMalformedLine is returned for a line without two decimal integers.
	ErrMalformedLine = errors.New("malformed line")
	// ErrBlankLine is returned for an empty or whitespace-only line.
	ErrBlankLine = errors.New("blank line")
	// ErrLineTooLong is returned for a line longer than MaxLineLength.
	ErrLineTooLong = errors.New("line too long")
)

// MaxLineLength bounds the bytes kept of one input line, terminator excluded.
const MaxLineLength = 64 * 1024

// ParseLine reads the first two whitespace-separated integers of s as a range.
// Fields after the second are ignored.
func ParseLine(s string) (collatz.Range, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 0:
		return collatz.Range{}, ErrBlankLine
	case 1:
		return collatz.Range{}, fmt.Errorf("%w: want two integers, got %q", ErrMalformedLine, s)
	}

	i, err := parseBound(fields[0])
	if err != nil {
		return collatz.Range{}, err
	}
	j, err := parseBound(fields[1])
	if err != nil {
		return collatz.Range{}, err
	}
	r := collatz.Range{I: i, J: j}
	if err := r.Validate(); err != nil {
		return collatz.Range{}, err
	}
	return r, nil
}

// parseBound accepts any decimal integer. Values below 1 are reported as
// ErrInvalidArgument rather than ErrMalformedLine.
func parseBound(f string) (uint64, error) {
	if u, err := strconv.ParseUint(f, 10, 64); err == nil {
		return u, nil
	}
	v, err := strconv.ParseInt(f, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrMalformedLine, f)
	}
	if v < 1 {
		return 0, fmt.Errorf("%w: range bounds must be positive, got %d", collatz.ErrInvalidArgument, v)
	}
	return uint64(v), nil
}

// FormatResult writes "i j v" with the bounds in the order they were given.
func FormatResult(w io.Writer, r collatz.Range, v uint64) error {
	buf := make([]byte, 0, 64)
	buf = strconv.AppendUint(buf, r.I, 10)
	buf = append(buf, ' ')
	buf = strconv.AppendUint(buf, r.J, 10)
	buf = append(buf, ' ')
	buf = strconv.AppendUint(buf, v, 10)
	buf = append(buf, '\n')
	_, err := w.Write(buf)
	return err
}

// IsBrokenPipe reports whether err means the reader of our output went away.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// lineReader splits input into lines like bufio.Scanner, but an over-long
// line is reported and skipped instead of ending the input.
type lineReader struct {
	r   *bufio.Reader
	buf []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// next returns the next line without its "\n" or "\r\n" terminator. tooLong
// reports a line past MaxLineLength, whose text is dropped. The error is io.EOF
// once the input is exhausted.
func (lr *lineReader) next() (line string, tooLong bool, err error) {
	lr.buf = lr.buf[:0]
	read := false
	for {
		chunk, readErr := lr.r.ReadSlice('\n')
		read = read || len(chunk) > 0
		if !tooLong {
			lr.buf = append(lr.buf, chunk...)
			if len(bytes.TrimRight(lr.buf, "\r\n")) > MaxLineLength {
				tooLong = true
				lr.buf = lr.buf[:0]
			}
		}
		switch {
		case errors.Is(readErr, bufio.ErrBufferFull):
			continue
		case errors.Is(readErr, io.EOF):
			if !read {
				return "", false, io.EOF
			}
		case readErr != nil:
			return "", false, readErr
		}
		if tooLong {
			return "", true, nil
		}
		line = strings.TrimSuffix(string(lr.buf), "\n")
		return strings.TrimSuffix(line, "\r"), false, nil
	}
}
