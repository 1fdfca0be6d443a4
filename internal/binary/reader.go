// Package binary provides low-level binary I/O for fixed-layout file formats.
package binary

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidWidth is returned when a sample width other than 1, 2, 3 or 4 bytes is requested.
var ErrInvalidWidth = errors.New("invalid sample width: must be 1, 2, 3, or 4")

// Reader reads fixed-width text fields and little-endian samples from an
// io.ReaderAt.
type Reader struct {
	r   io.ReaderAt
	pos int64
}

// NewReader creates a reader positioned at offset 0.
func NewReader(r io.ReaderAt) *Reader {
	return &Reader{r: r}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := r.r.ReadAt(buf, r.pos)
	if err != nil {
		if errors.Is(err, io.EOF) && read < n {
			return nil, io.ErrUnexpectedEOF
		}
		if !errors.Is(err, io.EOF) {
			return nil, err
		}
	}
	r.pos += int64(n)
	return buf, nil
}

// ReadField reads an n-byte text field and returns it verbatim.
func (r *Reader) ReadField(n int) (string, error) {
	buf, err := r.ReadBytes(n)
	if err != nil {
		return "", fmt.Errorf("reading %d byte field at %d: %w", n, r.pos, err)
	}
	return string(buf), nil
}

// ReadFields reads count consecutive n-byte text fields.
func (r *Reader) ReadFields(count, n int) ([]string, error) {
	out := make([]string, count)
	for i := range out {
		s, err := r.ReadField(n)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// ReadSamples reads n signed integers of the given byte width and sign-extends them.
func (r *Reader) ReadSamples(n, width int) ([]int32, error) {
	if width < 1 || width > 4 {
		return nil, ErrInvalidWidth
	}
	buf, err := r.ReadBytes(n * width)
	if err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = DecodeInt(buf[i*width:(i+1)*width], width)
	}
	return out, nil
}

// DecodeInt decodes a little-endian two's complement integer of 1 to 4 bytes.
func DecodeInt(buf []byte, width int) int32 {
	var v uint32
	for i := width - 1; i >= 0; i-- {
		v = (v << 8) | uint32(buf[i])
	}
	shift := uint(32 - 8*width)
	return int32(v<<shift) >> shift
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int64) {
	r.pos += n
}

// Peek reads n bytes without advancing the position.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := r.r.ReadAt(buf, r.pos)
	if read < n {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf, nil
}

// TrimField trims the ASCII padding around a fixed-width text field.
func TrimField(s string) string {
	return strings.Trim(s, " \x00")
}
