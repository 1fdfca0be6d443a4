package binary

import (
	"fmt"
	"io"
)

// Writer writes fixed-width text fields and little-endian samples to an
// io.Writer.
type Writer struct {
	w   io.Writer
	pos int64
}

// NewWriter creates a writer that counts the bytes written to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Pos returns the number of bytes written so far.
func (w *Writer) Pos() int64 {
	return w.pos
}

// WriteBytes writes the given bytes at the current position.
func (w *Writer) WriteBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	n, err := w.w.Write(data)
	w.pos += int64(n)
	return err
}

// WriteField writes s into an n-byte text field, padding with spaces.
// Text longer than the field is an error rather than being truncated.
func (w *Writer) WriteField(s string, n int) error {
	if len(s) > n {
		return fmt.Errorf("field %q exceeds %d bytes", s, n)
	}
	buf := make([]byte, n)
	copy(buf, s)
	for i := len(s); i < n; i++ {
		buf[i] = ' '
	}
	return w.WriteBytes(buf)
}

// WriteSamples writes signed integers truncated to the given byte width.
func (w *Writer) WriteSamples(samples []int32, width int) error {
	if width < 1 || width > 4 {
		return ErrInvalidWidth
	}
	buf := make([]byte, len(samples)*width)
	for i, s := range samples {
		EncodeInt(buf[i*width:(i+1)*width], s, width)
	}
	return w.WriteBytes(buf)
}

// EncodeInt stores the low width bytes of v in little-endian order.
func EncodeInt(buf []byte, v int32, width int) {
	u := uint32(v)
	for i := 0; i < width; i++ {
		buf[i] = byte(u >> (8 * i))
	}
}
