// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package classfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// bigEndianReader reads the fixed-width big-endian primitives of the class
// file format and tracks the absolute byte offset consumed, so that every
// error can cite the position it was detected at.
type bigEndianReader struct {
	r      *bufio.Reader
	offset int64
}

func newBigEndianReader(r io.Reader) *bigEndianReader {
	return &bigEndianReader{r: bufio.NewReader(r)}
}

// pos returns the offset of the next unread byte.
func (r *bigEndianReader) pos() int64 {
	return r.offset
}

func (r *bigEndianReader) bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w at offset 0x%x (wanted %d bytes)", ErrShortRead, r.offset, n)
		}
		return nil, fmt.Errorf("read failed at offset 0x%x: %w", r.offset, err)
	}
	r.offset += int64(n)
	return buf, nil
}

func (r *bigEndianReader) u8() (uint8, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *bigEndianReader) u16() (uint16, error) {
	b, err := r.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *bigEndianReader) u32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *bigEndianReader) s8() (int8, error) {
	v, err := r.u8()
	return int8(v), err
}

func (r *bigEndianReader) s16() (int16, error) {
	v, err := r.u16()
	return int16(v), err
}

func (r *bigEndianReader) s32() (int32, error) {
	v, err := r.u32()
	return int32(v), err
}

// bigEndianWriter is the serializer-side counterpart. The sink does not need
// to report a position; a running count is kept only for error messages.
type bigEndianWriter struct {
	w       io.Writer
	written int64
}

func newBigEndianWriter(w io.Writer) *bigEndianWriter {
	return &bigEndianWriter{w: w}
}

func (w *bigEndianWriter) bytes(b []byte) error {
	n, err := w.w.Write(b)
	w.written += int64(n)
	if err != nil {
		return fmt.Errorf("write failed after %d bytes: %w", w.written, err)
	}
	return nil
}

func (w *bigEndianWriter) u8(v uint8) error {
	return w.bytes([]byte{v})
}

func (w *bigEndianWriter) u16(v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return w.bytes(buf[:])
}

func (w *bigEndianWriter) u32(v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return w.bytes(buf[:])
}

func (w *bigEndianWriter) s8(v int8) error {
	return w.u8(uint8(v))
}

func (w *bigEndianWriter) s16(v int16) error {
	return w.u16(uint16(v))
}

func (w *bigEndianWriter) s32(v int32) error {
	return w.u32(uint32(v))
}
