package core

import (
	"encoding/binary"
	"math"
)

func float32Bytes(values []float32) []byte {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// UniformWriter packs little-endian scalars into a fixed-size uniform block.
type UniformWriter struct {
	buf []byte
}

func NewUniformWriter(size int) *UniformWriter {
	return &UniformWriter{buf: make([]byte, size)}
}

func (w *UniformWriter) F32(off int, v float32) *UniformWriter {
	binary.LittleEndian.PutUint32(w.buf[off:], math.Float32bits(v))
	return w
}

func (w *UniformWriter) U32(off int, v uint32) *UniformWriter {
	binary.LittleEndian.PutUint32(w.buf[off:], v)
	return w
}

func (w *UniformWriter) Vec(off int, v ...float32) *UniformWriter {
	for i, f := range v {
		w.F32(off+i*4, f)
	}
	return w
}

func (w *UniformWriter) Bytes() []byte { return w.buf }

// F32At reads back a packed float; used by tests and debug output.
func F32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func U32At(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off:])
}
