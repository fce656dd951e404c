// SPDX-License-Identifier: EPL-2.0

package device

import (
	"encoding/binary"
	"math"
)

// blockReader turns a Renderer into a stream of little-endian float32
// bytes, rendering one block at a time. Read never allocates.
type blockReader struct {
	r       Renderer
	block   []float32
	bytes   []byte
	pending []byte
}

func newBlockReader(r Renderer, f Format) *blockReader {
	n := f.BlockSize * f.Channels
	return &blockReader{
		r:     r,
		block: make([]float32, n),
		bytes: make([]byte, n*4),
	}
}

// Read fills p with whole samples. A p shorter than one sample reads
// nothing.
func (b *blockReader) Read(p []byte) (int, error) {
	n := 0
	for len(p)-n >= 4 {
		if len(b.pending) == 0 {
			b.r.Render(b.block)
			for i, v := range b.block {
				binary.LittleEndian.PutUint32(b.bytes[i*4:], math.Float32bits(v))
			}
			b.pending = b.bytes
		}

		k := copy(p[n:], b.pending)
		k -= k % 4
		b.pending = b.pending[k:]
		n += k
	}
	return n, nil
}
