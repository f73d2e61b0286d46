// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// BytePool recycles fixed-size byte slices for handshake requests and responses,
// so hundreds of thousands of attempts do not each allocate their own buffers.

package pool

import "sync"

// BytePool hands out slices of exactly Size() bytes.
type BytePool struct {
	pool sync.Pool
	size int
}

// NewBytePool creates a pool of size-byte buffers.
func NewBytePool(size int) *BytePool {
	b := &BytePool{size: size}
	b.pool.New = func() any {
		buf := make([]byte, size)
		return &buf
	}
	return b
}

// Get returns a buffer of length Size().
func (b *BytePool) Get() *[]byte {
	buf := b.pool.Get().(*[]byte)
	*buf = (*buf)[:b.size]
	return buf
}

// Put recycles buf. Buffers of a different capacity are dropped.
func (b *BytePool) Put(buf *[]byte) {
	if buf == nil || cap(*buf) != b.size {
		return
	}
	b.pool.Put(buf)
}

// Size returns the buffer length.
func (b *BytePool) Size() int { return b.size }
