package bloom

import "math/bits"

// BitArray is a fixed-size bit vector backed by a byte buffer.
//
// Bit i lives in byte i/8 at position i%8, with bit 0 the least significant
// bit of byte 0 (LSB0). Get and Set share this addressing, and the encoded
// form of a filter carries the raw buffer, so a filter persisted by one
// process decodes to the same bit layout in any other.
//
// Valid indices are [0, BitCount()). Out-of-range access panics: every call
// site derives indices by reducing modulo BitCount, so a bad index is a
// logic error, not a recoverable condition.
type BitArray struct {
	buf []byte
}

// NewBitArray returns a zero-filled bit array of byteCount bytes.
// Values below 1 are treated as 1.
func NewBitArray(byteCount int) *BitArray {
	if byteCount < 1 {
		byteCount = 1
	}
	return &BitArray{buf: make([]byte, byteCount)}
}

// BitArrayFromBytes wraps buf without copying. The BitArray takes ownership
// of buf; the caller must not modify it afterwards.
func BitArrayFromBytes(buf []byte) *BitArray {
	return &BitArray{buf: buf}
}

// Get reports whether bit i is set.
func (b *BitArray) Get(i uint64) bool {
	return b.buf[i/8]&(1<<(i%8)) != 0
}

// Set writes bit i.
func (b *BitArray) Set(i uint64, v bool) {
	if v {
		b.buf[i/8] |= 1 << (i % 8)
	} else {
		b.buf[i/8] &^= 1 << (i % 8)
	}
}

// BitCount returns the number of addressable bits, 8 times the byte length.
func (b *BitArray) BitCount() uint64 {
	return uint64(len(b.buf)) * 8
}

// Bytes returns the backing buffer. The slice is shared, not copied.
func (b *BitArray) Bytes() []byte {
	return b.buf
}

// OnesCount returns the number of set bits.
func (b *BitArray) OnesCount() uint64 {
	var n uint64
	for _, x := range b.buf {
		n += uint64(bits.OnesCount8(x))
	}
	return n
}
