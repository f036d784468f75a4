package arena

import "encoding/binary"

// MissingLength is the sentinel that marks an absent key in a tape's
// length header, distinct from a present zero-length value. It is the
// all-ones 32-bit pattern.
const MissingLength uint32 = 0xFFFFFFFF

// lengthWidth is the fixed width, in bytes, of one tape length entry.
const lengthWidth = 4

// TapeWriter packs a batch of N results into an Arena using the layout:
//
//	[ len[0] len[1] ... len[N-1] | value_bytes_concatenated ]
//
// Lengths are written first (so the header size is known up front), then
// value bytes are appended as each task is visited. A missing value is
// recorded as MissingLength and contributes no bytes to the value region.
type TapeWriter struct {
	a       *Arena
	lenOff  int
	n       int
	written int
}

// NewTapeWriter resets a and reserves its length header for n tasks.
func NewTapeWriter(a *Arena, n int) *TapeWriter {
	a.Reset()
	lenOff := a.Len()
	a.Alloc(n * lengthWidth)
	return &TapeWriter{a: a, lenOff: lenOff, n: n}
}

// PutMissing records task i as absent.
func (w *TapeWriter) PutMissing(i int) {
	w.putLength(i, MissingLength)
}

// PutValue records task i's value bytes, appending them to the value
// region and filling in its length entry. An empty, non-nil value is
// length 0, distinct from PutMissing.
func (w *TapeWriter) PutValue(i int, v []byte) []byte {
	w.putLength(i, uint32(len(v)))
	if len(v) == 0 {
		// Still materialize a non-nil, zero-length slice so callers can
		// distinguish "present, empty" from "absent" without consulting
		// the length header.
		return w.a.Alloc(0)
	}
	return w.a.Append(v)
}

// PutLengthOnly records task i's length without appending any bytes to
// the value region, for metadata-only reads that want lengths but not
// the underlying bytes. Tape.Value is not meaningful for a tape built
// with any PutLengthOnly calls; only Lengths should be consulted.
func (w *TapeWriter) PutLengthOnly(i int, length uint32) {
	w.putLength(i, length)
}

func (w *TapeWriter) putLength(i int, l uint32) {
	binary.LittleEndian.PutUint32(w.a.buf[w.lenOff+i*lengthWidth:], l)
	w.written++
}

// Tape is a read view over a completed tape, as returned from the Arena
// after a batch call.
type Tape struct {
	Lengths []uint32
	Values  []byte
}

// ReadTape parses a tape of n entries out of raw (the Arena's Bytes()).
func ReadTape(raw []byte, n int) Tape {
	lengths := make([]uint32, n)
	for i := 0; i < n; i++ {
		lengths[i] = binary.LittleEndian.Uint32(raw[i*lengthWidth:])
	}
	return Tape{Lengths: lengths, Values: raw[n*lengthWidth:]}
}

// Value returns the bytes for task i, and whether it was present.
// Offsets are reconstructed by summing the lengths of all present tasks
// before i; the tape carries no separate offset table.
func (t Tape) Value(i int) (value []byte, present bool) {
	l := t.Lengths[i]
	if l == MissingLength {
		return nil, false
	}
	var off int
	for j := 0; j < i; j++ {
		if t.Lengths[j] != MissingLength {
			off += int(t.Lengths[j])
		}
	}
	return t.Values[off : off+int(l)], true
}
