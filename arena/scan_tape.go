package arena

import "encoding/binary"

const keyWidth = 8

// ScanTapeWriter packs scan results — keys, and optionally their value
// lengths, one (key, length) pair at a time. BatchScan writes every
// task's keys into one writer in task order; the tape holds no task
// boundaries, so the per-task counts are needed to split it. Unlike
// TapeWriter, the key count isn't
// known ahead of the header write, so the count is implied by how many
// PutKey calls happened rather than fixed up front.
type ScanTapeWriter struct {
	a          *Arena
	withLens   bool
	keyCount   int
	keysOff    int
	lensStart  int
}

// NewScanTapeWriter resets a and begins a scan result. withLengths
// controls whether per-key value lengths are packed after the keys.
func NewScanTapeWriter(a *Arena, withLengths bool) *ScanTapeWriter {
	a.Reset()
	return &ScanTapeWriter{a: a, withLens: withLengths, keysOff: 0}
}

// PutKey appends one ascending key (and, if lengths are enabled, its
// value's length) to the tape.
func (w *ScanTapeWriter) PutKey(key int64, length uint32) {
	b := w.a.Alloc(keyWidth)
	binary.LittleEndian.PutUint64(b, uint64(key))
	w.keyCount++
	if w.withLens {
		lb := w.a.Alloc(lengthWidth)
		binary.LittleEndian.PutUint32(lb, length)
	}
}

// Count returns how many keys have been written so far.
func (w *ScanTapeWriter) Count() int { return w.keyCount }

// ScanTape is a read view over a completed scan result.
type ScanTape struct {
	Keys    []int64
	Lengths []uint32 // nil if lengths weren't requested
}

// ReadScanTape parses n (key[, length]) pairs out of raw.
func ReadScanTape(raw []byte, n int, withLengths bool) ScanTape {
	stride := keyWidth
	if withLengths {
		stride += lengthWidth
	}
	keys := make([]int64, n)
	var lens []uint32
	if withLengths {
		lens = make([]uint32, n)
	}
	for i := 0; i < n; i++ {
		off := i * stride
		keys[i] = int64(binary.LittleEndian.Uint64(raw[off:]))
		if withLengths {
			lens[i] = binary.LittleEndian.Uint32(raw[off+keyWidth:])
		}
	}
	return ScanTape{Keys: keys, Lengths: lens}
}
