package encoding

import (
	"fmt"

	"github.com/arloliu/canz/errs"
)

// MaxGroupBytes is the packed size of a group at the widest catalogue width.
const MaxGroupBytes = 16

// PackGroup writes the 4 values of a group into dst using w bits per value.
//
// Values are truncated to w bits in two's complement and laid out MSB-first with no
// padding, value 0 in the highest-order bits. Exactly w/2 bytes of dst are written.
// Packing a value that does not fit in w signed bits silently drops its high bits; the
// width selection step guarantees this never happens.
//
// Parameters:
//   - dst: destination slice, at least w.GroupBytes() bytes long
//   - group: the 4 values to pack
//   - w: bit width, must be a catalogue member
//
// Returns:
//   - error: errs.ErrCorrupted if w is not a catalogue member, errs.ErrBufferExceeded if dst is too short
func PackGroup(dst []byte, group [GroupSamples]int32, w Width) error {
	if !w.IsValid() {
		return fmt.Errorf("%w: pack width %d", errs.ErrCorrupted, w)
	}

	n := w.GroupBytes()
	if len(dst) < n {
		return errs.ErrBufferExceeded
	}

	bits := uint(w)
	mask := uint64(1)<<bits - 1

	// acc never holds more than 7 pending bits plus one 32-bit value.
	var acc uint64
	var pending uint
	pos := 0
	for _, v := range group {
		acc = acc<<bits | uint64(uint32(v))&mask //nolint:gosec
		pending += bits
		for pending >= 8 {
			pending -= 8
			dst[pos] = byte(acc >> pending)
			pos++
		}
	}

	return nil
}

// UnpackGroup reads 4 values stored at w bits each from src and sign-extends them to 32 bits.
//
// It is the exact inverse of PackGroup and consumes w/2 bytes of src.
//
// Returns:
//   - [4]int32: the decoded values
//   - error: errs.ErrCorrupted if w is not a catalogue member, errs.ErrBufferExceeded if src is too short
func UnpackGroup(src []byte, w Width) ([GroupSamples]int32, error) {
	var group [GroupSamples]int32
	if !w.IsValid() {
		return group, fmt.Errorf("%w: unpack width %d", errs.ErrCorrupted, w)
	}

	n := w.GroupBytes()
	if len(src) < n {
		return group, errs.ErrBufferExceeded
	}

	bits := uint(w)
	mask := uint64(1)<<bits - 1
	shift := 32 - bits

	var acc uint64
	var avail uint
	pos := 0
	for i := range group {
		for avail < bits {
			acc = acc<<8 | uint64(src[pos])
			pos++
			avail += 8
		}
		avail -= bits
		field := uint32((acc >> avail) & mask) //nolint:gosec
		// Shift the field's sign bit into bit 31, then arithmetic shift back down.
		group[i] = int32(field<<shift) >> shift //nolint:gosec
	}

	return group, nil
}
