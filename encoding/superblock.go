package encoding

import (
	"fmt"

	"github.com/arloliu/canz/errs"
)

const (
	// GroupSamples is the number of samples sharing one width.
	GroupSamples = 4
	// SuperblockGroups is the number of groups sharing one index entry and one family.
	SuperblockGroups = 5
	// SuperblockSamples is the number of samples described by one index entry.
	SuperblockSamples = GroupSamples * SuperblockGroups
	// IndexEntrySize is the size in bytes of a superblock index entry.
	IndexEntrySize = 2

	familyBFlag   = 0x80
	selectorBits  = 3
	selectorMask  = 0x7
	selectorCount = SuperblockGroups
)

// Family identifies the subset of the width catalogue used by every group of a superblock.
type Family uint8

const (
	// FamilyA holds the step-2 widths 4, 6, ..., 18.
	FamilyA Family = iota
	// FamilyB holds the step-4 widths 4, 8, ..., 32.
	FamilyB
)

func (f Family) String() string {
	switch f {
	case FamilyA:
		return "A"
	case FamilyB:
		return "B"
	default:
		return "Unknown"
	}
}

// step returns the width increment between consecutive selectors.
func (f Family) step() int {
	if f == FamilyB {
		return 4
	}

	return 2
}

// Contains reports whether w is a member of the family.
func (f Family) Contains(w Width) bool {
	info := w.info()
	if f == FamilyB {
		return info.inB
	}

	return info.inA
}

// ResolveFamily picks the family for five group widths and promotes widths where needed
// so that all of them belong to it.
//
// When every width is at most 18 the superblock stays in family A unchanged. Otherwise
// the odd-step widths 6, 10, 14 and 18 are rounded up by 2 into family B.
func ResolveFamily(widths [SuperblockGroups]Width) (Family, [SuperblockGroups]Width, error) {
	family := FamilyA
	for _, w := range widths {
		if !w.IsValid() {
			return FamilyA, widths, fmt.Errorf("%w: %d", errs.ErrCorrupted, w)
		}
		if w > Width18 {
			family = FamilyB
		}
	}

	if family == FamilyA {
		return family, widths, nil
	}

	resolved := widths
	for i, w := range resolved {
		resolved[i] = w.info().promote
	}

	return family, resolved, nil
}

// EncodeIndex resolves the family of a superblock and builds its 2-byte index entry.
//
// The entry holds five 3-bit selectors k0..k4, k0 in bits 14-12 of the 15-bit value and
// k4 in bits 2-0. The first byte carries bits 14-8 with bit 7 set for family B; the
// second byte carries bits 7-0.
//
// Returns the index bytes and the widths after promotion, which are the widths the
// payload groups must be packed with.
func EncodeIndex(widths [SuperblockGroups]Width) ([IndexEntrySize]byte, [SuperblockGroups]Width, error) {
	family, resolved, err := ResolveFamily(widths)
	if err != nil {
		return [IndexEntrySize]byte{}, resolved, err
	}

	step := family.step()

	var packed uint16
	for _, w := range resolved {
		if !family.Contains(w) {
			return [IndexEntrySize]byte{}, resolved, fmt.Errorf("%w: width %d not in family %s", errs.ErrCorrupted, w, family)
		}
		k := (int(w) - 4) / step
		packed = packed<<selectorBits | uint16(k) //nolint:gosec
	}

	b0 := byte(packed >> 8)
	if family == FamilyB {
		b0 |= familyBFlag
	}

	return [IndexEntrySize]byte{b0, byte(packed)}, resolved, nil
}

// DecodeIndex parses a 2-byte superblock index entry into its family and five widths.
//
// Every 3-bit selector maps to a catalogue member in either family, so decoding cannot fail.
func DecodeIndex(b0, b1 byte) (Family, [SuperblockGroups]Width) {
	family := FamilyA
	if b0&familyBFlag != 0 {
		family = FamilyB
	}

	packed := uint16(b0&^familyBFlag)<<8 | uint16(b1)
	step := family.step()

	var widths [SuperblockGroups]Width
	for i := selectorCount - 1; i >= 0; i-- {
		k := int(packed & selectorMask)
		widths[i] = Width(4 + k*step) //nolint:gosec
		packed >>= selectorBits
	}

	return family, widths
}
