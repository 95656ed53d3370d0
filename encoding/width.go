package encoding

import "strconv"

// Width is the signed bit width used to store one group of 4 second-difference values.
//
// Width is a closed enumeration over the 12 catalogue entries. The zero value and any
// other value outside the catalogue are invalid and are rejected by the packer and
// unpacker with errs.ErrCorrupted.
type Width uint8

const (
	Width4  Width = 4
	Width6  Width = 6
	Width8  Width = 8
	Width10 Width = 10
	Width12 Width = 12
	Width14 Width = 14
	Width16 Width = 16
	Width18 Width = 18
	Width20 Width = 20
	Width24 Width = 24
	Width28 Width = 28
	Width32 Width = 32
)

// Catalogue lists every supported width in ascending order.
var Catalogue = [...]Width{
	Width4, Width6, Width8, Width10, Width12, Width14,
	Width16, Width18, Width20, Width24, Width28, Width32,
}

// widthInfo describes one catalogue entry.
type widthInfo struct {
	valid   bool
	inA     bool  // member of the step-2 family
	inB     bool  // member of the step-4 family
	promote Width // smallest step-4 width >= this width
}

// widthTable is indexed by the raw width value. Entries not in the catalogue are zero.
var widthTable = [33]widthInfo{
	4:  {valid: true, inA: true, inB: true, promote: Width4},
	6:  {valid: true, inA: true, promote: Width8},
	8:  {valid: true, inA: true, inB: true, promote: Width8},
	10: {valid: true, inA: true, promote: Width12},
	12: {valid: true, inA: true, inB: true, promote: Width12},
	14: {valid: true, inA: true, promote: Width16},
	16: {valid: true, inA: true, inB: true, promote: Width16},
	18: {valid: true, inA: true, promote: Width20},
	20: {valid: true, inB: true, promote: Width20},
	24: {valid: true, inB: true, promote: Width24},
	28: {valid: true, inB: true, promote: Width28},
	32: {valid: true, inB: true, promote: Width32},
}

func (w Width) info() widthInfo {
	if int(w) >= len(widthTable) {
		return widthInfo{}
	}

	return widthTable[w]
}

// IsValid reports whether w is a member of the width catalogue.
func (w Width) IsValid() bool {
	return w.info().valid
}

func (w Width) String() string {
	return strconv.Itoa(int(w)) + "-bit"
}

// Bits returns the number of bits of a single sample stored at this width.
func (w Width) Bits() int {
	return int(w)
}

// GroupBytes returns the packed size of a 4-sample group at this width, which is w/2 bytes.
func (w Width) GroupBytes() int {
	return int(w) / 2
}

// Fits reports whether v survives truncation to w bits followed by sign extension.
func (w Width) Fits(v int32) bool {
	if !w.IsValid() {
		return false
	}

	shift := 32 - uint(w)

	return (v<<shift)>>shift == v
}

// shapeThresholds maps the highest occupied bit range of a group's magnitude shape to
// the minimum sufficient width. The first matching row wins.
var shapeThresholds = [...]struct {
	mask  uint32
	width Width
}{
	{0x78000000, Width32},
	{0x07800000, Width28},
	{0x00780000, Width24},
	{0x00060000, Width20},
	{0x00018000, Width18},
	{0x00006000, Width16},
	{0x00001800, Width14},
	{0x00000600, Width12},
	{0x00000180, Width10},
	{0x00000060, Width8},
	{0x00000018, Width6},
}

// groupShape ORs the magnitude proxies of a group. Negative values are complemented so
// that the sign bit never contributes to the shape.
func groupShape(group [4]int32) uint32 {
	var shape uint32
	for _, v := range group {
		// v ^ (v >> 31) is v for non-negative values and ^v for negative ones.
		shape |= uint32(v ^ (v >> 31)) //nolint:gosec
	}

	return shape
}

// SelectWidth returns the smallest catalogue width able to represent every value of
// the group losslessly.
func SelectWidth(group [4]int32) Width {
	shape := groupShape(group)
	for _, t := range shapeThresholds {
		if shape&t.mask != 0 {
			return t.width
		}
	}

	return Width4
}
