// Package endian provides the byte order engines used by canz containers.
//
// The block codec wire format is always big-endian. Trace containers record their own
// header byte order in a flag bit and resolve it to an EndianEngine when reading:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, sampleCount)
//
// All functions in this package are safe for concurrent use. The returned engines are
// immutable and stateless.
package endian

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary so a single
// value serves both fixed-offset writes and appends.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsBigEndian reports whether engine writes the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	return engine == GetBigEndianEngine()
}

// ParseEngine resolves a configuration name ("little", "big") to an engine.
func ParseEngine(name string) (EndianEngine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "little", "le", "little-endian":
		return GetLittleEndianEngine(), nil
	case "big", "be", "big-endian":
		return GetBigEndianEngine(), nil
	default:
		return nil, fmt.Errorf("unknown byte order %q", name)
	}
}
