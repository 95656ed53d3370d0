// Package hash provides the xxHash64 helpers used for channel identifiers and payload checksums.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of a channel name such as "IU.ANMO.00.BHZ".
func ID(channel string) uint64 {
	return xxhash.Sum64String(channel)
}

// Checksum computes the xxHash64 of a payload.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
