package hash

import "github.com/cespare/xxhash/v2"

// ChecksumSize is the size in bytes of a container checksum.
const ChecksumSize = 8

// Checksum computes the xxHash64 of the concatenation of parts.
func Checksum(parts ...[]byte) uint64 {
	if len(parts) == 1 {
		return xxhash.Sum64(parts[0])
	}

	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.Write(p)
	}

	return d.Sum64()
}
