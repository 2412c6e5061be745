package hash

import (
	"hash"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Sum returns the CRC32C of data. Encode stores it behind every frame payload.
func Sum(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// New returns a running CRC32C, so Decode can check an uncompressed payload
// while it is read.
func New() hash.Hash32 {
	return crc32.New(castagnoli)
}
