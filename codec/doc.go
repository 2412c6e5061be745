// Package codec persists ndarray arrays.
//
// The binary frame is self-describing:
//
//	magic     "NDS1"
//	dtype     1 byte
//	compress  1 byte
//	ndim      uvarint
//	shape     ndim x uvarint
//	rawLen    uvarint   payload bytes before compression
//	storedLen uvarint   0 when the payload is stored raw
//	payload   little-endian elements, possibly compressed
//	checksum  uint32 CRC32-C of the raw payload
//
// int, uint and uintptr elements are widened to 64 bits on the wire so frames
// are portable across platforms. A compressed payload that saves less than a
// tenth of its size is stored raw.
//
// Decoding validates every header field before allocating, so frames from
// untrusted sources cannot trigger oversized allocations.
//
// Arrays without NaN or Inf elements also round-trip through JSON.
package codec
