// Package hash provides the CRC32-Castagnoli checksum protecting array frame
// payloads. Go's crc32 package uses SSE4.2 or the ARM CRC extension when
// available.
package hash
