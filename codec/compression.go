package codec

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the payload compression algorithm.
type Compression uint8

const (
	// None stores the payload as is.
	None Compression = iota
	// LZ4 favours speed.
	LZ4
	// ZSTD favours ratio.
	ZSTD
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression maps a name (case-insensitive) to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("%w: unknown compression %q", ErrInvalidFrame, s)
	}
}

func (c Compression) valid() bool { return c <= ZSTD }

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
}

// compress returns the compressed form of raw, or nil when the algorithm
// does not gain at least 10%.
func compress(raw []byte, c Compression) ([]byte, error) {
	if c == None || len(raw) == 0 {
		return nil, nil
	}

	var out []byte
	switch c {
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		out = buf[:n]
	case ZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		out = enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
	}

	if len(out) == 0 || float64(len(out)) > float64(len(raw))*0.9 {
		return nil, nil
	}
	return out, nil
}

// lz4MaxRatio bounds how far an LZ4 block can expand: a match token encodes
// at most 255 bytes per byte of length extension.
const lz4MaxRatio = 255

func decompress(stored []byte, rawLen int, c Compression) ([]byte, error) {
	switch c {
	case LZ4:
		if rawLen/lz4MaxRatio > len(stored) {
			return nil, fmt.Errorf("%w: lz4 cannot expand %d bytes to %d", ErrInvalidFrame, len(stored), rawLen)
		}
		raw := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(stored, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrInvalidFrame, err)
		}
		if n != rawLen {
			return nil, fmt.Errorf("%w: lz4 produced %d bytes, want %d", ErrInvalidFrame, n, rawLen)
		}
		return raw, nil
	case ZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer zstdDecoderPool.Put(dec)

		// Streaming instead of DecodeAll: DecodeAll sizes its output from the
		// frame's declared content size, which the payload itself controls.
		if err := dec.Reset(bytes.NewReader(stored)); err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrInvalidFrame, err)
		}
		raw, err := readPayload(dec, rawLen)
		if err != nil {
			return nil, err
		}
		var extra [1]byte
		if n, _ := dec.Read(extra[:]); n != 0 {
			return nil, fmt.Errorf("%w: zstd produced more than %d bytes", ErrInvalidFrame, rawLen)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: compressed payload with compression %s", ErrInvalidFrame, c)
	}
}
