package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/ndstats/internal/conv"
	"github.com/hupe1980/ndstats/internal/hash"
	"github.com/hupe1980/ndstats/ndarray"
	"github.com/hupe1980/ndstats/order"
)

var (
	// ErrInvalidFrame is returned for malformed or corrupted frames.
	ErrInvalidFrame = errors.New("invalid array frame")

	// ErrDTypeMismatch is returned when a frame holds a different element
	// type than requested.
	ErrDTypeMismatch = errors.New("dtype mismatch")
)

const (
	magic = "NDS1"

	// MaxDims bounds the number of dimensions accepted by Decode.
	MaxDims = 32

	payloadChunk = 64 << 10
)

type options struct {
	compression Compression
	maxBytes    int
}

// Option configures Encode and Decode.
type Option func(*options)

// WithCompression selects the payload compression used by Encode.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithMaxBytes makes Decode reject frames whose raw payload exceeds n bytes.
// Zero means unlimited.
func WithMaxBytes(n int) Option {
	return func(o *options) {
		o.maxBytes = n
	}
}

func applyOptions(optFns []Option) options {
	var o options
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// Encode writes a as a single frame to w.
func Encode[T order.Number](w io.Writer, a *ndarray.Array[T], opts ...Option) error {
	o := applyOptions(opts)
	if !o.compression.valid() {
		return fmt.Errorf("%w: unknown compression %s", ErrInvalidFrame, o.compression)
	}

	d := DTypeOf[T]()
	raw := appendElems(make([]byte, 0, a.Size()*d.Size()), a.Data(), d)

	stored, err := compress(raw, o.compression)
	if err != nil {
		return err
	}

	hdr := make([]byte, 0, 6+(a.Ndim()+2)*binary.MaxVarintLen64)
	hdr = append(hdr, magic...)
	hdr = append(hdr, byte(d), byte(o.compression))
	fields := append([]int{a.Ndim()}, a.Shape()...)
	fields = append(fields, len(raw), len(stored))
	for _, n := range fields {
		v, err := conv.IntToUint64(n)
		if err != nil {
			return err
		}
		hdr = binary.AppendUvarint(hdr, v)
	}

	if _, err := w.Write(hdr); err != nil {
		return err
	}
	payload := raw
	if stored != nil {
		payload = stored
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, hash.Sum(raw))
}

// Decode reads one frame from r. Decode may read past the end of the frame
// unless r implements io.ByteReader.
func Decode[T order.Number](r io.Reader, opts ...Option) (*ndarray.Array[T], error) {
	o := applyOptions(opts)

	br, ok := r.(interface {
		io.Reader
		io.ByteReader
	})
	if !ok {
		br = bufio.NewReader(r)
	}

	var m [4]byte
	if _, err := io.ReadFull(br, m[:]); err != nil {
		return nil, frameErr("magic", err)
	}
	if string(m[:]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidFrame, m[:])
	}

	var tags [2]byte
	if _, err := io.ReadFull(br, tags[:]); err != nil {
		return nil, frameErr("tags", err)
	}
	d, c := DType(tags[0]), Compression(tags[1])
	if !d.valid() {
		return nil, fmt.Errorf("%w: unknown dtype %d", ErrInvalidFrame, tags[0])
	}
	if !c.valid() {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidFrame, tags[1])
	}
	if want := DTypeOf[T](); d != want {
		return nil, fmt.Errorf("%w: frame holds %s, want %s", ErrDTypeMismatch, d, want)
	}

	ndim, err := readInt(br, "ndim")
	if err != nil {
		return nil, err
	}
	if ndim > MaxDims {
		return nil, fmt.Errorf("%w: %d dimensions exceed %d", ErrInvalidFrame, ndim, MaxDims)
	}
	shape := make([]int, ndim)
	for i := range shape {
		if shape[i], err = readInt(br, "shape"); err != nil {
			return nil, err
		}
	}

	size, err := conv.Product(shape)
	if err != nil {
		return nil, fmt.Errorf("%w: shape %v: %w", ErrInvalidFrame, shape, err)
	}
	wantRaw, err := conv.MulInt(size, d.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: shape %v: %w", ErrInvalidFrame, shape, err)
	}

	rawLen, err := readInt(br, "raw length")
	if err != nil {
		return nil, err
	}
	if rawLen != wantRaw {
		return nil, fmt.Errorf("%w: raw length %d, shape %v needs %d", ErrInvalidFrame, rawLen, shape, wantRaw)
	}
	if o.maxBytes > 0 && rawLen > o.maxBytes {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds limit %d", ErrInvalidFrame, rawLen, o.maxBytes)
	}
	storedLen, err := readInt(br, "stored length")
	if err != nil {
		return nil, err
	}
	if storedLen > rawLen {
		return nil, fmt.Errorf("%w: stored length %d exceeds raw length %d", ErrInvalidFrame, storedLen, rawLen)
	}

	h := hash.New()
	var raw []byte
	if storedLen == 0 {
		if raw, err = readPayload(io.TeeReader(br, h), rawLen); err != nil {
			return nil, err
		}
	} else {
		stored, err := readPayload(br, storedLen)
		if err != nil {
			return nil, err
		}
		if raw, err = decompress(stored, rawLen, c); err != nil {
			return nil, err
		}
		_, _ = h.Write(raw)
	}

	var sum uint32
	if err := binary.Read(br, binary.LittleEndian, &sum); err != nil {
		return nil, frameErr("checksum", err)
	}
	if got := h.Sum32(); got != sum {
		return nil, fmt.Errorf("%w: checksum %08x, want %08x", ErrInvalidFrame, got, sum)
	}

	out := ndarray.Zeros[T](shape...)
	readElems(out.Data(), raw, d)
	return out, nil
}

// Marshal encodes a into a new byte slice.
func Marshal[T order.Number](a *ndarray.Array[T], opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, a, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a frame and rejects trailing bytes.
func Unmarshal[T order.Number](data []byte, opts ...Option) (*ndarray.Array[T], error) {
	r := bytes.NewReader(data)
	a, err := Decode[T](r, opts...)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidFrame, r.Len())
	}
	return a, nil
}

// readPayload reads exactly n bytes. The buffer grows with the bytes that
// actually arrive, so a forged length in the header cannot force a large
// allocation up front.
func readPayload(r io.Reader, n int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(min(n, payloadChunk))
	if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
		return nil, frameErr("payload", err)
	}
	return buf.Bytes(), nil
}

func readInt(r io.ByteReader, field string) (int, error) {
	v, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, frameErr(field, err)
	}
	n, err := conv.Uint64ToInt(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidFrame, field, err)
	}
	return n, nil
}

func frameErr(field string, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: reading %s: %w", ErrInvalidFrame, field, err)
}
