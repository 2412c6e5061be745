package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"github.com/hupe1980/ndstats/order"
)

// DType identifies the element type stored in a frame.
type DType uint8

// Wire element types. Platform-sized integers travel as their 64-bit form.
const (
	Int8 DType = iota + 1
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
)

var dtypeNames = [...]string{
	Int8: "int8", Int16: "int16", Int32: "int32", Int64: "int64",
	Uint8: "uint8", Uint16: "uint16", Uint32: "uint32", Uint64: "uint64",
	Float32: "float32", Float64: "float64",
}

func (d DType) String() string {
	if d.valid() {
		return dtypeNames[d]
	}
	return fmt.Sprintf("DType(%d)", uint8(d))
}

func (d DType) valid() bool { return d >= Int8 && d <= Float64 }

// Size returns the encoded size of one element in bytes.
func (d DType) Size() int {
	switch d {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// DTypeOf returns the wire type for T, resolved from its underlying kind.
func DTypeOf[T order.Number]() DType {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Int8:
		return Int8
	case reflect.Int16:
		return Int16
	case reflect.Int32:
		return Int32
	case reflect.Int, reflect.Int64:
		return Int64
	case reflect.Uint8:
		return Uint8
	case reflect.Uint16:
		return Uint16
	case reflect.Uint32:
		return Uint32
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return Uint64
	case reflect.Float32:
		return Float32
	default:
		return Float64
	}
}

func appendElems[T order.Number](dst []byte, data []T, d DType) []byte {
	le := binary.LittleEndian
	switch d {
	case Int8:
		for _, v := range data {
			dst = append(dst, byte(int8(v)))
		}
	case Uint8:
		for _, v := range data {
			dst = append(dst, uint8(v))
		}
	case Int16:
		for _, v := range data {
			dst = le.AppendUint16(dst, uint16(int16(v)))
		}
	case Uint16:
		for _, v := range data {
			dst = le.AppendUint16(dst, uint16(v))
		}
	case Int32:
		for _, v := range data {
			dst = le.AppendUint32(dst, uint32(int32(v)))
		}
	case Uint32:
		for _, v := range data {
			dst = le.AppendUint32(dst, uint32(v))
		}
	case Int64:
		for _, v := range data {
			dst = le.AppendUint64(dst, uint64(int64(v)))
		}
	case Uint64:
		for _, v := range data {
			dst = le.AppendUint64(dst, uint64(v))
		}
	case Float32:
		for _, v := range data {
			dst = le.AppendUint32(dst, math.Float32bits(float32(v)))
		}
	case Float64:
		for _, v := range data {
			dst = le.AppendUint64(dst, math.Float64bits(float64(v)))
		}
	}
	return dst
}

// readElems fills dst from raw, which must hold len(dst)*d.Size() bytes.
func readElems[T order.Number](dst []T, raw []byte, d DType) {
	le := binary.LittleEndian
	switch d {
	case Int8:
		for i := range dst {
			dst[i] = T(int8(raw[i]))
		}
	case Uint8:
		for i := range dst {
			dst[i] = T(raw[i])
		}
	case Int16:
		for i := range dst {
			dst[i] = T(int16(le.Uint16(raw[2*i:])))
		}
	case Uint16:
		for i := range dst {
			dst[i] = T(le.Uint16(raw[2*i:]))
		}
	case Int32:
		for i := range dst {
			dst[i] = T(int32(le.Uint32(raw[4*i:])))
		}
	case Uint32:
		for i := range dst {
			dst[i] = T(le.Uint32(raw[4*i:]))
		}
	case Int64:
		for i := range dst {
			dst[i] = T(int64(le.Uint64(raw[8*i:])))
		}
	case Uint64:
		for i := range dst {
			dst[i] = T(le.Uint64(raw[8*i:]))
		}
	case Float32:
		for i := range dst {
			dst[i] = T(math.Float32frombits(le.Uint32(raw[4*i:])))
		}
	case Float64:
		for i := range dst {
			dst[i] = T(math.Float64frombits(le.Uint64(raw[8*i:])))
		}
	}
}
