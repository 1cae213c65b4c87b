package csi

import (
	"encoding/binary"
	"math"
)

// CBOR major types
const (
	majorTypeUint   = 0 // unsigned integer
	majorTypeArray  = 4 // array
	majorTypeSimple = 7 // float, simple values, break
)

// Additional info values (5 bits)
const (
	addInfoDirect = 23 // max direct value
	addInfoUint8  = 24 // 1-byte uint8 follows
	addInfoUint16 = 25 // 2-byte uint16 follows
	addInfoUint32 = 26 // 4-byte uint32 follows
	addInfoUint64 = 27 // 8-byte uint64 follows

	simpleNull = 22
)

// paramsFields is the number of top-level items in an encoded Params:
// command, parameters, sub-parameters.
const paramsFields = 3

var be = binary.BigEndian

var (
	_ Marshaler   = (*Params)(nil)
	_ Unmarshaler = (*Params)(nil)
)

// makeByte creates a CBOR initial byte from major type and additional info
func makeByte(majorType, addInfo uint8) byte {
	return byte((majorType << 5) | addInfo)
}

// getMajorType extracts the major type from a CBOR initial byte
func getMajorType(b byte) uint8 {
	return (b >> 5) & 0x07
}

// ensure 'sz' extra bytes in 'b' btw len(b) and cap(b)
func ensure(b []byte, sz int) ([]byte, int) {
	l := len(b)
	c := cap(b)
	if c-l < sz {
		o := make([]byte, (2*c)+sz) // exponential growth
		n := copy(o, b)
		return o[:n+sz], n
	}
	return b[:l+sz], l
}

// appendUintCore encodes an unsigned integer with the given major type
func appendUintCore(b []byte, majorType uint8, u uint64) []byte {
	switch {
	case u <= addInfoDirect:
		return append(b, makeByte(majorType, uint8(u)))
	case u <= math.MaxUint8:
		o, n := ensure(b, 2)
		o[n] = makeByte(majorType, addInfoUint8)
		o[n+1] = uint8(u)
		return o
	case u <= math.MaxUint16:
		o, n := ensure(b, 3)
		o[n] = makeByte(majorType, addInfoUint16)
		be.PutUint16(o[n+1:], uint16(u))
		return o
	case u <= math.MaxUint32:
		o, n := ensure(b, 5)
		o[n] = makeByte(majorType, addInfoUint32)
		be.PutUint32(o[n+1:], uint32(u))
		return o
	default:
		o, n := ensure(b, 9)
		o[n] = makeByte(majorType, addInfoUint64)
		be.PutUint64(o[n+1:], u)
		return o
	}
}

func appendArrayHeader(b []byte, sz int) []byte {
	return appendUintCore(b, majorTypeArray, uint64(sz))
}

// appendValue appends a parameter value, or null for Unset.
func appendValue(b []byte, v int32) []byte {
	if v < 0 {
		return append(b, makeByte(majorTypeSimple, simpleNull))
	}
	return appendUintCore(b, majorTypeUint, uint64(v))
}

// readUintCore reads an unsigned integer with the given expected major type
func readUintCore(b []byte, expectedMajor uint8, want string) (uint64, []byte, error) {
	if len(b) < 1 {
		return 0, b, ErrShortBytes
	}
	if getMajorType(b[0]) != expectedMajor {
		return 0, b, TypeError{Want: want, Got: b[0]}
	}

	switch addInfo := b[0] & 0x1f; {
	case addInfo <= addInfoDirect:
		return uint64(addInfo), b[1:], nil
	case addInfo == addInfoUint8:
		if len(b) < 2 {
			return 0, b, ErrShortBytes
		}
		return uint64(b[1]), b[2:], nil
	case addInfo == addInfoUint16:
		if len(b) < 3 {
			return 0, b, ErrShortBytes
		}
		return uint64(be.Uint16(b[1:])), b[3:], nil
	case addInfo == addInfoUint32:
		if len(b) < 5 {
			return 0, b, ErrShortBytes
		}
		return uint64(be.Uint32(b[1:])), b[5:], nil
	case addInfo == addInfoUint64:
		if len(b) < 9 {
			return 0, b, ErrShortBytes
		}
		return be.Uint64(b[1:]), b[9:], nil
	default:
		// indefinite lengths are not produced by MarshalCBOR
		return 0, b, TypeError{Want: want, Got: b[0]}
	}
}

func readArrayHeader(b []byte) (int, []byte, error) {
	sz, o, err := readUintCore(b, majorTypeArray, "array")
	if err != nil {
		return 0, b, err
	}
	if sz > math.MaxInt32 {
		return 0, b, ErrMalformed
	}
	return int(sz), o, nil
}

// readValue reads a parameter value or null.
func readValue(b []byte) (int, []byte, error) {
	if len(b) > 0 && b[0] == makeByte(majorTypeSimple, simpleNull) {
		return Unset, b[1:], nil
	}
	u, o, err := readUintCore(b, majorTypeUint, "uint or null")
	if err != nil {
		return 0, b, err
	}
	if u > MaxParamValue {
		return 0, b, ErrMalformed
	}
	return int(u), o, nil
}

func readIndex(b []byte, limit int) (int, []byte, error) {
	u, o, err := readUintCore(b, majorTypeUint, "uint")
	if err != nil {
		return 0, b, err
	}
	if u >= uint64(limit) {
		return 0, b, ErrMalformed
	}
	return int(u), o, nil
}

// MarshalCBOR appends the CBOR encoding of p to b:
//
//	[command, [param|null, ...], [[param index, position, value|null], ...]]
func (p *Params) MarshalCBOR(b []byte) ([]byte, error) {
	b = appendArrayHeader(b, paramsFields)
	b = appendUintCore(b, majorTypeUint, uint64(p.cmd))
	b = appendArrayHeader(b, int(p.count))
	for i := 0; i < int(p.count); i++ {
		b = appendValue(b, int32(p.Param(i)))
	}
	b = appendArrayHeader(b, int(p.nsub))
	for _, s := range p.sub[:p.nsub] {
		b = appendArrayHeader(b, 3)
		b = appendUintCore(b, majorTypeUint, uint64(s.param))
		b = appendUintCore(b, majorTypeUint, uint64(s.index))
		b = appendValue(b, s.value)
	}
	return b, nil
}

// UnmarshalCBOR decodes p from the front of b and returns the remaining
// bytes. On error p is left empty and b is returned unchanged.
func (p *Params) UnmarshalCBOR(b []byte) ([]byte, error) {
	o, err := p.unmarshalCBOR(b)
	if err != nil {
		p.Reset()
		return b, err
	}
	return o, nil
}

func (p *Params) unmarshalCBOR(b []byte) ([]byte, error) {
	p.Reset()
	sz, b, err := readArrayHeader(b)
	if err != nil {
		return b, err
	}
	if sz != paramsFields {
		return b, ErrMalformed
	}

	cmd, b, err := readUintCore(b, majorTypeUint, "uint")
	if err != nil {
		return b, err
	}
	if cmd > 0xffffff {
		return b, ErrMalformed
	}
	p.cmd = Command(cmd)

	if sz, b, err = readArrayHeader(b); err != nil {
		return b, err
	}
	if sz > MaxParams {
		return b, ErrCapacity
	}
	for range sz {
		var v int
		if v, b, err = readValue(b); err != nil {
			return b, err
		}
		p.AddParameter(v)
	}

	if sz, b, err = readArrayHeader(b); err != nil {
		return b, err
	}
	if sz > MaxSubparams {
		return b, ErrCapacity
	}
	for range sz {
		var n, i, pos, v int
		if n, b, err = readArrayHeader(b); err != nil {
			return b, err
		}
		if n != 3 {
			return b, ErrMalformed
		}
		if i, b, err = readIndex(b, p.Count()); err != nil {
			return b, err
		}
		if pos, b, err = readIndex(b, MaxSubparams); err != nil {
			return b, err
		}
		if v, b, err = readValue(b); err != nil {
			return b, err
		}
		if pos != p.SubparameterCount(i) {
			return b, ErrMalformed
		}
		p.AddSubparameter(i, v)
	}
	return b, nil
}
