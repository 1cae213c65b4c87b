package csi

import "github.com/tinylib/msgp/msgp"

var (
	_ msgp.Marshaler   = (*Params)(nil)
	_ msgp.Unmarshaler = (*Params)(nil)
	_ msgp.Sizer       = (*Params)(nil)
)

// MarshalMsg appends the MessagePack encoding of p to b. The layout
// mirrors MarshalCBOR.
func (p *Params) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.Require(b, p.Msgsize())
	o = msgp.AppendArrayHeader(o, paramsFields)
	o = msgp.AppendUint32(o, uint32(p.cmd))
	o = msgp.AppendArrayHeader(o, uint32(p.count))
	for i := 0; i < int(p.count); i++ {
		o = appendMsgValue(o, int32(p.Param(i)))
	}
	o = msgp.AppendArrayHeader(o, uint32(p.nsub))
	for _, s := range p.sub[:p.nsub] {
		o = msgp.AppendArrayHeader(o, 3)
		o = msgp.AppendInt32(o, s.param)
		o = msgp.AppendInt32(o, s.index)
		o = appendMsgValue(o, s.value)
	}
	return o, nil
}

func appendMsgValue(b []byte, v int32) []byte {
	if v < 0 {
		return msgp.AppendNil(b)
	}
	return msgp.AppendInt32(b, v)
}

// UnmarshalMsg decodes p from the front of b and returns the remaining
// bytes. On error p is left empty.
func (p *Params) UnmarshalMsg(b []byte) ([]byte, error) {
	o, err := p.unmarshalMsg(b)
	if err != nil {
		p.Reset()
		return b, err
	}
	return o, nil
}

func (p *Params) unmarshalMsg(b []byte) ([]byte, error) {
	p.Reset()
	sz, b, err := msgp.ReadArrayHeaderBytes(b)
	if err != nil {
		return b, err
	}
	if sz != paramsFields {
		return b, msgp.ArrayError{Wanted: paramsFields, Got: sz}
	}

	cmd, b, err := msgp.ReadUint32Bytes(b)
	if err != nil {
		return b, msgp.WrapError(err, "Command")
	}
	if cmd > 0xffffff {
		return b, ErrMalformed
	}
	p.cmd = Command(cmd)

	if sz, b, err = msgp.ReadArrayHeaderBytes(b); err != nil {
		return b, msgp.WrapError(err, "Params")
	}
	if sz > MaxParams {
		return b, ErrCapacity
	}
	for i := range int(sz) {
		var v int
		if v, b, err = readMsgValue(b); err != nil {
			return b, msgp.WrapError(err, "Params", i)
		}
		p.AddParameter(v)
	}

	if sz, b, err = msgp.ReadArrayHeaderBytes(b); err != nil {
		return b, msgp.WrapError(err, "Subparams")
	}
	if sz > MaxSubparams {
		return b, ErrCapacity
	}
	for j := range int(sz) {
		var (
			n      uint32
			i, pos int32
			v      int
		)
		if n, b, err = msgp.ReadArrayHeaderBytes(b); err != nil {
			return b, msgp.WrapError(err, "Subparams", j)
		}
		if n != 3 {
			return b, msgp.WrapError(msgp.ArrayError{Wanted: 3, Got: n}, "Subparams", j)
		}
		if i, b, err = msgp.ReadInt32Bytes(b); err != nil {
			return b, msgp.WrapError(err, "Subparams", j)
		}
		if pos, b, err = msgp.ReadInt32Bytes(b); err != nil {
			return b, msgp.WrapError(err, "Subparams", j)
		}
		if v, b, err = readMsgValue(b); err != nil {
			return b, msgp.WrapError(err, "Subparams", j)
		}
		if i < 0 || int(i) >= p.Count() || int(pos) != p.SubparameterCount(int(i)) {
			return b, ErrMalformed
		}
		p.AddSubparameter(int(i), v)
	}
	return b, nil
}

func readMsgValue(b []byte) (int, []byte, error) {
	if msgp.IsNil(b) {
		o, err := msgp.ReadNilBytes(b)
		return Unset, o, err
	}
	v, o, err := msgp.ReadInt32Bytes(b)
	if err != nil {
		return 0, b, err
	}
	if v < 0 {
		return 0, b, ErrMalformed
	}
	return int(v), o, nil
}

// Msgsize returns an upper bound estimate of the number of bytes
// occupied by the serialized message
func (p *Params) Msgsize() int {
	return 3*msgp.ArrayHeaderSize + msgp.Uint32Size +
		int(p.count)*msgp.Int32Size +
		int(p.nsub)*(msgp.ArrayHeaderSize+3*msgp.Int32Size)
}
