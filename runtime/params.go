package csi

// Params accumulates the parameters of one control sequence as it is
// decoded: up to MaxParams top-level values and up to MaxSubparams
// sub-parameters shared among them.
//
// Capacity exhaustion is not an error. AddParameter and AddSubparameter
// return false and drop the value, so a pathological sequence degrades
// instead of aborting the stream.
//
// The zero value is an empty set. Params holds no pointers and is meant to
// be passed by value to whatever interprets the sequence.
type Params struct {
	p     [MaxParams]int32
	set   uint16 // bit i set when p[i] holds a value
	count uint8
	nsub  uint8
	cmd   Command
	sub   [MaxSubparams]subparam
}

type subparam struct {
	param int32 // owning parameter index
	index int32 // position among that parameter's sub-parameters
	value int32 // Unset for an elided field
}

// Reset returns p to the empty state.
func (p *Params) Reset() { *p = Params{} }

// Count returns the number of parameter slots in use, set or not.
func (p *Params) Count() int { return int(p.count) }

// NumSubparameters returns the number of sub-parameter records in use
// across all parameters.
func (p *Params) NumSubparameters() int { return int(p.nsub) }

// Command returns the packed prefix, intermediate and final bytes.
func (p *Params) Command() Command { return p.cmd }

// SetCommand records the packed prefix, intermediate and final bytes.
func (p *Params) SetCommand(c Command) { p.cmd = c }

// IsSet reports whether parameter i was supplied.
func (p *Params) IsSet(i int) bool {
	return i >= 0 && i < int(p.count) && p.set&(1<<uint(i)) != 0
}

// Param returns parameter i, or Unset if it was omitted or i is out of range.
func (p *Params) Param(i int) int {
	if !p.IsSet(i) {
		return Unset
	}
	return int(p.p[i])
}

// ParamOr returns parameter i, or def if it was omitted.
func (p *Params) ParamOr(i, def int) int {
	if !p.IsSet(i) {
		return def
	}
	return int(p.p[i])
}

// AddParameter appends v as the next parameter. A negative v appends an
// unset slot. It returns false, leaving p unchanged, when all MaxParams
// slots are taken.
func (p *Params) AddParameter(v int) bool {
	if int(p.count) >= MaxParams {
		return false
	}
	p.store(int(p.count), v)
	p.count++
	return true
}

// SetParameterIfUnset assigns v to parameter i only if i holds no value,
// and grows Count to at least i+1. Slots exposed by the growth are unset.
// It is used to apply protocol defaults to omitted parameters.
func (p *Params) SetParameterIfUnset(i, v int) {
	if i < 0 || i >= MaxParams {
		panic(&ContractError{Op: "SetParameterIfUnset", Detail: "index " + itoa(i) + " out of range"})
	}
	if !p.IsSet(i) {
		p.store(i, v)
	}
	if i+1 > int(p.count) {
		p.count = uint8(i + 1)
	}
}

func (p *Params) store(i, v int) {
	cv := clampParam(v)
	p.p[i] = cv
	if cv == Unset {
		p.set &^= 1 << uint(i)
	} else {
		p.set |= 1 << uint(i)
	}
}

// SubparameterCount returns the number of sub-parameters recorded for
// parameter i.
func (p *Params) SubparameterCount(i int) int {
	n := 0
	for j := 0; j < int(p.nsub); j++ {
		if p.sub[j].param == int32(i) {
			n++
		}
	}
	return n
}

// AddSubparameter appends v to the sub-parameters of parameter i, at the
// next free position for that parameter. A negative v records an elided
// field. It returns false, leaving p unchanged, when all MaxSubparams
// records are taken. i must be less than Count.
func (p *Params) AddSubparameter(i, v int) bool {
	if i < 0 || i >= int(p.count) {
		panic(&ContractError{Op: "AddSubparameter", Detail: "parameter " + itoa(i) + " not present"})
	}
	if int(p.nsub) >= MaxSubparams {
		return false
	}
	p.sub[p.nsub] = subparam{
		param: int32(i),
		index: int32(p.SubparameterCount(i)),
		value: clampParam(v),
	}
	p.nsub++
	return true
}

// Subparameter returns the sub-parameter at position pos of parameter i,
// or Unset if there is none.
func (p *Params) Subparameter(i, pos int) int {
	for j := 0; j < int(p.nsub); j++ {
		s := p.sub[j]
		if s.param == int32(i) && s.index == int32(pos) {
			return int(s.value)
		}
	}
	return Unset
}

// Subparameters returns the sub-parameters of parameter i in position
// order. It returns nil when there are none.
func (p *Params) Subparameters(i int) []int {
	if p.SubparameterCount(i) == 0 {
		return nil
	}
	return p.AppendSubparameters(nil, i)
}

// AppendSubparameters appends the sub-parameters of parameter i to dst in
// position order. Positions are assigned densely in insertion order, so
// record order is position order.
func (p *Params) AppendSubparameters(dst []int, i int) []int {
	for j := 0; j < int(p.nsub); j++ {
		if p.sub[j].param == int32(i) {
			dst = append(dst, int(p.sub[j].value))
		}
	}
	return dst
}

// maxSubIndex returns the highest sub-parameter position of parameter i,
// or -1.
func (p *Params) maxSubIndex(i int) int {
	hi := -1
	for j := 0; j < int(p.nsub); j++ {
		if s := p.sub[j]; s.param == int32(i) && int(s.index) > hi {
			hi = int(s.index)
		}
	}
	return hi
}
