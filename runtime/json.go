package csi

import "encoding/json"

type jsonParam struct {
	Value *int   `json:"value"` // null when unset
	Sub   []*int `json:"sub,omitempty"`
}

type jsonParams struct {
	Command string      `json:"command"`
	Params  []jsonParam `json:"params"`
}

// MarshalJSON encodes p as an object with the command in String form and
// one entry per parameter slot. Unset values are null.
func (p *Params) MarshalJSON() ([]byte, error) {
	out := jsonParams{
		Command: p.cmd.String(),
		Params:  make([]jsonParam, p.count),
	}
	for i := range out.Params {
		out.Params[i].Value = jsonValue(p.Param(i))
		if hi := p.maxSubIndex(i); hi >= 0 {
			out.Params[i].Sub = make([]*int, hi+1)
			for pos := range out.Params[i].Sub {
				out.Params[i].Sub[pos] = jsonValue(p.Subparameter(i, pos))
			}
		}
	}
	return json.Marshal(out)
}

func jsonValue(v int) *int {
	if v == Unset {
		return nil
	}
	return &v
}
