package extract

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/jackzampolin/pdfa11y/internal/pdfdoc"
)

// objects resolves pdfcpu objects leniently: anything missing or of the
// wrong type reads as its zero value.
type objects struct {
	ctx *model.Context
}

func (o objects) deref(obj types.Object) types.Object {
	if obj == nil {
		return nil
	}
	v, err := o.ctx.Dereference(obj)
	if err != nil {
		return nil
	}
	return v
}

func (o objects) dict(obj types.Object) types.Dict {
	switch v := o.deref(obj).(type) {
	case types.Dict:
		return v
	case types.StreamDict:
		return v.Dict
	}
	return nil
}

func (o objects) array(obj types.Object) types.Array {
	if v, ok := o.deref(obj).(types.Array); ok {
		return v
	}
	return nil
}

func (o objects) name(obj types.Object) string {
	if v, ok := o.deref(obj).(types.Name); ok {
		return string(v)
	}
	return ""
}

func (o objects) text(obj types.Object) string {
	return pdfdoc.ObjectText(o.deref(obj))
}

func (o objects) number(obj types.Object) (float64, bool) {
	switch v := o.deref(obj).(type) {
	case types.Integer:
		return float64(v), true
	case types.Float:
		return float64(v), true
	}
	return 0, false
}

func (o objects) integer(obj types.Object) (int, bool) {
	f, ok := o.number(obj)
	return int(f), ok
}

// stream returns the decoded content and dictionary of a stream object.
func (o objects) stream(obj types.Object) ([]byte, types.Dict, bool) {
	sd, ok := o.deref(obj).(types.StreamDict)
	if !ok {
		return nil, nil, false
	}
	if sd.Content == nil {
		if err := sd.Decode(); err != nil {
			return nil, sd.Dict, false
		}
	}
	return sd.Content, sd.Dict, true
}

// entry looks up key in d and dereferences the value.
func (o objects) entry(d types.Dict, key string) types.Object {
	if d == nil {
		return nil
	}
	v, ok := d.Find(key)
	if !ok {
		return nil
	}
	return o.deref(v)
}

// objNr returns the object number of an indirect reference, or 0.
func objNr(obj types.Object) int {
	switch v := obj.(type) {
	case types.IndirectRef:
		return int(v.ObjectNumber)
	case *types.IndirectRef:
		if v != nil {
			return int(v.ObjectNumber)
		}
	}
	return 0
}

// rectangle reads a four-number array.
func (o objects) rectangle(obj types.Object) ([4]float64, bool) {
	var r [4]float64
	arr := o.array(obj)
	if len(arr) != 4 {
		return r, false
	}
	for i, v := range arr {
		f, ok := o.number(v)
		if !ok {
			return r, false
		}
		r[i] = f
	}
	return r, true
}
