// Package archive implements the in-memory tagged-field container the
// authoring archive reader parses into, plus the reader itself (§4.4).
//
// The precise wire format of the authoring archive is not specified by the
// format this codec interoperates with; the host's tagged-message container
// is an external contract implementations may reimplement freely. This
// package defines its own flattened encoding of the same field semantics
// MessageImporter.cpp needs: find_message, find_point, find_bool/int32/
// float/double, find_data, and per-field type/count info.
package archive

import "github.com/threedeyes/hvif-tools/model"

// FieldType identifies the typed values a Field holds.
type FieldType uint8

const (
	TypeBool FieldType = iota
	TypeInt32
	TypeFloat
	TypeDouble
	TypePoint
	TypeData
	TypeMessage
)

// Field is one named, repeated, typed value list.
type Field struct {
	Type   FieldType
	Values []any
}

// Archive is a tagged-field container: a name maps to a Field holding zero
// or more values of one type, mirroring the repeat-index semantics the
// importer relies on (e.g. repeated "path" children, parallel "point"/
// "point in"/"point out" arrays).
type Archive struct {
	fields map[string]*Field
}

// New returns an empty archive.
func New() *Archive {
	return &Archive{fields: make(map[string]*Field)}
}

func (a *Archive) field(name string, t FieldType) *Field {
	f, ok := a.fields[name]
	if !ok {
		f = &Field{Type: t}
		a.fields[name] = f
	}

	return f
}

func (a *Archive) AddBool(name string, v bool) {
	f := a.field(name, TypeBool)
	f.Values = append(f.Values, v)
}

func (a *Archive) AddInt32(name string, v int32) {
	f := a.field(name, TypeInt32)
	f.Values = append(f.Values, v)
}

func (a *Archive) AddFloat(name string, v float32) {
	f := a.field(name, TypeFloat)
	f.Values = append(f.Values, v)
}

func (a *Archive) AddDouble(name string, v float64) {
	f := a.field(name, TypeDouble)
	f.Values = append(f.Values, v)
}

func (a *Archive) AddPoint(name string, p model.Point) {
	f := a.field(name, TypePoint)
	f.Values = append(f.Values, p)
}

func (a *Archive) AddData(name string, data []byte) {
	f := a.field(name, TypeData)
	f.Values = append(f.Values, data)
}

func (a *Archive) AddMessage(name string, msg *Archive) {
	f := a.field(name, TypeMessage)
	f.Values = append(f.Values, msg)
}

// GetInfo reports the type and repeat count of a field, mirroring
// BMessage::GetInfo.
func (a *Archive) GetInfo(name string) (FieldType, int, bool) {
	f, ok := a.fields[name]
	if !ok {
		return 0, 0, false
	}

	return f.Type, len(f.Values), true
}

func find[T any](a *Archive, name string, index int) (T, bool) {
	var zero T

	f, ok := a.fields[name]
	if !ok || index < 0 || index >= len(f.Values) {
		return zero, false
	}

	v, ok := f.Values[index].(T)

	return v, ok
}

func (a *Archive) FindBool(name string, index int) (bool, bool) {
	return find[bool](a, name, index)
}

func (a *Archive) FindInt32(name string, index int) (int32, bool) {
	return find[int32](a, name, index)
}

func (a *Archive) FindFloat(name string, index int) (float32, bool) {
	return find[float32](a, name, index)
}

func (a *Archive) FindDouble(name string, index int) (float64, bool) {
	return find[float64](a, name, index)
}

func (a *Archive) FindPoint(name string, index int) (model.Point, bool) {
	return find[model.Point](a, name, index)
}

func (a *Archive) FindData(name string, index int) ([]byte, bool) {
	return find[[]byte](a, name, index)
}

func (a *Archive) FindMessage(name string, index int) (*Archive, bool) {
	return find[*Archive](a, name, index)
}
