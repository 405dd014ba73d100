package archive

import (
	"github.com/threedeyes/hvif-tools/ibuf"
	"github.com/threedeyes/hvif-tools/model"
)

// WriteArchive serializes a into this package's flattened wire format (the
// inverse of ReadArchive, without the optional IMSG prefix). It exists
// mainly so tests can round-trip Archive values without hand-building byte
// slices.
func WriteArchive(a *Archive) []byte {
	b := ibuf.NewWriteBuffer()
	writeMessage(b, a)

	return b.Bytes()
}

func writeMessage(b *ibuf.WriteBuffer, a *Archive) {
	b.WriteUint32(uint32(len(a.fields)))

	for name, f := range a.fields {
		b.WriteByte(uint8(len(name)))
		b.WriteBytes([]byte(name))
		b.WriteByte(uint8(f.Type))
		b.WriteUint32(uint32(len(f.Values)))

		for _, v := range f.Values {
			writeValue(b, f.Type, v)
		}
	}
}

func writeValue(b *ibuf.WriteBuffer, t FieldType, v any) {
	switch t {
	case TypeBool:
		if v.(bool) {
			b.WriteByte(1)
		} else {
			b.WriteByte(0)
		}
	case TypeInt32:
		b.WriteUint32(uint32(v.(int32)))
	case TypeFloat:
		b.WriteFloat32(v.(float32))
	case TypeDouble:
		b.WriteFloat64(v.(float64))
	case TypePoint:
		p := v.(model.Point)
		b.WriteFloat32(p.X)
		b.WriteFloat32(p.Y)
	case TypeData:
		data := v.([]byte)
		b.WriteUint32(uint32(len(data)))
		b.WriteBytes(data)
	case TypeMessage:
		nested := WriteArchive(v.(*Archive))
		b.WriteUint32(uint32(len(nested)))
		b.WriteBytes(nested)
	}
}
