package archive

import (
	"fmt"
	"io"

	"github.com/threedeyes/hvif-tools/errs"
	"github.com/threedeyes/hvif-tools/ibuf"
	"github.com/threedeyes/hvif-tools/model"
)

// imsgMagic is the optional big-endian prefix identifying a native icon
// archive (spec §6): 'I', 'M', 'S', 'G'.
var imsgMagic = [4]byte{0x49, 0x4D, 0x53, 0x47}

// ReadArchive parses r as one archive message, consuming the optional IMSG
// prefix if present and otherwise leaving the stream positioned at its
// start (§4.4).
func ReadArchive(r io.Reader) (*Archive, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(data) >= 4 && [4]byte(data[:4]) == imsgMagic {
		data = data[4:]
	}

	c := ibuf.NewReadCursor(data)
	a, _, err := readMessage(c)

	return a, err
}

func readMessage(c *ibuf.ReadCursor) (*Archive, int, error) {
	count, ok := c.ReadUint32()
	if !ok {
		return nil, 0, fmt.Errorf("%w: archive field count", errs.ErrTruncated)
	}

	a := New()

	for i := uint32(0); i < count; i++ {
		if err := readField(c, a); err != nil {
			return nil, 0, err
		}
	}

	return a, int(count), nil
}

func readField(c *ibuf.ReadCursor, a *Archive) error {
	nameLen, ok := c.ReadByte()
	if !ok {
		return fmt.Errorf("%w: field name length", errs.ErrTruncated)
	}

	nameBytes, ok := c.ReadBytes(int(nameLen))
	if !ok {
		return fmt.Errorf("%w: field name", errs.ErrTruncated)
	}
	name := string(nameBytes)

	typeTag, ok := c.ReadByte()
	if !ok {
		return fmt.Errorf("%w: field type", errs.ErrTruncated)
	}

	valueCount, ok := c.ReadUint32()
	if !ok {
		return fmt.Errorf("%w: field value count", errs.ErrTruncated)
	}

	for i := uint32(0); i < valueCount; i++ {
		if err := readValue(c, a, name, FieldType(typeTag)); err != nil {
			return err
		}
	}

	return nil
}

func readValue(c *ibuf.ReadCursor, a *Archive, name string, t FieldType) error {
	switch t {
	case TypeBool:
		b, ok := c.ReadByte()
		if !ok {
			return fmt.Errorf("%w: bool value for %q", errs.ErrTruncated, name)
		}
		a.AddBool(name, b != 0)
	case TypeInt32:
		v, ok := c.ReadUint32()
		if !ok {
			return fmt.Errorf("%w: int32 value for %q", errs.ErrTruncated, name)
		}
		a.AddInt32(name, int32(v))
	case TypeFloat:
		v, ok := c.ReadFloat32()
		if !ok {
			return fmt.Errorf("%w: float value for %q", errs.ErrTruncated, name)
		}
		a.AddFloat(name, v)
	case TypeDouble:
		v, ok := c.ReadFloat64()
		if !ok {
			return fmt.Errorf("%w: double value for %q", errs.ErrTruncated, name)
		}
		a.AddDouble(name, v)
	case TypePoint:
		x, ok1 := c.ReadFloat32()
		y, ok2 := c.ReadFloat32()
		if !ok1 || !ok2 {
			return fmt.Errorf("%w: point value for %q", errs.ErrTruncated, name)
		}
		a.AddPoint(name, model.Point{X: x, Y: y})
	case TypeData:
		length, ok := c.ReadUint32()
		if !ok {
			return fmt.Errorf("%w: data length for %q", errs.ErrTruncated, name)
		}
		b, ok := c.ReadBytes(int(length))
		if !ok {
			return fmt.Errorf("%w: data bytes for %q", errs.ErrTruncated, name)
		}
		a.AddData(name, b)
	case TypeMessage:
		length, ok := c.ReadUint32()
		if !ok {
			return fmt.Errorf("%w: message length for %q", errs.ErrTruncated, name)
		}
		sub, ok := c.Sub(int(length))
		if !ok {
			return fmt.Errorf("%w: message bytes for %q", errs.ErrTruncated, name)
		}
		nested, _, err := readMessage(sub)
		if err != nil {
			return err
		}
		a.AddMessage(name, nested)
	default:
		return fmt.Errorf("%w: field type %d for %q", errs.ErrUnknownTag, t, name)
	}

	return nil
}
