package sv92

// DataType selects the on-wire representation of every AnalogValue in an
// ASDU's dataSet, per the SVCB's configured data type.
type DataType int

const (
	DataTypeInt32 DataType = iota
	DataTypeUint32
	DataTypeFloat32
)

func (d DataType) String() string {
	switch d {
	case DataTypeInt32:
		return "INT32"
	case DataTypeUint32:
		return "UINT32"
	case DataTypeFloat32:
		return "FLOAT32"
	default:
		return "UNKNOWN"
	}
}

// AnalogValue is a tagged value of int32, uint32, or float32 carrying a
// Quality. Coercion helpers expose both an integer and a floating-point
// view regardless of the stored kind.
type AnalogValue struct {
	Kind    DataType
	i32     int32
	u32     uint32
	f32     float32
	Quality Quality
}

// NewInt32Value builds an AnalogValue holding a signed 32-bit reading.
func NewInt32Value(v int32, q Quality) AnalogValue {
	return AnalogValue{Kind: DataTypeInt32, i32: v, Quality: q}
}

// NewUint32Value builds an AnalogValue holding an unsigned 32-bit reading.
func NewUint32Value(v uint32, q Quality) AnalogValue {
	return AnalogValue{Kind: DataTypeUint32, u32: v, Quality: q}
}

// NewFloat32Value builds an AnalogValue holding a 32-bit float reading.
func NewFloat32Value(v float32, q Quality) AnalogValue {
	return AnalogValue{Kind: DataTypeFloat32, f32: v, Quality: q}
}

// AsFloat64 coerces the stored value to float64 regardless of Kind.
func (a AnalogValue) AsFloat64() float64 {
	switch a.Kind {
	case DataTypeInt32:
		return float64(a.i32)
	case DataTypeUint32:
		return float64(a.u32)
	case DataTypeFloat32:
		return float64(a.f32)
	default:
		return 0
	}
}

// AsInt64 coerces the stored value to int64 regardless of Kind, truncating
// a float toward zero.
func (a AnalogValue) AsInt64() int64 {
	switch a.Kind {
	case DataTypeInt32:
		return int64(a.i32)
	case DataTypeUint32:
		return int64(a.u32)
	case DataTypeFloat32:
		return int64(a.f32)
	default:
		return 0
	}
}

// writeTo writes the 4-byte value (without quality) to w per Kind.
func (a AnalogValue) writeTo(w *BufferWriter) {
	switch a.Kind {
	case DataTypeUint32:
		w.WriteUint32(a.u32)
	case DataTypeFloat32:
		w.WriteFloat32(a.f32)
	default:
		w.WriteInt32(a.i32)
	}
}

// readAnalogValue reads a 4-byte value plus a 4-byte quality word from r,
// interpreting the value per kind.
func readAnalogValue(r *BufferReader, kind DataType) AnalogValue {
	var v AnalogValue
	v.Kind = kind
	switch kind {
	case DataTypeUint32:
		v.u32 = r.ReadUint32()
	case DataTypeFloat32:
		v.f32 = r.ReadFloat32()
	default:
		v.i32 = r.ReadInt32()
	}
	v.Quality = NewQuality(r.ReadUint32())
	return v
}
