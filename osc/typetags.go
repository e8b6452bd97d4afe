package osc

type TypeTag byte

const (
	TypeInt32   TypeTag = 'i'
	TypeFloat32 TypeTag = 'f'
	TypeString  TypeTag = 's'
	TypeBlob    TypeTag = 'b'
	TypeInt64   TypeTag = 'h'
	TypeFloat64 TypeTag = 'd'
	TypeTimetag TypeTag = 't'
	TypeInvalid TypeTag = 0

	// Fixed-width tags carried for wire compatibility. Each consumes exactly
	// 4 bytes on decode and yields no argument.
	TypeChar TypeTag = 'c'
	TypeRGBA TypeTag = 'r'
	TypeMIDI TypeTag = 'm'

	// TypeSymbol decodes identically to TypeString.
	TypeSymbol TypeTag = 'S'
)

// ToTypeTag returns the OSC TypeTag for the given argument.
// Returns TypeInvalid if the argument type is unsupported.
func ToTypeTag(arg interface{}) TypeTag {
	switch arg.(type) {
	case int32:
		return TypeInt32
	case float32:
		return TypeFloat32
	case string:
		return TypeString
	case []byte:
		return TypeBlob
	case int64:
		return TypeInt64
	case float64:
		return TypeFloat64
	case Timetag:
		return TypeTimetag
	default:
		return TypeInvalid
	}
}
