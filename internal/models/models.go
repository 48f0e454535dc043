package models

// Container is a JSON composite node: either an Object or an Array.
// The set of implementations is closed; only this package can add one.
// Pointers to Object and Array satisfy it too, and a nil pointer reads as null.
type Container interface {
	isContainer()
}

// Value is a single JSON datum: String, Number, Composite, Bool or Null.
// The set of implementations is closed; only this package can add one.
// Pointers to these types satisfy it too, and a nil pointer reads as null.
type Value interface {
	isValue()
}

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered sequence of members. Order is preserved on output and
// keys are neither deduplicated nor validated.
type Object []Member

// Array is an ordered sequence of values.
type Array []Value

func (Object) isContainer() {}
func (Array) isContainer()  {}

// String is a text value.
type String string

// Number is a 64-bit floating point value.
type Number float64

// Composite nests a Container inside a Value.
type Composite struct {
	Container Container
}

// Bool is a boolean value.
type Bool bool

// Null is the JSON null literal. It carries no payload.
type Null struct{}

func (String) isValue()    {}
func (Number) isValue()    {}
func (Composite) isValue() {}
func (Bool) isValue()      {}
func (Null) isValue()      {}

// NullValue is the shared null value.
var NullValue Value = Null{}

// Obj builds an Object from members in the given order.
func Obj(members ...Member) Object {
	if members == nil {
		return Object{}
	}
	return Object(members)
}

// Field builds a single Object member.
func Field(key string, v Value) Member {
	return Member{Key: key, Value: v}
}

// Arr builds an Array from values in the given order.
func Arr(values ...Value) Array {
	if values == nil {
		return Array{}
	}
	return Array(values)
}

// Str wraps s as a String value.
func Str(s string) Value { return String(s) }

// Num wraps f as a Number value.
func Num(f float64) Value { return Number(f) }

// BoolOf wraps b as a Bool value.
func BoolOf(b bool) Value { return Bool(b) }

// Nest wraps a Container so it can be used as a Value.
func Nest(c Container) Value { return Composite{Container: c} }
