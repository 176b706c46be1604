package constraints

// Signed is a constraint that permits any signed integer type.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
type Float interface {
	~float32 | ~float64
}

// Complex is a constraint that permits any complex numeric type.
type Complex interface {
	~complex64 | ~complex128
}

// Numeric is a constraint that permits any real numeric type: any type
// that supports the arithmetic operators and ordering.
type Numeric interface {
	Integer | Float
}

// Summable is a constraint that permits any plain fixed-size value type that
// supports the + operator and has no identity beyond its value. It is the
// element constraint of the sample buffers, which accumulate in place.
type Summable interface {
	Numeric | Complex
}
