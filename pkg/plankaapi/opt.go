package plankaapi

import "github.com/go-faster/jx"

// Optional field wrappers for partial updates. A zero value is "not set" and
// is left out of the request body.

// OptString is an optional string.
type OptString struct {
	Value string
	Set   bool
}

// NewOptString returns a set OptString.
func NewOptString(v string) OptString { return OptString{Value: v, Set: true} }

// IsSet reports whether a value was provided.
func (o OptString) IsSet() bool { return o.Set }

// SetTo sets the value.
func (o *OptString) SetTo(v string) { o.Value, o.Set = v, true }

// Get returns the value and whether it was set.
func (o OptString) Get() (string, bool) { return o.Value, o.Set }

func (o OptString) encode(e *jx.Encoder, field string) {
	if !o.IsSet() {
		return
	}
	e.FieldStart(field)
	e.Str(o.Value)
}

// OptNilString is an optional string that can also be explicitly null,
// which clears the field remotely.
type OptNilString struct {
	Value string
	Set   bool
	Null  bool
}

// NewOptNilString returns a set, non-null OptNilString.
func NewOptNilString(v string) OptNilString { return OptNilString{Value: v, Set: true} }

// IsSet reports whether a value or null was provided.
func (o OptNilString) IsSet() bool { return o.Set }

// IsNull reports whether the field is explicitly cleared.
func (o OptNilString) IsNull() bool { return o.Set && o.Null }

// SetTo sets the value.
func (o *OptNilString) SetTo(v string) { o.Value, o.Set, o.Null = v, true, false }

// SetToNull marks the field to be cleared.
func (o *OptNilString) SetToNull() { o.Value, o.Set, o.Null = "", true, true }

func (o OptNilString) encode(e *jx.Encoder, field string) {
	if !o.IsSet() {
		return
	}
	e.FieldStart(field)
	if o.IsNull() {
		e.Null()
		return
	}
	e.Str(o.Value)
}

// OptFloat64 is an optional number.
type OptFloat64 struct {
	Value float64
	Set   bool
}

// NewOptFloat64 returns a set OptFloat64.
func NewOptFloat64(v float64) OptFloat64 { return OptFloat64{Value: v, Set: true} }

// IsSet reports whether a value was provided.
func (o OptFloat64) IsSet() bool { return o.Set }

// SetTo sets the value.
func (o *OptFloat64) SetTo(v float64) { o.Value, o.Set = v, true }

// Or returns the value if set, d otherwise.
func (o OptFloat64) Or(d float64) float64 {
	if o.Set {
		return o.Value
	}
	return d
}

func (o OptFloat64) encode(e *jx.Encoder, field string) {
	if !o.IsSet() {
		return
	}
	e.FieldStart(field)
	e.Float64(o.Value)
}

// OptBool is an optional boolean.
type OptBool struct {
	Value bool
	Set   bool
}

// NewOptBool returns a set OptBool.
func NewOptBool(v bool) OptBool { return OptBool{Value: v, Set: true} }

// IsSet reports whether a value was provided.
func (o OptBool) IsSet() bool { return o.Set }

// SetTo sets the value.
func (o *OptBool) SetTo(v bool) { o.Value, o.Set = v, true }

func (o OptBool) encode(e *jx.Encoder, field string) {
	if !o.IsSet() {
		return
	}
	e.FieldStart(field)
	e.Bool(o.Value)
}
