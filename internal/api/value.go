package api

// Value wraps a decoded JSON document. Accessors never panic: asking for a
// field or element that does not exist, or has the wrong type, yields an
// absent Value or ok=false.
type Value struct {
	raw     any
	present bool
}

// NewValue wraps an already decoded JSON value.
func NewValue(raw any) Value {
	return Value{raw: raw, present: true}
}

// Present reports whether the value exists.
func (v Value) Present() bool {
	return v.present
}

// Field returns the named member of a JSON object.
func (v Value) Field(key string) Value {
	obj, ok := v.raw.(map[string]any)
	if !v.present || !ok {
		return Value{}
	}
	member, ok := obj[key]
	if !ok {
		return Value{}
	}
	return Value{raw: member, present: true}
}

// Index returns the i-th element of a JSON array.
func (v Value) Index(i int) Value {
	arr, ok := v.raw.([]any)
	if !v.present || !ok || i < 0 || i >= len(arr) {
		return Value{}
	}
	return Value{raw: arr[i], present: true}
}

// AsBool returns the value as a JSON boolean.
func (v Value) AsBool() (bool, bool) {
	b, ok := v.raw.(bool)
	return b, v.present && ok
}

// AsString returns the value as a JSON string.
func (v Value) AsString() (string, bool) {
	s, ok := v.raw.(string)
	return s, v.present && ok
}

// Success reports whether the document carries "success": true. Any other
// shape counts as not successful.
func (v Value) Success() bool {
	ok, valid := v.Field("success").AsBool()
	return valid && ok
}
