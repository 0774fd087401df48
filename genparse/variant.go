package genparse

import (
	"fmt"
	"reflect"
)

// Variant records that something was expected (or, inside a negative
// predicate, unexpected) at a raw token position.
type Variant struct {
	position int
	payload  any
}

func (v *Variant) init(position int, payload any) *Variant {
	*v = Variant{position: position, payload: payload}
	return v
}

func (v *Variant) Position() int {
	return v.position
}

func (v *Variant) Payload() any {
	return v.payload
}

func (v *Variant) String() string {
	return fmt.Sprintf("<%d, %s>", v.position, payloadText(v.payload))
}

// payloadText returns the display text of payload. Nil payloads, typed
// nil pointers included, have none.
func payloadText(payload any) string {
	if isNil(payload) {
		return ""
	}
	switch p := payload.(type) {
	case string:
		return p
	case fmt.Stringer:
		return p.String()
	default:
		return fmt.Sprint(p)
	}
}

func isNil(payload any) bool {
	if payload == nil {
		return true
	}
	switch v := reflect.ValueOf(payload); v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func newVariant() *Variant {
	return &Variant{}
}
