package conv

import "reflect"

// Infer returns the tag of the first converter that accepts value, or ""
// when none does.
func (e *Engine) Infer(value any) (string, error) {
	c, err := e.ConvertWithTag(value)
	if err != nil {
		return "", err
	}
	return c.Tag, nil
}

// InferType returns the Go type of the converted value, or nil when no
// converter accepts value.
func (e *Engine) InferType(value any) (reflect.Type, error) {
	c, err := e.ConvertWithTag(value)
	if err != nil || !c.Matched() {
		return nil, err
	}
	return reflect.TypeOf(c.Value), nil
}
