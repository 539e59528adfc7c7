package render

import "github.com/labstack/echo/v4"

// DefaultLabel is used when an envelope does not name one.
const DefaultLabel = "object"

// FieldTransform rewrites fields of a map payload in place before encoding.
type FieldTransform func(payload map[string]any)

// Envelope wraps handler payloads under a single top-level label, so a user
// payload encodes as {"user": {...}} and a list as {"users": [...]}. A map
// payload carrying an "errors" key is written through untouched.
type Envelope struct {
	Label      string
	Transforms []FieldTransform
}

// DecodeToken converts byte-slice values of the named fields to plain
// strings, so signed tokens encode as text instead of base64.
func DecodeToken(fields ...string) FieldTransform {
	return func(payload map[string]any) {
		for _, f := range fields {
			if b, ok := payload[f].([]byte); ok {
				payload[f] = string(b)
			}
		}
	}
}

// JSON writes payload wrapped under the envelope label with the given status.
func (e Envelope) JSON(c echo.Context, status int, payload any) error {
	switch v := payload.(type) {
	case map[string]any:
		if _, ok := v["errors"]; ok {
			return c.JSON(status, v)
		}
		e.apply(v)
	case []map[string]any:
		for _, m := range v {
			e.apply(m)
		}
	}
	label := e.Label
	if label == "" {
		label = DefaultLabel
	}
	return c.JSON(status, map[string]any{label: payload})
}

func (e Envelope) apply(m map[string]any) {
	for _, t := range e.Transforms {
		t(m)
	}
}
