package messages

import (
	"encoding/json"
	"strconv"
)

// Payload is the flat string-keyed content of a message body.
type Payload map[string]string

// ParsePayload decodes a raw message body. A body that is not a JSON
// object degrades to {"text": raw}; the caller always gets a usable
// mapping and never an error.
func ParsePayload(raw string) Payload {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Payload{"text": raw}
	}

	payload := make(Payload, len(fields))
	for key, value := range fields {
		payload[key] = scalarToString(value)
	}
	return payload
}

func scalarToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		// nested object or array, kept as its JSON text
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

// Encode renders the payload as a JSON object. encoding/json sorts the
// keys, so equal payloads always encode to equal bytes.
func (p Payload) Encode() string {
	encoded, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

// Get returns the value for key, or def when the key is absent.
func (p Payload) Get(key string, def string) string {
	if value, ok := p[key]; ok {
		return value
	}
	return def
}

// Has reports whether key is present.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}
