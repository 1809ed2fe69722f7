package rental

import "encoding/json"

const (
	StatusActive        = "active"
	DefaultPropertyName = "Unnamed Property"
)

type Property struct {
	ID     ID
	Name   string
	Status string
}

func (p Property) Active() bool { return p.Status == StatusActive }

type wireProperty struct {
	ID     ID      `json:"id"`
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

// DecodeProperty normalizes one property record. A missing or empty name
// becomes DefaultPropertyName.
func DecodeProperty(raw json.RawMessage) (Property, error) {
	var w wireProperty
	if err := json.Unmarshal(raw, &w); err != nil {
		return Property{}, err
	}
	return Property{
		ID:     w.ID,
		Name:   orDefault(w.Name, DefaultPropertyName),
		Status: orDefault(w.Status, ""),
	}, nil
}

func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
