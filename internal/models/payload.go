// internal/models/payload.go
package models

// Payload is the outbound body of a create or update request. Fields the
// operator left empty are never present, so partial updates cannot clobber
// server-side values with blanks.
type Payload map[string]interface{}

// PayloadBuilder starts from an empty mapping and inserts only non-empty
// fields. Field presence is decided at insertion time, not by patching a
// full struct afterwards.
type PayloadBuilder struct {
	fields Payload
}

func NewPayloadBuilder() *PayloadBuilder {
	return &PayloadBuilder{fields: Payload{}}
}

// Set inserts a string field, dropping it when the value is empty.
func (b *PayloadBuilder) Set(key, value string) *PayloadBuilder {
	if value != "" {
		b.fields[key] = value
	}
	return b
}

// SetInt inserts an integer field unconditionally; callers decide presence.
func (b *PayloadBuilder) SetInt(key string, value int) *PayloadBuilder {
	b.fields[key] = value
	return b
}

func (b *PayloadBuilder) Build() Payload {
	return b.fields
}
