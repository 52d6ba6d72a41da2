package survey

import (
	"bytes"
	"encoding/json"
)

// Payload is one spreadsheet row: column header to cell text, in column
// order. Setting an existing header replaces its value in place.
type Payload struct {
	headers []string
	values  map[string]string
}

func NewPayload() *Payload {
	return &Payload{values: make(map[string]string)}
}

// Set writes a column, appending it if the header is new.
func (p *Payload) Set(header, value string) {
	if _, ok := p.values[header]; !ok {
		p.headers = append(p.headers, header)
	}
	p.values[header] = value
}

// Get returns the value of a column.
func (p *Payload) Get(header string) (string, bool) {
	v, ok := p.values[header]
	return v, ok
}

// Headers returns the columns in order.
func (p *Payload) Headers() []string {
	return append([]string(nil), p.headers...)
}

func (p *Payload) Len() int { return len(p.headers) }

// MarshalJSON writes a JSON object whose keys keep column order.
func (p *Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, h := range p.headers {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.values[h])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
