package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Field is a single named value inside a Document.
type Field struct {
	Name  string
	Value Value
}

// Document is a schema-less record. Field names are unique and keep the order
// in which they were first seen. A Document is not modified after construction.
type Document struct {
	names  []string
	values map[string]Value
}

// NewDocument builds a Document from fields. A repeated name keeps its first
// position and its last value.
func NewDocument(fields ...Field) Document {
	var d Document
	for _, f := range fields {
		d.set(f.Name, f.Value)
	}
	return d
}

func (d *Document) set(name string, v Value) {
	if d.values == nil {
		d.values = make(map[string]Value)
	}
	if _, ok := d.values[name]; !ok {
		d.names = append(d.names, name)
	}
	d.values[name] = v
}

func (d Document) Len() int { return len(d.names) }

// Names returns the field names in insertion order.
func (d Document) Names() []string {
	return append([]string(nil), d.names...)
}

func (d Document) Get(name string) (Value, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Fields returns the fields in insertion order.
func (d Document) Fields() []Field {
	fields := make([]Field, 0, len(d.names))
	for _, name := range d.names {
		fields = append(fields, Field{Name: name, Value: d.values[name]})
	}
	return fields
}

func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range d.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalString(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		data, err := d.values[name].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", name, err)
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("document must be a json object, got %v", tok)
	}

	doc, err := decodeObjectBody(dec)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

func (d Document) MarshalYAML() (any, error) {
	return d.yamlNode(), nil
}

func (d Document) yamlNode() *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range d.names {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			d.values[name].yamlNode(),
		)
	}
	return node
}

// decodeObjectBody reads object members up to and including the closing brace.
// The opening brace must already have been consumed.
func decodeObjectBody(dec *json.Decoder) (Document, error) {
	var doc Document
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Document{}, err
		}
		name, ok := tok.(string)
		if !ok {
			return Document{}, fmt.Errorf("unexpected object key %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return Document{}, fmt.Errorf("field %s: %w", name, err)
		}
		doc.set(name, v)
	}
	if _, err := dec.Token(); err != nil {
		return Document{}, err
	}
	return doc, nil
}
