package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Codec encodes descriptors and decodes response bodies.
type Codec interface {
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data into v, ignoring unknown fields.
	Unmarshal(data []byte, v any) error
	// UnmarshalStrict decodes data into v and rejects unknown fields.
	UnmarshalStrict(data []byte, v any) error
}

// JSONCodec is the default [Codec].
type JSONCodec struct {
	// UseNumber decodes numbers held in interface values as [json.Number].
	UseNumber bool
}

// Marshal encodes v as compact JSON without a trailing newline.
func (c JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c JSONCodec) Unmarshal(data []byte, v any) error {
	return c.decode(data, v, false)
}

func (c JSONCodec) UnmarshalStrict(data []byte, v any) error {
	return c.decode(data, v, true)
}

func (c JSONCodec) decode(data []byte, v any, strict bool) error {
	d := json.NewDecoder(bytes.NewReader(data))

	if c.UseNumber {
		d.UseNumber()
	}
	if strict {
		d.DisallowUnknownFields()
	}

	if err := d.Decode(v); err != nil {
		return err
	}

	if _, err := d.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after top-level value")
	}

	return nil
}
