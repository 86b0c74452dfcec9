package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ImageList holds product image URLs. Older product documents store a single
// string instead of an array, so decoding accepts both shapes.
type ImageList []string

func (l ImageList) First() (string, bool) {
	if len(l) == 0 {
		return "", false
	}
	return l[0], true
}

func (l ImageList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l *ImageList) UnmarshalJSON(data []byte) error {
	return l.decodeJSON(data)
}

func (l *ImageList) decodeJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = ImageList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("images must be a string or an array of strings: %w", err)
	}
	*l = many
	return nil
}

func (l *ImageList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*l = nil
		return nil
	case bsontype.String:
		*l = ImageList{raw.StringValue()}
		return nil
	case bsontype.Array:
		var many []string
		if err := raw.Unmarshal(&many); err != nil {
			return err
		}
		*l = many
		return nil
	}
	return fmt.Errorf("cannot decode %s into images", t)
}

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	return string(b), err
}

func (l *ImageList) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return l.decodeJSON(v)
	case string:
		return l.decodeJSON([]byte(v))
	}
	return fmt.Errorf("unsupported images column type %T", value)
}

func (ImageList) GormDataType() string {
	return "json"
}
