package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// RecordID identifies a medicine across fetches. The backend emits ids as
// JSON numbers or strings; the id is sent back in the form it arrived, so
// "007" stays a string and 12 stays a number.
type RecordID struct {
	text   string
	quoted bool
}

// IntID is a numeric id.
func IntID(n int64) RecordID {
	return RecordID{text: strconv.FormatInt(n, 10)}
}

// TextID is an id the server sent as a JSON string.
func TextID(s string) RecordID {
	return RecordID{text: s, quoted: true}
}

// String returns the id text without quotes.
func (id RecordID) String() string {
	return id.text
}

// IsZero reports whether the id is absent.
func (id RecordID) IsZero() bool {
	return id.text == ""
}

// Equal compares the id text only, so a number 12 matches the string "12".
func (id RecordID) Equal(other RecordID) bool {
	return id.text == other.text
}

// MarshalJSON emits the id in the form it was decoded.
func (id RecordID) MarshalJSON() ([]byte, error) {
	switch {
	case id.quoted:
		return json.Marshal(id.text)
	case id.text == "":
		return []byte("null"), nil
	default:
		return []byte(id.text), nil
	}
}

// UnmarshalJSON accepts a number or a string.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = RecordID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TextID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	*id = RecordID{text: n.String()}
	return nil
}

// MarshalBSONValue stores integer ids as int64 and everything else as a string.
func (id RecordID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !id.quoted {
		if n, err := strconv.ParseInt(id.text, 10, 64); err == nil {
			return bson.MarshalValue(n)
		}
	}
	return bson.MarshalValue(id.text)
}

// UnmarshalBSONValue reads ids written by MarshalBSONValue.
func (id *RecordID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*id = RecordID{}
	case bsontype.Int64:
		*id = IntID(raw.Int64())
	case bsontype.Int32:
		*id = IntID(int64(raw.Int32()))
	case bsontype.String:
		*id = TextID(raw.StringValue())
	default:
		return fmt.Errorf("record id: unsupported bson type %s", t)
	}
	return nil
}
