package plankaapi

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Planka wraps single records as {"item": ...} and collections as
// {"items": [...]}, optionally with an "included" sibling. These helpers
// read envelopes without decoding the records themselves.

// member returns the raw value of key in a JSON object. found is false when
// data is not an object or lacks the key.
func member(data []byte, key string) (raw json.RawMessage, found bool, err error) {
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return nil, false, nil
	}
	err = d.ObjBytes(func(d *jx.Decoder, k []byte) error {
		if found || string(k) != key {
			return d.Skip()
		}
		v, err := d.Raw()
		if err != nil {
			return err
		}
		raw = append(json.RawMessage(nil), v...)
		found = true
		return nil
	})
	if err != nil {
		return nil, false, errors.Wrapf(err, "read %q", key)
	}
	return raw, found, nil
}

// itemOf unwraps {"item": x} to x. Anything else is returned as is.
func itemOf(data json.RawMessage) (json.RawMessage, error) {
	item, found, err := member(data, "item")
	if err != nil {
		return nil, err
	}
	if found {
		return item, nil
	}
	return data, nil
}

// itemsOf unwraps {"items": [...]} or a bare array into its elements.
func itemsOf(data json.RawMessage) ([]json.RawMessage, error) {
	items, found, err := member(data, "items")
	if err != nil {
		return nil, err
	}
	if !found {
		items = data
	}
	d := jx.DecodeBytes(items)
	switch d.Next() {
	case jx.Array:
	case jx.Null:
		return []json.RawMessage{}, nil
	default:
		return nil, errors.New("unexpected response shape: expected a collection")
	}

	out := []json.RawMessage{}
	err = d.Arr(func(d *jx.Decoder) error {
		v, err := d.Raw()
		if err != nil {
			return err
		}
		out = append(out, append(json.RawMessage(nil), v...))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "read collection")
	}
	return out, nil
}

// stringField returns the string value of key in a record. Missing or null
// fields yield "".
func stringField(data json.RawMessage, key string) (string, error) {
	raw, found, err := member(data, key)
	if err != nil || !found {
		return "", err
	}
	d := jx.DecodeBytes(raw)
	if d.Next() != jx.String {
		return "", nil
	}
	return d.Str()
}

// boolField returns the boolean value of key in a record. Missing or
// non-boolean fields yield false.
func boolField(data json.RawMessage, key string) (bool, error) {
	raw, found, err := member(data, key)
	if err != nil || !found {
		return false, err
	}
	d := jx.DecodeBytes(raw)
	if d.Next() != jx.Bool {
		return false, nil
	}
	return d.Bool()
}

// idOf returns the "id" of a record, failing when it is absent.
func idOf(record json.RawMessage) (string, error) {
	id, err := stringField(record, "id")
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", errors.New("record has no id")
	}
	return id, nil
}
