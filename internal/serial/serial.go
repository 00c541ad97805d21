// Package serial provides serialization utilities.
package serial

import (
	"encoding"
	"encoding/base64"

	"github.com/pkg/errors"
)

// TryMarshal marshals v if it implements encoding.BinaryMarshaler.
func TryMarshal(v interface{}) ([]byte, error) {
	if marshaler, ok := v.(encoding.BinaryMarshaler); ok {
		return marshaler.MarshalBinary()
	}
	return nil, errors.Errorf("type %T does not implement encoding.BinaryMarshaler", v)
}

// TryUnmarshal unmarshals data into v if it implements
// encoding.BinaryUnmarshaler. v must be a pointer to the target object.
func TryUnmarshal(v interface{}, data []byte) error {
	if unmarshaler, ok := v.(encoding.BinaryUnmarshaler); ok {
		return unmarshaler.UnmarshalBinary(data)
	}
	return errors.Errorf("type %T does not implement encoding.BinaryUnmarshaler", v)
}

// EncodeString marshals v and returns it as unpadded URL-safe base64, the
// form the CLI prints and accepts.
func EncodeString(v interface{}) (string, error) {
	data, err := TryMarshal(v)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeString reverses EncodeString into v.
func DecodeString(v interface{}, s string) error {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return errors.Wrap(err, "decode base64")
	}
	return TryUnmarshal(v, data)
}
