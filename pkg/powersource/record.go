package powersource

import (
	"context"
	"math"
)

// Record is the description of a single power source, keyed by the
// IOPSKeys.h names. Values are string, integer or boolean.
type Record interface {
	Get(key string) (any, bool)
}

// Source queries the platform for its current power sources.
type Source interface {
	Query(ctx context.Context) ([]Record, error)
}

// MapRecord is a Record backed by a map.
type MapRecord map[string]any

func (m MapRecord) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// GetString returns the string value of key.
func GetString(r Record, key string) (string, error) {
	v, ok := r.Get(key)
	if !ok {
		return "", &FieldError{Kind: FieldMissing, Key: key}
	}
	s, ok := v.(string)
	if !ok {
		return "", &FieldError{Kind: TypeMismatch, Key: key, Want: "string", Got: v}
	}
	return s, nil
}

// GetInt returns the integer value of key. Any Go integer type is accepted.
func GetInt(r Record, key string) (int64, error) {
	v, ok := r.Get(key)
	if !ok {
		return 0, &FieldError{Kind: FieldMissing, Key: key}
	}
	switch i := v.(type) {
	case int:
		return int64(i), nil
	case int8:
		return int64(i), nil
	case int16:
		return int64(i), nil
	case int32:
		return int64(i), nil
	case int64:
		return i, nil
	case uint8:
		return int64(i), nil
	case uint16:
		return int64(i), nil
	case uint32:
		return int64(i), nil
	case uint:
		if uint64(i) > math.MaxInt64 {
			return 0, &FieldError{Kind: TypeMismatch, Key: key, Want: "integer in int64 range", Got: v}
		}
		return int64(i), nil
	case uint64:
		if i > math.MaxInt64 {
			return 0, &FieldError{Kind: TypeMismatch, Key: key, Want: "integer in int64 range", Got: v}
		}
		return int64(i), nil
	default:
		return 0, &FieldError{Kind: TypeMismatch, Key: key, Want: "integer", Got: v}
	}
}

// GetBool returns the boolean value of key.
func GetBool(r Record, key string) (bool, error) {
	v, ok := r.Get(key)
	if !ok {
		return false, &FieldError{Kind: FieldMissing, Key: key}
	}
	b, ok := v.(bool)
	if !ok {
		return false, &FieldError{Kind: TypeMismatch, Key: key, Want: "bool", Got: v}
	}
	return b, nil
}
