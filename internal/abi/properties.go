package abi

import (
	"encoding/binary"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/tetratelabs/proxy-wasm-go-sdk/proxywasm"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/errors"
)

// GetProperty reads a property of the current context.
// ok is false when the host has no value at path.
func GetProperty(path []string) ([]byte, bool, error) {
	value, err := proxywasm.GetProperty(path)
	if IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, Wrap(FnGetProperty, err)
	}
	return value, true, nil
}

// SetProperty writes a property of the current context.
func SetProperty(path []string, value []byte) error {
	return Wrap(FnSetProperty, proxywasm.SetProperty(path, value))
}

func parseError(path []string, value []byte, format string, args ...any) error {
	return errors.HostFunction(FnGetProperty).Parse(path, value, fmt.Errorf(format, args...))
}

// DecodeString decodes a property holding a UTF-8 string.
func DecodeString(path []string, value []byte) (string, error) {
	if !utf8.Valid(value) {
		return "", parseError(path, value, "value is not a valid UTF-8 string")
	}
	return string(value), nil
}

// DecodeInt64 decodes a property holding an 8-byte little-endian signed integer.
func DecodeInt64(path []string, value []byte) (int64, error) {
	if len(value) != 8 {
		return 0, parseError(path, value, "expected 8 bytes, got %d", len(value))
	}
	return int64(binary.LittleEndian.Uint64(value)), nil //nolint:gosec // G115: two's complement reinterpretation
}

// DecodeUint64 decodes a property holding an 8-byte little-endian unsigned integer.
func DecodeUint64(path []string, value []byte) (uint64, error) {
	if len(value) != 8 {
		return 0, parseError(path, value, "expected 8 bytes, got %d", len(value))
	}
	return binary.LittleEndian.Uint64(value), nil
}

// DecodeBool decodes a property holding a single byte boolean.
func DecodeBool(path []string, value []byte) (bool, error) {
	if len(value) != 1 {
		return false, parseError(path, value, "expected 1 byte, got %d", len(value))
	}
	return value[0] != 0, nil
}

// DecodeTimestamp decodes a property holding nanoseconds since the Unix epoch.
func DecodeTimestamp(path []string, value []byte) (time.Time, error) {
	nanos, err := DecodeInt64(path, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, nanos).UTC(), nil
}

// DecodeDuration decodes a property holding a duration in nanoseconds.
// Negative values are clamped to zero.
func DecodeDuration(path []string, value []byte) (time.Duration, error) {
	nanos, err := DecodeInt64(path, value)
	if err != nil {
		return 0, err
	}
	if nanos < 0 {
		return 0, nil
	}
	return time.Duration(nanos), nil
}

// DecodeMap decodes a property holding a serialized header map: a
// little-endian pair count, the key and value sizes of every pair, then the
// NUL-terminated keys and values. Values are kept as raw bytes.
func DecodeMap(path []string, value []byte) (entities.HeaderMap, error) {
	if len(value) == 0 {
		return entities.HeaderMap{}, nil
	}
	if len(value) < 4 {
		return nil, parseError(path, value, "map is truncated: %d bytes", len(value))
	}
	n := int(binary.LittleEndian.Uint32(value))
	if uint64(n)*8 > uint64(len(value)-4) {
		return nil, parseError(path, value, "map is truncated: %d pairs do not fit in %d bytes", n, len(value))
	}
	sizes := value[4 : 4+n*8]
	data := value[4+n*8:]
	pairs := make([][2]string, 0, n)
	for i := range n {
		kl := int(binary.LittleEndian.Uint32(sizes[i*8:]))
		vl := int(binary.LittleEndian.Uint32(sizes[i*8+4:]))
		if kl+vl+2 > len(data) {
			return nil, parseError(path, value, "map is truncated at pair %d", i)
		}
		if data[kl] != 0 || data[kl+1+vl] != 0 {
			return nil, parseError(path, value, "pair %d is not NUL-terminated", i)
		}
		pairs = append(pairs, [2]string{string(data[:kl]), string(data[kl+1 : kl+1+vl])})
		data = data[kl+vl+2:]
	}
	return entities.HeaderMapFromPairs(pairs), nil
}

// EncodeMap serializes a header map the way the host stores it.
func EncodeMap(m entities.HeaderMap) []byte {
	pairs := m.Pairs()
	size := 4 + len(pairs)*8
	for _, p := range pairs {
		size += len(p[0]) + len(p[1]) + 2
	}
	b := make([]byte, 4+len(pairs)*8, size)
	binary.LittleEndian.PutUint32(b, uint32(len(pairs))) //nolint:gosec // G115: header counts fit in uint32
	for i, p := range pairs {
		binary.LittleEndian.PutUint32(b[4+i*8:], uint32(len(p[0])))   //nolint:gosec // G115: header sizes fit in uint32
		binary.LittleEndian.PutUint32(b[4+i*8+4:], uint32(len(p[1]))) //nolint:gosec // G115: header sizes fit in uint32
	}
	for _, p := range pairs {
		b = append(b, p[0]...)
		b = append(b, 0)
		b = append(b, p[1]...)
		b = append(b, 0)
	}
	return b
}

// EncodeInt64 encodes a signed integer the way the host stores it.
func EncodeInt64(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v)) //nolint:gosec // G115: two's complement reinterpretation
	return b
}

// EncodeUint64 encodes an unsigned integer the way the host stores it.
func EncodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// EncodeBool encodes a boolean the way the host stores it.
func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}
