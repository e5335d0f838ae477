package protocol

import (
	"bytes"
	"errors"
	"strconv"
	"sync"

	"github.com/tinylib/msgp/msgp"
)

// ErrUnknownMessageType is returned when an envelope's "type" field is
// missing or does not match a map-shaped payload.
var ErrUnknownMessageType = errors.New("protocol: unknown message type")

// bufferPool amortizes the per-message buffer allocation the way the
// teacher's connection.go pools write buffers across the hot path.
var bufferPool = sync.Pool{New: func() interface{} { return new(bytes.Buffer) }}

// Marshal encodes v to msgpack by flattening it to a map[string]interface{}
// and writing that through msgp's generic runtime, avoiding a dependency on
// per-type EncodeMsg methods that normally come from `go:generate msgp`.
func Marshal(v Message) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	w := msgp.NewWriter(buf)
	if err := w.WriteMapStrIntf(v.toMap()); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// Unmarshal decodes data into v, which must be a pointer to one of the
// message types in this package.
func Unmarshal(data []byte, v Message) error {
	r := msgp.NewReader(bytes.NewReader(data))
	raw, err := r.ReadIntf()
	if err != nil {
		return err
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return ErrUnknownMessageType
	}
	return v.fromMap(m)
}

// PeekType decodes only enough of data to read its "type" discriminator,
// letting a session's readPump dispatch to the right concrete type before
// fully unmarshaling.
func PeekType(data []byte) (string, error) {
	r := msgp.NewReader(bytes.NewReader(data))
	raw, err := r.ReadIntf()
	if err != nil {
		return "", err
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return "", ErrUnknownMessageType
	}
	t, _ := m["type"].(string)
	if t == "" {
		return "", ErrUnknownMessageType
	}
	return t, nil
}

func str(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolean(m map[string]interface{}, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// integer tolerates every numeric type msgp.ReadIntf can hand back
// (int64, uint64, float64) since the wire format picks the smallest
// representation that fits the value.
func integer(m map[string]interface{}, key string) int {
	switch n := m[key].(type) {
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func stringsToIntf(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func stringsFromIntf(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func seatViewsToIntf(seats []SeatView) []interface{} {
	out := make([]interface{}, len(seats))
	for i, s := range seats {
		out[i] = s.toMap()
	}
	return out
}

func seatViewsFromIntf(v interface{}) []SeatView {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]SeatView, 0, len(raw))
	for _, e := range raw {
		if sm, ok := e.(map[string]interface{}); ok {
			out = append(out, seatViewFromMap(sm))
		}
	}
	return out
}

func itoa(i int) string { return strconv.Itoa(i) }
func atoi(s string) int { n, _ := strconv.Atoi(s); return n }
