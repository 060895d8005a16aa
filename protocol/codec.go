package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrEmptyPayload  = errors.New("empty payload")
	ErrUnknownFormat = errors.New("unknown wire format")
)

// Format selects the envelope encoding for a connection.
type Format string

const (
	JSON    Format = "json"
	MsgPack Format = "msgpack"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", JSON:
		return JSON, nil
	case MsgPack:
		return MsgPack, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Binary reports whether frames in this format must go out as binary messages.
func (f Format) Binary() bool {
	return f == MsgPack
}

type jsonEnvelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

type msgpackEnvelope struct {
	T string             `msgpack:"t"`
	P msgpack.RawMessage `msgpack:"p"`
}

func (f Format) Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("trying to encode envelope with empty type")
	}
	if payload == nil {
		return nil, fmt.Errorf("trying to encode nil payload for %q", t)
	}

	switch f {
	case JSON:
		pb, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", t, err)
		}
		return json.Marshal(jsonEnvelope{T: t, P: pb})
	case MsgPack:
		pb, err := marshalMsgpack(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", t, err)
		}
		return marshalMsgpack(msgpackEnvelope{T: t, P: pb})
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

func (f Format) DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("decode envelope: %w", ErrEmptyPayload)
	}

	switch f {
	case JSON:
		var e jsonEnvelope
		if err := json.Unmarshal(b, &e); err != nil {
			return Envelope{}, fmt.Errorf("decode envelope: %w", err)
		}
		return Envelope{T: e.T, P: e.P, Format: JSON}, nil
	case MsgPack:
		var e msgpackEnvelope
		if err := msgpack.Unmarshal(b, &e); err != nil {
			return Envelope{}, fmt.Errorf("decode envelope: %w", err)
		}
		return Envelope{T: e.T, P: e.P, Format: MsgPack}, nil
	}
	return Envelope{}, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// DecodePayload unpacks env.P into T using the envelope's format.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("type %q: %w", env.T, ErrEmptyPayload)
	}

	var err error
	switch env.Format {
	case "", JSON:
		err = json.Unmarshal(env.P, &out)
	case MsgPack:
		dec := msgpack.NewDecoder(bytes.NewReader(env.P))
		dec.SetCustomStructTag("json")
		err = dec.Decode(&out)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, string(env.Format))
	}
	return out, err
}

// msgpack payloads reuse the json tags so both formats share field names.
func marshalMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
