package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/sdkloader/internal/trace"
)

// marshalPayload serializes an argument list to canonical JSON.
// A nil list is stored as [].
func marshalPayload(args []any) (string, error) {
	if args == nil {
		args = []any{}
	}
	data, err := trace.MarshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(data), nil
}

// unmarshalPayload parses a stored argument list. Numbers stay json.Number
// so that re-marshalling reproduces the stored bytes. An empty list reads
// back as nil.
func unmarshalPayload(data string) ([]any, error) {
	if data == "" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var args []any
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	if len(args) == 0 {
		return nil, nil
	}
	return args, nil
}
