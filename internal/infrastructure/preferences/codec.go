package preferences

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/omiri/backend/internal/domain"
)

// schemaVersion is written into every record. Version 0 denotes a bare value
// written before records were enveloped.
const schemaVersion = 1

type record struct {
	Version int             `json:"v"`
	Data    json.RawMessage `json:"data"`
}

func encodeRecord(value interface{}) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(record{Version: schemaVersion, Data: data})
}

// decodeRecord returns the schema version and the payload of a stored value
func decodeRecord(raw []byte) (int, []byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return 0, trimmed, nil
	}

	var rec record
	if err := json.Unmarshal(trimmed, &rec); err != nil || rec.Version == 0 {
		return 0, trimmed, nil
	}
	if rec.Version > schemaVersion {
		return rec.Version, nil, fmt.Errorf("%w: %d", domain.ErrUnsupportedSchema, rec.Version)
	}
	return rec.Version, rec.Data, nil
}

func decodeStringList(raw []byte) ([]string, error) {
	version, data, err := decodeRecord(raw)
	if err != nil {
		return nil, err
	}
	if version == 0 {
		return splitLegacyList(string(data)), nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode list record: %w", err)
	}
	return list, nil
}

func decodeString(raw []byte) (string, error) {
	version, data, err := decodeRecord(raw)
	if err != nil {
		return "", err
	}
	if version == 0 {
		return string(data), nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("failed to decode string record: %w", err)
	}
	return s, nil
}

func decodeBool(raw []byte) (bool, error) {
	version, data, err := decodeRecord(raw)
	if err != nil {
		return false, err
	}
	if version == 0 {
		if len(data) == 0 {
			return false, nil
		}
		return strconv.ParseBool(string(data))
	}

	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return false, fmt.Errorf("failed to decode bool record: %w", err)
	}
	return b, nil
}

// splitLegacyList parses the comma-joined lists older clients stored
func splitLegacyList(s string) []string {
	var list []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}
