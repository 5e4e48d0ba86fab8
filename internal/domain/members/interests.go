package members

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeInterests serializes interests to the stored JSON array text.
// A nil slice is stored as NULL; an empty non-nil slice as "[]".
func EncodeInterests(interests []string) (*string, error) {
	if interests == nil {
		return nil, nil
	}

	data, err := json.Marshal(interests)
	if err != nil {
		return nil, fmt.Errorf("encode interests: %w", err)
	}

	encoded := string(data)
	return &encoded, nil
}

// DecodeInterests parses the stored column. NULL and blank decode to an empty slice.
func DecodeInterests(stored *string) ([]string, error) {
	if stored == nil || strings.TrimSpace(*stored) == "" {
		return []string{}, nil
	}

	var interests []string
	if err := json.Unmarshal([]byte(*stored), &interests); err != nil {
		return nil, fmt.Errorf("decode interests: %w", err)
	}
	if interests == nil {
		interests = []string{}
	}

	return interests, nil
}
