package npm

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// versionKeys holds the keys of a "versions" object in document order.
// Values are skipped without being decoded.
type versionKeys []string

func (v *versionKeys) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("versions: expected object, got %v", tok)
	}

	keys := versionKeys{}
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("versions: expected key, got %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
		// A repeated key keeps its first position.
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*v = keys
	return nil
}

func (v versionKeys) last() (string, bool) {
	if len(v) == 0 {
		return "", false
	}
	return v[len(v)-1], true
}
