package baseline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// honeypotsKey is the one top-level key of the baseline file that is not a
// watched path. Watched paths are always absolute, so no collision is
// possible.
const honeypotsKey = "honeypots"

// fileSchema validates the persisted baseline before decoding. A baseline
// file that exists but does not match is a hard startup error: the detector
// must never continue from partial or undefined state.
var fileSchema = jsonschema.MustCompileString("baseline.schema.json", `{
	"type": "object",
	"properties": {
		"honeypots": {
			"type": "array",
			"items": {"type": "string"}
		}
	},
	"additionalProperties": {
		"type": "object",
		"required": ["history", "latest"],
		"properties": {
			"history": {
				"type": "array",
				"items": {"$ref": "#/$defs/profile"}
			},
			"latest": {"$ref": "#/$defs/profile"}
		}
	},
	"$defs": {
		"profile": {
			"type": "object",
			"required": ["checksum", "entropy", "mtime", "timestamp", "ngram", "size"],
			"properties": {
				"checksum": {"type": "string"},
				"entropy": {"type": "number", "minimum": 0, "maximum": 8},
				"mtime": {"type": "number"},
				"timestamp": {"type": "string"},
				"ngram": {
					"type": "object",
					"additionalProperties": {"type": "integer"}
				},
				"size": {"type": "integer", "minimum": 0}
			}
		}
	}
}`)

// Load reads the baseline file at path. An absent file yields an empty
// store; a present but malformed file is an error.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewStore(), nil
		}
		return nil, fmt.Errorf("read baseline: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse baseline %s: %w", path, err)
	}
	if err := fileSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate baseline %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse baseline %s: %w", path, err)
	}

	s := NewStore()
	for key, msg := range raw {
		if key == honeypotsKey {
			var names []string
			if err := json.Unmarshal(msg, &names); err != nil {
				return nil, fmt.Errorf("decode honeypots: %w", err)
			}
			s.SetHoneypots(names)
			continue
		}

		var e Entry
		if err := json.Unmarshal(msg, &e); err != nil {
			return nil, fmt.Errorf("decode baseline entry %s: %w", key, err)
		}
		s.entries[key] = &e
	}

	return s, nil
}

// Save writes the full store to path, replacing any previous file. The
// write goes through a temporary file and rename so an interrupted save
// never leaves a truncated baseline behind.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	out := make(map[string]any, len(s.entries)+1)
	for p, e := range s.entries {
		out[p] = e
	}
	if s.honeypotsSet {
		out[honeypotsKey] = s.honeypots
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create baseline directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".baseline-*.json")
	if err != nil {
		return fmt.Errorf("create temp baseline: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write baseline: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close baseline: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace baseline: %w", err)
	}
	return nil
}
