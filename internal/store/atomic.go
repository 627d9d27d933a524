package store

import (
	"encoding/json"
	"os"
)

// writeJSONAtomic writes via a temp file and rename so readers never see
// a torn document. Windows cannot rename over an existing file, hence the
// remove-and-retry.
func writeJSONAtomic(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err == nil {
		return nil
	}

	defer os.Remove(tmp)
	_ = os.Remove(path)
	return os.Rename(tmp, path)
}
