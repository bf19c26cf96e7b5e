package util

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SaveJSON writes v as indented JSON, creating parent directories as
// needed.
func SaveJSON(savePath string, v any) error {
	if dir := filepath.Dir(savePath); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(savePath, data, 0644)
}

// AppendLines appends the given strings to a file separated by new lines.
func AppendLines(savePath string, content ...string) error {
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}

	defer f.Close()

	for _, s := range content {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}
