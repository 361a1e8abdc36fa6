// Package export writes the current device record as an indented JSON file.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/muurk/androidlens/internal/device"
)

// FileName is the default export file name
const FileName = "android-lens-device-data.json"

// SuccessMessage is the toast shown after an export
const SuccessMessage = "Device data exported successfully"

// Marshal encodes r as JSON indented by two spaces
func Marshal(r device.Record) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode device record: %w", err)
	}
	return data, nil
}

// Unmarshal decodes an exported record
func Unmarshal(data []byte) (device.Record, error) {
	var r device.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode device record: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("export does not contain a device record")
	}
	return r, nil
}

// WriteFile writes r to FileName inside dir and returns the file path. The
// file is written to a temporary name first and renamed into place.
func WriteFile(dir string, r device.Record) (string, error) {
	data, err := Marshal(r)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to save export: %w", err)
	}

	return path, nil
}

// ReadFile loads a record written by WriteFile
func ReadFile(path string) (device.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	return Unmarshal(data)
}
