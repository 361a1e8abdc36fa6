package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/muurk/androidlens/internal/device"
)

func TestRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		record device.Record
	}{
		{"placeholder", device.Placeholder()},
		{"sample", device.FromPayload(device.SamplePayload(), now)},
		{"fallbacks", device.FromPayload(device.Payload{}, now)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(tt.record)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			got, err := Unmarshal(data)
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !got.Equal(tt.record) {
				t.Errorf("round trip mismatch:\n got %v\nwant %v", got, tt.record)
			}
		})
	}
}

func TestMarshal_Indent(t *testing.T) {
	data, err := Marshal(device.Placeholder())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	lines := strings.Split(string(data), "\n")
	if lines[0] != "{" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[1] != `  "name": "Loading...",` {
		t.Errorf("second line = %q, want two-space indent", lines[1])
	}
	if !strings.Contains(string(data), `"lastBackup": null`) {
		t.Error("null values should be written as null")
	}
}

func TestWriteAndReadFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	record := device.FromPayload(device.SamplePayload(), time.Now())

	path, err := WriteFile(dir, record)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if filepath.Base(path) != FileName {
		t.Errorf("file name = %s, want %s", filepath.Base(path), FileName)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be gone")
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !got.Equal(record) {
		t.Error("file round trip mismatch")
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	for _, input := range []string{"", "null", "[1,2]", `{"name":{"nested":true}}`} {
		if _, err := Unmarshal([]byte(input)); err == nil {
			t.Errorf("Unmarshal(%q) should fail", input)
		}
	}
}
