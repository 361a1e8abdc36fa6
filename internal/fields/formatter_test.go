package fields

import (
	"testing"
	"time"

	"github.com/muurk/androidlens/internal/device"
)

var testNow = time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC)

func TestRootStatus(t *testing.T) {
	env := Env{Now: testNow}

	tests := []struct {
		name     string
		value    device.Value
		wantText string
		wantTone Tone
	}{
		{"rooted", device.Bool(true), "Rooted", ToneNegative},
		{"not rooted", device.Bool(false), "Not Rooted", TonePositive},
		{"null", device.Null(), "Not Rooted", TonePositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRootStatus(tt.value, env); got != tt.wantText {
				t.Errorf("FormatRootStatus() = %q, want %q", got, tt.wantText)
			}
			tone := RootStatusTone(tt.value, env)
			if tone != tt.wantTone {
				t.Errorf("RootStatusTone() = %v, want %v", tone, tt.wantTone)
			}
		})
	}

	if RootStatusTone(device.Bool(true), env).CSSClass() != "red" {
		t.Error("rooted should use the red class")
	}
	if RootStatusTone(device.Bool(false), env).CSSClass() != "green" {
		t.Error("not rooted should use the green class")
	}
}

func TestIsPatchCurrent(t *testing.T) {
	boundary := testNow.AddDate(0, -6, 0)

	tests := []struct {
		name  string
		value device.Value
		want  bool
	}{
		{"exactly six months ago", device.String(boundary.Format(time.RFC3339Nano)), true},
		{"one second before boundary", device.String(boundary.Add(-time.Second).Format(time.RFC3339)), false},
		{"one second after boundary", device.String(boundary.Add(time.Second).Format(time.RFC3339)), true},
		{"recent date only", device.String("2024-09-01"), true},
		{"old date only", device.String("2023-01-05"), false},
		{"future", device.String("2025-01-01"), true},
		{"loading", device.String(device.LoadingText), false},
		{"empty", device.String(""), false},
		{"null", device.Null(), false},
		{"garbage", device.String("Unknown"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPatchCurrent(tt.value, testNow); got != tt.want {
				t.Errorf("IsPatchCurrent(%#v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestPatchTone_Boundary(t *testing.T) {
	env := Env{Now: testNow}
	boundary := device.String(testNow.AddDate(0, -6, 0).Format(time.RFC3339))

	if got := PatchTone(boundary, env); got != TonePositive {
		t.Errorf("PatchTone(boundary) = %v, want positive", got)
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		value device.Value
		want  string
	}{
		{device.String("2024-03-05"), "March 5, 2024"},
		{device.String("2024-04-12T09:30:00Z"), "April 12, 2024"},
		{device.String("2024-04-12T09:30:00.123+02:00"), "April 12, 2024"},
		{device.String("2024-12-31T23:59:59"), "December 31, 2024"},
		{device.String(device.LoadingText), device.LoadingText},
		{device.String(""), ""},
		{device.String("not a date"), InvalidDateText},
		{device.Number(0), "January 1, 1970"},
	}

	for _, tt := range tests {
		if got := FormatDate(tt.value); got != tt.want {
			t.Errorf("FormatDate(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatLastBackup(t *testing.T) {
	env := Env{Now: testNow}

	if got := FormatLastBackup(device.Null(), env); got != "Never" {
		t.Errorf("FormatLastBackup(null) = %q, want Never", got)
	}
	if got := FormatLastBackup(device.String(""), env); got != "Never" {
		t.Errorf("FormatLastBackup(\"\") = %q, want Never", got)
	}
	if got := FormatLastBackup(device.String("2024-04-01T22:15:00Z"), env); got != "April 1, 2024" {
		t.Errorf("FormatLastBackup() = %q, want April 1, 2024", got)
	}
}

func TestFormatStorage(t *testing.T) {
	env := Env{Now: testNow}

	if got := FormatStorage(device.Number(128), env); got != "128 GB" {
		t.Errorf("FormatStorage(128) = %q", got)
	}
	if got := FormatStorage(device.Number(0.5), env); got != "0.5 GB" {
		t.Errorf("FormatStorage(0.5) = %q", got)
	}
}

func TestComplianceTone(t *testing.T) {
	env := Env{Now: testNow}

	if ComplianceTone(device.String("Compliant"), env) != TonePositive {
		t.Error("Compliant should be positive")
	}
	for _, s := range []string{"Non-Compliant", "compliant", "Unknown", device.LoadingText} {
		if ComplianceTone(device.String(s), env) != ToneNegative {
			t.Errorf("%q should be negative", s)
		}
	}
}
