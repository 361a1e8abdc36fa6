package fields

import (
	"fmt"
	"time"

	"github.com/muurk/androidlens/internal/device"
)

// Tone is the semantic highlight of a displayed value
type Tone int

const (
	ToneNone Tone = iota
	TonePositive
	ToneNegative
)

// String returns the tone name
func (t Tone) String() string {
	switch t {
	case TonePositive:
		return "positive"
	case ToneNegative:
		return "negative"
	default:
		return "none"
	}
}

// CSSClass returns the dashboard class for the tone ("" for ToneNone)
func (t Tone) CSSClass() string {
	switch t {
	case TonePositive:
		return "green"
	case ToneNegative:
		return "red"
	default:
		return ""
	}
}

// MarshalText encodes the tone by name
func (t Tone) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// DisplayDateLayout renders dates like "March 5, 2024"
const DisplayDateLayout = "January 2, 2006"

// InvalidDateText is shown for date strings that cannot be parsed
const InvalidDateText = "Invalid Date"

// PatchWindowMonths is how recent a security patch must be to count as current
const PatchWindowMonths = 6

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses the ISO-8601 forms the API is known to send.
// Date-only strings are interpreted as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// dateOf resolves a value to a time. Numbers are epoch milliseconds.
func dateOf(v device.Value) (time.Time, bool) {
	if n, ok := v.Num(); ok {
		return time.UnixMilli(int64(n)).UTC(), true
	}
	s, ok := v.Str()
	if !ok {
		return time.Time{}, false
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// isPending reports values that are not dates yet: null, empty or the
// loading placeholder.
func isPending(v device.Value) bool {
	if v.IsNull() {
		return true
	}
	s, ok := v.Str()
	return ok && (s == "" || s == device.LoadingText)
}

// FormatDate renders a date value as "January 2, 2006". Pending values are
// returned unchanged and unparseable ones become InvalidDateText.
func FormatDate(v device.Value) string {
	if isPending(v) {
		return v.Text()
	}
	t, ok := dateOf(v)
	if !ok {
		return InvalidDateText
	}
	return t.Format(DisplayDateLayout)
}

// FormatDateValue adapts FormatDate to FormatFunc
func FormatDateValue(v device.Value, _ Env) string {
	return FormatDate(v)
}

// FormatRootStatus renders the root flag
func FormatRootStatus(v device.Value, _ Env) string {
	if v.Truthy() {
		return "Rooted"
	}
	return "Not Rooted"
}

// RootStatusTone marks rooted devices negative
func RootStatusTone(v device.Value, _ Env) Tone {
	if v.Truthy() {
		return ToneNegative
	}
	return TonePositive
}

// FormatStorage appends the GB unit
func FormatStorage(v device.Value, _ Env) string {
	return v.Text() + " GB"
}

// FormatLastBackup shows "Never" for unset backups
func FormatLastBackup(v device.Value, _ Env) string {
	if !v.Truthy() {
		return "Never"
	}
	return FormatDate(v)
}

// ComplianceTone is positive only for the exact status "Compliant"
func ComplianceTone(v device.Value, _ Env) Tone {
	if s, ok := v.Str(); ok && s == "Compliant" {
		return TonePositive
	}
	return ToneNegative
}

// IsPatchCurrent reports whether the patch date is no older than
// PatchWindowMonths before now. The boundary itself counts as current.
func IsPatchCurrent(v device.Value, now time.Time) bool {
	if isPending(v) {
		return false
	}
	patch, ok := dateOf(v)
	if !ok {
		return false
	}
	cutoff := now.AddDate(0, -PatchWindowMonths, 0)
	return !patch.Before(cutoff)
}

// PatchTone marks current security patches positive
func PatchTone(v device.Value, env Env) Tone {
	if IsPatchCurrent(v, env.Now) {
		return TonePositive
	}
	return ToneNegative
}
