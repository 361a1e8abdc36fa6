// Package fields holds the static display registry for device attributes.
//
// Each Descriptor says how one record key is labelled, which section it
// belongs to, which icon it uses, and optionally how its value is formatted and
// which semantic tone (positive/negative) it is highlighted with.
package fields

import (
	"time"

	"github.com/muurk/androidlens/internal/device"
)

// Section groups descriptors on the dashboard
type Section string

const (
	SectionDevice Section = "device"
	SectionOther  Section = "other"
)

// Sections lists every section in display order
var Sections = []Section{SectionDevice, SectionOther}

// Title returns the heading shown above a section
func (s Section) Title() string {
	switch s {
	case SectionDevice:
		return "Device Details"
	case SectionOther:
		return "Other Information"
	default:
		return string(s)
	}
}

// DefaultIcon is used for descriptors without an icon
const DefaultIcon = "fa-info-circle"

// Env carries the inputs formatters need besides the value itself
type Env struct {
	Now time.Time
}

// NewEnv returns an Env for the current time
func NewEnv() Env {
	return Env{Now: time.Now()}
}

// FormatFunc turns a raw value into display text
type FormatFunc func(v device.Value, env Env) string

// ClassFunc picks the semantic tone for a raw value
type ClassFunc func(v device.Value, env Env) Tone

// Descriptor is the display metadata for one record key
type Descriptor struct {
	Key     string
	Label   string
	Section Section
	Icon    string

	// Format is optional; nil shows the value's default text.
	Format FormatFunc

	// Class is optional; nil means ToneNone.
	Class ClassFunc
}

// Text formats v using the descriptor's formatter or the default text
func (d Descriptor) Text(v device.Value, env Env) string {
	if d.Format == nil {
		return v.Text()
	}
	return d.Format(v, env)
}

// Tone returns the semantic tone for v
func (d Descriptor) Tone(v device.Value, env Env) Tone {
	if d.Class == nil {
		return ToneNone
	}
	return d.Class(v, env)
}

// IconOrDefault returns the icon, falling back to DefaultIcon
func (d Descriptor) IconOrDefault() string {
	if d.Icon == "" {
		return DefaultIcon
	}
	return d.Icon
}

// Registry is an ordered list of descriptors
type Registry []Descriptor

// Lookup returns the descriptor for key
func (r Registry) Lookup(key string) (Descriptor, bool) {
	for _, d := range r {
		if d.Key == key {
			return d, true
		}
	}
	return Descriptor{}, false
}

// InSection returns the descriptors of one section in registry order
func (r Registry) InSection(s Section) []Descriptor {
	var out []Descriptor
	for _, d := range r {
		if d.Section == s {
			out = append(out, d)
		}
	}
	return out
}

var defaultRegistry = Registry{
	// Device details
	{Key: device.KeyName, Label: "Device Name", Section: SectionDevice, Icon: "fa-mobile"},
	{Key: device.KeyManufacturer, Label: "Manufacturer", Section: SectionDevice, Icon: "fa-industry"},
	{Key: device.KeyModel, Label: "Model", Section: SectionDevice, Icon: "fa-tag"},
	{
		Key:     device.KeyIsRooted,
		Label:   "Root Status",
		Section: SectionDevice,
		Icon:    "fa-shield-alt",
		Format:  FormatRootStatus,
		Class:   RootStatusTone,
	},
	{Key: device.KeyIMEI, Label: "IMEI", Section: SectionDevice, Icon: "fa-barcode"},
	{Key: device.KeySerialNumber, Label: "Serial Number", Section: SectionDevice, Icon: "fa-hashtag"},
	{Key: device.KeyAndroidVersion, Label: "Android Version", Section: SectionDevice, Icon: "fa-android"},
	{
		Key:     device.KeySecurityPatchLevel,
		Label:   "Security Patch",
		Section: SectionDevice,
		Icon:    "fa-lock",
		Class:   PatchTone,
	},

	// Other information
	{
		Key:     device.KeySeizedDate,
		Label:   "Seized Date",
		Section: SectionOther,
		Icon:    "fa-calendar-alt",
		Format:  FormatDateValue,
	},
	{Key: device.KeyPhoneNumber, Label: "Phone Number", Section: SectionOther, Icon: "fa-phone"},
	{
		Key:     device.KeyStorageSize,
		Label:   "Storage",
		Section: SectionOther,
		Icon:    "fa-hdd",
		Format:  FormatStorage,
	},
	{
		Key:     device.KeyComplianceStatus,
		Label:   "Compliance",
		Section: SectionOther,
		Icon:    "fa-check-circle",
		Class:   ComplianceTone,
	},
	{
		Key:     device.KeyLastBackup,
		Label:   "Last Backup",
		Section: SectionOther,
		Icon:    "fa-cloud",
		Format:  FormatLastBackup,
	},
}

// Default returns a copy of the built-in registry
func Default() Registry {
	out := make(Registry, len(defaultRegistry))
	copy(out, defaultRegistry)
	return out
}
