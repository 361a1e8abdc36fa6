package device

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Attribute keys of a device record
const (
	KeyName               = "name"
	KeyManufacturer       = "manufacturer"
	KeyModel              = "model"
	KeyIsRooted           = "isRooted"
	KeyIMEI               = "imei"
	KeySerialNumber       = "serialNumber"
	KeyAndroidVersion     = "androidVersion"
	KeySecurityPatchLevel = "securityPatchLevel"
	KeySeizedDate         = "seizedDate"
	KeyPhoneNumber        = "phoneNumber"
	KeyStorageSize        = "storageSize"
	KeyComplianceStatus   = "complianceStatus"
	KeyLastBackup         = "lastBackup"
)

// LoadingText is the placeholder shown while data is being fetched
const LoadingText = "Loading..."

// Keys lists every record key in display order
var Keys = []string{
	KeyName,
	KeyManufacturer,
	KeyModel,
	KeyIsRooted,
	KeyIMEI,
	KeySerialNumber,
	KeyAndroidVersion,
	KeySecurityPatchLevel,
	KeySeizedDate,
	KeyPhoneNumber,
	KeyStorageSize,
	KeyComplianceStatus,
	KeyLastBackup,
}

// Record maps attribute keys to primitive values
type Record map[string]Value

// Placeholder returns the record displayed before any data has loaded
func Placeholder() Record {
	r := make(Record, len(Keys))
	for _, key := range Keys {
		r[key] = String(LoadingText)
	}
	r[KeyIsRooted] = Bool(false)
	r[KeyLastBackup] = Null()
	return r
}

// Get returns the value for key, or null when the key is absent
func (r Record) Get(key string) Value {
	if r == nil {
		return Null()
	}
	return r[key]
}

// Clone returns an independent copy of the record
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Equal reports whether both records hold the same keys and values
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// IsLoading reports whether the record is still the startup placeholder
func (r Record) IsLoading() bool {
	s, ok := r.Get(KeyName).Str()
	return ok && s == LoadingText
}

// MarshalJSON writes known keys in display order followed by any extra keys
// in sorted order.
func (r Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	known := make(map[string]bool, len(Keys))
	ordered := make([]string, 0, len(r))
	for _, key := range Keys {
		known[key] = true
		if _, ok := r[key]; ok {
			ordered = append(ordered, key)
		}
	}

	var extra []string
	for key := range r {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	ordered = append(ordered, extra...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range ordered {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := r[key].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat JSON object of primitives
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record(raw)
	return nil
}
