package device

import (
	"encoding/json"
	"fmt"
	"time"
)

// Payload is a decoded JSON object returned by the device-info API
type Payload map[string]interface{}

// ParsePayload decodes a JSON object body
func ParsePayload(body []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to decode device payload: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("device payload is not a JSON object")
	}
	return p, nil
}

// mapping describes where a record field comes from in the API payload and
// what to use when the source is missing or falsy.
type mapping struct {
	key      string
	source   string
	fallback func(now time.Time) Value
}

func constant(v Value) func(time.Time) Value {
	return func(time.Time) Value { return v }
}

var unknown = constant(String("Unknown"))

var payloadMappings = []mapping{
	{key: KeyName, source: "deviceName", fallback: unknown},
	{key: KeyManufacturer, source: "manufacturer", fallback: unknown},
	{key: KeyModel, source: "model", fallback: unknown},
	{key: KeyIsRooted, source: "rootStatus", fallback: constant(Bool(false))},
	{key: KeyIMEI, source: "imeiNumber", fallback: unknown},
	{key: KeySerialNumber, source: "serial", fallback: unknown},
	{key: KeyAndroidVersion, source: "androidVersion", fallback: unknown},
	{key: KeySecurityPatchLevel, source: "securityPatch", fallback: unknown},
	{key: KeySeizedDate, source: "seizedDate", fallback: func(now time.Time) Value {
		return String(now.UTC().Format(time.RFC3339))
	}},
	{key: KeyPhoneNumber, source: "phoneNumber", fallback: unknown},
	{key: KeyStorageSize, source: "totalStorage", fallback: constant(Number(0))},
	{key: KeyComplianceStatus, source: "complianceStatus", fallback: unknown},
	{key: KeyLastBackup, source: "lastBackup", fallback: constant(Null())},
}

// FromPayload builds a complete Record from an API payload.
//
// Each field is read from its API name first and from the record key second,
// so an exported record can be fed back in. Missing, non-primitive and falsy
// values are replaced by the field's fallback. now supplies the fallback for
// seizedDate.
func FromPayload(p Payload, now time.Time) Record {
	r := make(Record, len(payloadMappings))
	for _, m := range payloadMappings {
		v, ok := lookup(p, m.source, m.key)
		if !ok || !v.Truthy() {
			v = m.fallback(now)
		}
		r[m.key] = v
	}
	return r
}

func lookup(p Payload, names ...string) (Value, bool) {
	for _, name := range names {
		raw, present := p[name]
		if !present {
			continue
		}
		return FromAny(raw)
	}
	return Null(), false
}
