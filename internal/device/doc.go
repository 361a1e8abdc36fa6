// Package device defines the device-attribute record shown by Android Lens.
//
// A Record maps a fixed set of attribute keys (name, imei, securityPatchLevel, ...)
// to primitive Values. Records are created with placeholder "Loading..." values at
// startup and are replaced wholesale when data arrives; callers never mutate a
// record field by field after load.
//
// # Payload Mapping
//
// The remote API uses its own field names (deviceName, rootStatus, imeiNumber, ...).
// FromPayload maps such an object onto a Record, substituting a fallback for every
// field that is missing or falsy:
//
//	payload, _ := device.ParsePayload(body)
//	record := device.FromPayload(payload, time.Now())
//
// # JSON
//
// A Record encodes as a flat JSON object keyed by its attribute keys. Decoding the
// encoded form yields an equal Record, which is what the export feature relies on.
package device
