package device

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestFromPayload_MapsAPINames(t *testing.T) {
	r := FromPayload(SamplePayload(), fixedNow)

	checks := map[string]Value{
		KeyName:               String("Pixel 7 Pro"),
		KeyIsRooted:           Bool(false),
		KeyIMEI:               String("356938035643809"),
		KeySerialNumber:       String("28281FDH2000KN"),
		KeySecurityPatchLevel: String("2024-03-05"),
		KeyStorageSize:        Number(128),
		KeyLastBackup:         String("2024-04-01T22:15:00Z"),
	}

	for key, want := range checks {
		if got := r.Get(key); !got.Equal(want) {
			t.Errorf("%s = %#v, want %#v", key, got, want)
		}
	}
}

func TestFromPayload_Fallbacks(t *testing.T) {
	p := Payload{
		"deviceName":   "",
		"rootStatus":   nil,
		"totalStorage": float64(0),
		"lastBackup":   false,
		"imeiNumber":   map[string]interface{}{"bad": 1},
	}

	r := FromPayload(p, fixedNow)

	checks := map[string]Value{
		KeyName:             String("Unknown"),
		KeyManufacturer:     String("Unknown"),
		KeyIsRooted:         Bool(false),
		KeyIMEI:             String("Unknown"),
		KeySeizedDate:       String("2024-05-01T12:00:00Z"),
		KeyStorageSize:      Number(0),
		KeyComplianceStatus: String("Unknown"),
		KeyLastBackup:       Null(),
	}

	for key, want := range checks {
		if got := r.Get(key); !got.Equal(want) {
			t.Errorf("%s = %#v, want %#v", key, got, want)
		}
	}

	if len(r) != len(Keys) {
		t.Errorf("record has %d keys, want %d", len(r), len(Keys))
	}
}

func TestFromPayload_AcceptsRecordKeys(t *testing.T) {
	p := Payload{
		"name":     "Exported Phone",
		"isRooted": true,
		"imei":     "123",
	}

	r := FromPayload(p, fixedNow)

	if s, _ := r.Get(KeyName).Str(); s != "Exported Phone" {
		t.Errorf("name = %q, want Exported Phone", s)
	}
	if b, _ := r.Get(KeyIsRooted).BoolValue(); !b {
		t.Error("isRooted should be true")
	}
}

func TestFromPayload_APINameWins(t *testing.T) {
	p := Payload{"deviceName": "api", "name": "record"}

	r := FromPayload(p, fixedNow)

	if s, _ := r.Get(KeyName).Str(); s != "api" {
		t.Errorf("name = %q, want api", s)
	}
}

func TestParsePayload(t *testing.T) {
	if _, err := ParsePayload([]byte(`{"deviceName":"x"}`)); err != nil {
		t.Errorf("ParsePayload() error = %v", err)
	}

	bad := []string{`not json`, `null`, `[1,2]`}
	for _, body := range bad {
		if _, err := ParsePayload([]byte(body)); err == nil {
			t.Errorf("ParsePayload(%s) should fail", body)
		}
	}
}
