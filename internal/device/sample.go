package device

// SamplePayload returns the hard-coded device used when no API endpoint is
// configured. Keys follow the API naming so it goes through FromPayload like
// a real response.
func SamplePayload() Payload {
	return Payload{
		"deviceName":       "Pixel 7 Pro",
		"manufacturer":     "Google",
		"model":            "GE2AE",
		"rootStatus":       false,
		"imeiNumber":       "356938035643809",
		"serial":           "28281FDH2000KN",
		"androidVersion":   "14",
		"securityPatch":    "2024-03-05",
		"seizedDate":       "2024-04-12T09:30:00Z",
		"phoneNumber":      "+1 555 0134",
		"totalStorage":     float64(128),
		"complianceStatus": "Compliant",
		"lastBackup":       "2024-04-01T22:15:00Z",
	}
}
