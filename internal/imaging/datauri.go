package imaging

import (
	"encoding/base64"
	"strings"
)

// ParseDataURI splits a base64 data URI ("data:image/png;base64,...") into
// its MIME type and decoded payload. Non-data-URIs, non-base64 encodings,
// and undecodable payloads return ok=false.
func ParseDataURI(s string) (mimeType string, data []byte, ok bool) {
	const prefix = "data:"
	if !strings.HasPrefix(s, prefix) {
		return "", nil, false
	}
	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return "", nil, false
	}
	header := s[len(prefix):comma]
	payload := strings.TrimSpace(s[comma+1:])

	parts := strings.Split(header, ";")
	mimeType = strings.TrimSpace(parts[0])
	encoded := false
	for _, p := range parts[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			encoded = true
		}
	}
	if !encoded || mimeType == "" {
		return "", nil, false
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some producers omit padding.
		decoded, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, false
		}
	}
	return mimeType, decoded, true
}
