package extract

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeBase64Payload turns a caller-supplied base64 string into raw
// document bytes. Data-URL style inputs ("data:image/png;base64,....") are
// accepted; everything up to and including the "base64," marker is
// stripped. Malformed base64 is the caller's error to deal with.
func DecodeBase64Payload(s string) ([]byte, error) {
	if idx := strings.Index(s, "base64,"); idx >= 0 {
		s = s[idx+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	return data, nil
}
