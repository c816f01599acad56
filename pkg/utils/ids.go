package utils

import (
	"strings"

	"github.com/google/uuid"
)

const (
	base36Lower = "0123456789abcdefghijklmnopqrstuvwxyz"
	base36Upper = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var entropy = uuid.New

// randomCode draws n characters of alphabet from fresh UUIDs. The version and
// variant bytes are skipped and bytes past the last full multiple of the
// alphabet size are rejected, so every character is uniform.
func randomCode(n int, alphabet string) string {
	limit := 256 - 256%len(alphabet)
	out := make([]byte, 0, n)
	for len(out) < n {
		id := entropy()
		for i, v := range id {
			if len(out) == n {
				break
			}
			if i == 6 || i == 8 || int(v) >= limit {
				continue
			}
			out = append(out, alphabet[int(v)%len(alphabet)])
		}
	}
	return string(out)
}

// NewRequestID returns "req-" followed by 9 lowercase base36 characters.
func NewRequestID() string {
	return "req-" + randomCode(9, base36Lower)
}

// NewTrackingID returns "CB-" followed by 8 uppercase alphanumerics.
func NewTrackingID() string {
	return "CB-" + randomCode(8, base36Upper)
}

// NewPaymentMethodID derives a slug from name with a short random suffix.
func NewPaymentMethodID(name string) string {
	var slug strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			slug.WriteRune(r)
		case slug.Len() > 0 && !strings.HasSuffix(slug.String(), "-"):
			slug.WriteByte('-')
		}
	}
	base := strings.Trim(slug.String(), "-")
	if base == "" {
		base = "method"
	}
	return base + "-" + randomCode(4, base36Lower)
}
