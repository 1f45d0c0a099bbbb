package initdata

import (
	"net/url"
)

// Sign encodes fields as launch data signed with botToken. A hash present in
// fields is replaced.
func Sign(fields map[string]string, botToken string) string {
	unsigned := make(map[string]string, len(fields))
	values := url.Values{}
	for key, value := range fields {
		if key == hashField {
			continue
		}
		unsigned[key] = value
		values.Set(key, value)
	}
	values.Set(hashField, sign(unsigned, botToken))

	return values.Encode()
}
