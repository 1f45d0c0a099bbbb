package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/dtroode/miniapp-server/internal/model"
)

const (
	hashField       = "hash"
	webAppDataConst = "WebAppData"
)

// Verify reports whether payload carries a valid hash for botToken.
// Malformed payloads and mismatching hashes both yield false.
func Verify(payload, botToken string) bool {
	return Validate(payload, botToken) == nil
}

// Validate checks the payload signature and returns ErrMalformedPayload or
// ErrSignatureMismatch on failure.
func Validate(payload, botToken string) error {
	fields, hash, err := split(payload)
	if err != nil {
		return err
	}

	expected := sign(fields, botToken)
	if !hmac.Equal([]byte(expected), []byte(hash)) {
		return model.ErrSignatureMismatch
	}

	return nil
}

// split parses payload into its non-hash fields and the hash value.
func split(payload string) (map[string]string, string, error) {
	values, err := url.ParseQuery(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", model.ErrMalformedPayload, err)
	}

	fields := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) != 1 {
			return nil, "", fmt.Errorf("%w: field %q repeated", model.ErrMalformedPayload, key)
		}
		fields[key] = vals[0]
	}

	hash, ok := fields[hashField]
	if !ok || hash == "" {
		return nil, "", fmt.Errorf("%w: hash is absent", model.ErrMalformedPayload)
	}
	delete(fields, hashField)

	return fields, hash, nil
}

// DataCheckString builds the canonical check string: fields sorted by key
// and joined as key=value lines.
func DataCheckString(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(fields[key])
	}

	return b.String()
}

// secretKey derives the HMAC key from the bot token, keyed by the
// "WebAppData" constant as Telegram does.
func secretKey(botToken string) []byte {
	mac := hmac.New(sha256.New, []byte(webAppDataConst))
	mac.Write([]byte(botToken))
	return mac.Sum(nil)
}

func sign(fields map[string]string, botToken string) string {
	mac := hmac.New(sha256.New, secretKey(botToken))
	mac.Write([]byte(DataCheckString(fields)))
	return hex.EncodeToString(mac.Sum(nil))
}
