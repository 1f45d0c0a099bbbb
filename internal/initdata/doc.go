// Package initdata validates Telegram Mini App launch data.
//
// Launch data is a URL-encoded query string signed by Telegram with a key
// derived from the bot token. Validation runs in three steps: the HMAC check
// over the canonical data-check-string, extraction of the embedded user, and
// the freshness gate on auth_date.
package initdata
