package initdata

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/dtroode/miniapp-server/internal/model"
)

const (
	userField         = "user"
	authDateField     = "auth_date"
	queryIDField      = "query_id"
	chatInstanceField = "chat_instance"
	startParamField   = "start_param"
)

// telegramUser mirrors the JSON object carried in the user field.
type telegramUser struct {
	ID           *int64 `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
	IsPremium    bool   `json:"is_premium"`
	PhotoURL     string `json:"photo_url"`
}

// Extract parses the identity claim out of payload. It must only be called
// on payloads that passed Validate.
func Extract(payload string) (model.IdentityClaim, error) {
	values, err := url.ParseQuery(payload)
	if err != nil {
		return model.IdentityClaim{}, fmt.Errorf("%w: %v", model.ErrMalformedPayload, err)
	}

	rawUser := values.Get(userField)
	if rawUser == "" {
		return model.IdentityClaim{}, model.ErrMissingIdentity
	}

	user, err := decodeUser(rawUser)
	if err != nil {
		return model.IdentityClaim{}, err
	}

	rawDate := values.Get(authDateField)
	if rawDate == "" {
		return model.IdentityClaim{}, model.ErrMissingTimestamp
	}
	authDate, err := strconv.ParseInt(rawDate, 10, 64)
	if err != nil {
		return model.IdentityClaim{}, fmt.Errorf("%w: %v", model.ErrMissingTimestamp, err)
	}

	return model.IdentityClaim{
		ExternalID:   *user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		LanguageCode: user.LanguageCode,
		IsPremium:    user.IsPremium,
		AvatarURL:    user.PhotoURL,
		IssuedAt:     time.Unix(authDate, 0).UTC(),
		QueryID:      values.Get(queryIDField),
		ChatInstance: values.Get(chatInstanceField),
		StartParam:   values.Get(startParamField),
	}, nil
}

func decodeUser(raw string) (telegramUser, error) {
	var user telegramUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return telegramUser{}, fmt.Errorf("%w: %v", model.ErrMalformedIdentity, err)
	}
	if user.ID == nil {
		return telegramUser{}, fmt.Errorf("%w: id is absent", model.ErrMalformedIdentity)
	}

	return user, nil
}
