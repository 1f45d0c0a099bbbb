// initdata prints Telegram Mini App launch data signed with a bot token.
// It is meant for exercising the server locally without a Telegram client:
//
//	curl -d "{\"initData\":\"$(initdata --id 42 --first-name Nina)\"}" localhost:8080/api/auth/telegram
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/dtroode/miniapp-server/internal/initdata"
)

type telegramUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		botToken   string
		user       telegramUser
		startParam string
		age        time.Duration
	)

	flagSet := pflag.NewFlagSet("initdata", pflag.ContinueOnError)
	flagSet.StringVar(&botToken, "bot-token", os.Getenv("TELEGRAM_BOT_TOKEN"), "bot token to sign with (default: $TELEGRAM_BOT_TOKEN)")
	flagSet.Int64Var(&user.ID, "id", 0, "Telegram user id")
	flagSet.StringVar(&user.FirstName, "first-name", "", "first name")
	flagSet.StringVar(&user.LastName, "last-name", "", "last name")
	flagSet.StringVar(&user.Username, "username", "", "username")
	flagSet.StringVar(&user.LanguageCode, "language-code", "en", "IETF language tag")
	flagSet.StringVar(&user.PhotoURL, "photo-url", "", "profile photo URL")
	flagSet.StringVar(&startParam, "start-param", "", "start_param value")
	flagSet.DurationVar(&age, "age", 0, "how long ago the data was issued")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if botToken == "" {
		return errors.New("--bot-token or TELEGRAM_BOT_TOKEN is required")
	}
	if user.ID == 0 {
		return errors.New("--id is required")
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	fields := map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Add(-age).Unix(), 10),
		"user":      string(raw),
	}
	if startParam != "" {
		fields["start_param"] = startParam
	}

	fmt.Println(initdata.Sign(fields, botToken))
	return nil
}
