package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Roma7-7-7/lawhelp-bot/internal/i18n"
)

const (
	ssmTelegramToken  = "telegram-token"
	ssmAllowedChatIDs = "allowed-chat-ids"
)

type Bot struct {
	Dev             bool          `default:"false"`
	TelegramToken   string        `envconfig:"TELEGRAM_TOKEN"`
	DataDir         string        `envconfig:"DATA_DIR" default:"./data"`
	AllowedChatIDs  []int64       `envconfig:"ALLOWED_CHAT_IDS"`
	SessionTTL      time.Duration `envconfig:"SESSION_TTL" default:"0s"`
	SweepInterval   time.Duration `envconfig:"SWEEP_INTERVAL" default:"10m"`
	DefaultLanguage string        `envconfig:"DEFAULT_LANGUAGE" default:"ru"`
	AWS             AWS           `ignored:"true"`
}

func (b *Bot) Env() Env {
	return envOf(b.Dev)
}

func (b *Bot) Language() i18n.Lang {
	return i18n.Parse(b.DefaultLanguage)
}

func GetBot(ctx context.Context) (*Bot, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	res := &Bot{}
	if err := envconfig.Process("BOT", res); err != nil {
		return nil, fmt.Errorf("parse bot environment: %w", err)
	}

	awsConf, err := getAWS()
	if err != nil {
		return nil, err
	}
	res.AWS = awsConf

	if !res.Dev && res.AWS.SSMPrefix != "" {
		if err = setBotProdConfig(ctx, res); err != nil {
			return nil, fmt.Errorf("set bot prod config: %w", err)
		}
	}

	return validateBot(res)
}

func validateBot(conf *Bot) (*Bot, error) {
	errs := make([]string, 0, 5) //nolint:mnd // number of checks below
	if conf.TelegramToken == "" {
		errs = append(errs, "telegram token is required")
	}
	if conf.DataDir == "" {
		errs = append(errs, "data dir is required")
	}
	if conf.SessionTTL < 0 {
		errs = append(errs, fmt.Sprintf("session ttl %s must not be negative", conf.SessionTTL))
	}
	if conf.SessionTTL > 0 && conf.SweepInterval <= 0 {
		errs = append(errs, "sweep interval is required when session ttl is set")
	}
	if lang := i18n.Lang(strings.ToLower(conf.DefaultLanguage)); !lang.Supported() {
		errs = append(errs, fmt.Sprintf("unsupported default language %q", conf.DefaultLanguage))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %s", strings.Join(errs, ", "))
	}

	return conf, nil
}

func setBotProdConfig(ctx context.Context, target *Bot) error {
	return applyBotParams(ctx, target, func(ctx context.Context, keys ...string) (map[string]string, error) {
		return FetchAWSParams(ctx, target.AWS.Region, keys...)
	})
}

func applyBotParams(ctx context.Context, target *Bot, fetch func(ctx context.Context, keys ...string) (map[string]string, error)) error {
	tokenKey := ssmKey(target.AWS.SSMPrefix, ssmTelegramToken)
	chatIDsKey := ssmKey(target.AWS.SSMPrefix, ssmAllowedChatIDs)

	parameters, err := fetch(ctx, tokenKey, chatIDsKey)
	if err != nil {
		return fmt.Errorf("get parameters: %w", err)
	}

	for name, value := range parameters {
		switch name {
		case tokenKey:
			target.TelegramToken = value
		case chatIDsKey:
			target.AllowedChatIDs, err = parseChatIDs(value)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
