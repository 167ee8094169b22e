package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
)

const (
	ssmSessionSecret = "admin-session-secret"
	ssmAdminPassword = "admin-password"
)

type (
	Session struct {
		Secret    string        `envconfig:"SESSION_SECRET"`
		Issuer    string        `envconfig:"SESSION_ISSUER" default:"lawhelp-admin"`
		ExpiresIn time.Duration `envconfig:"SESSION_EXPIRES_IN" default:"24h"`
	}

	Cookie struct {
		Name   string `envconfig:"COOKIE_NAME" default:"lh_admin_session"`
		Path   string `envconfig:"CPATH" default:"/"` // not using PATH here because it may conflict with os.Path
		Domain string `envconfig:"COOKIE_DOMAIN"`
		Secure bool   `envconfig:"SECURE_COOKIE" default:"false"`
	}

	HTTP struct {
		ProcessTimeout time.Duration `envconfig:"PROCESS_TIMEOUT" default:"10s"`
		RateLimit      float64       `envconfig:"RATE_LIMIT" default:"25"`
		UploadLimit    string        `envconfig:"UPLOAD_LIMIT" default:"10M"`
	}

	Server struct {
		ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
		Addr              string        `envconfig:"ADDR" default:":8001"`
	}

	// Admin embeds its groups so every variable keeps the flat ADMIN_ prefix,
	// e.g. ADMIN_SESSION_SECRET rather than ADMIN_SESSION_SESSION_SECRET.
	Admin struct {
		Dev        bool   `default:"false"`
		DataDir    string `envconfig:"DATA_DIR" default:"./data"`
		Password   string `envconfig:"PASSWORD" default:"admin"`
		BcryptCost int    `envconfig:"BCRYPT_COST" default:"10"`

		Session
		Cookie
		HTTP
		Server

		AWS AWS `ignored:"true"`
	}
)

func (a *Admin) Env() Env {
	return envOf(a.Dev)
}

func GetAdmin(ctx context.Context) (*Admin, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	res := &Admin{}
	if err := envconfig.Process("ADMIN", res); err != nil {
		return nil, fmt.Errorf("parse admin environment: %w", err)
	}

	awsConf, err := getAWS()
	if err != nil {
		return nil, err
	}
	res.AWS = awsConf

	if !res.Dev && res.AWS.SSMPrefix != "" {
		if err = setAdminProdConfig(ctx, res); err != nil {
			return nil, fmt.Errorf("set admin prod config: %w", err)
		}
	}

	return validateAdmin(res)
}

// validateAdmin fills a throwaway session secret in dev mode so sessions
// simply do not survive a restart.
func validateAdmin(conf *Admin) (*Admin, error) {
	if conf.Session.Secret == "" && conf.Dev {
		conf.Session.Secret = uuid.NewString()
	}

	errs := make([]string, 0, 6) //nolint:mnd // number of checks below
	if conf.DataDir == "" {
		errs = append(errs, "data dir is required")
	}
	if conf.Session.Secret == "" {
		errs = append(errs, "session secret is required")
	}
	if conf.Session.ExpiresIn <= 0 {
		errs = append(errs, "session expiration must be positive")
	}
	if conf.HTTP.RateLimit <= 0 {
		errs = append(errs, "rate limit must be positive")
	}
	if conf.HTTP.ProcessTimeout <= 0 {
		errs = append(errs, "process timeout must be positive")
	}
	if conf.BcryptCost < bcrypt.MinCost || conf.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Sprintf("bcrypt cost %d must be in range %d-%d", conf.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %s", strings.Join(errs, ", "))
	}

	return conf, nil
}

func setAdminProdConfig(ctx context.Context, target *Admin) error {
	return applyAdminParams(ctx, target, func(ctx context.Context, keys ...string) (map[string]string, error) {
		return FetchAWSParams(ctx, target.AWS.Region, keys...)
	})
}

func applyAdminParams(ctx context.Context, target *Admin, fetch func(ctx context.Context, keys ...string) (map[string]string, error)) error {
	secretKey := ssmKey(target.AWS.SSMPrefix, ssmSessionSecret)
	passwordKey := ssmKey(target.AWS.SSMPrefix, ssmAdminPassword)

	parameters, err := fetch(ctx, secretKey, passwordKey)
	if err != nil {
		return fmt.Errorf("get parameters: %w", err)
	}

	for name, value := range parameters {
		switch name {
		case secretKey:
			target.Session.Secret = value
		case passwordKey:
			target.Password = value
		}
	}

	return nil
}
