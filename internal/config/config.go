package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DefaultAWSRegion = "eu-central-1"

	EnvDev  Env = "dev"
	EnvProd Env = "prod"

	dotEnvFile = ".env"
)

type (
	Env string

	// AWS is read without a prefix so bot and admin share the same variables.
	AWS struct {
		Region    string `envconfig:"AWS_REGION" default:"eu-central-1"`
		SSMPrefix string `envconfig:"AWS_SSM_PREFIX"`
	}
)

//nolint:gochecknoglobals // .env is loaded once per process
var dotEnvOnce sync.Once

// loadDotEnv seeds the environment from ./.env when the file exists. Values
// already present in the environment win.
func loadDotEnv() error {
	var err error
	dotEnvOnce.Do(func() {
		if lErr := godotenv.Load(dotEnvFile); lErr != nil && !errors.Is(lErr, fs.ErrNotExist) {
			err = fmt.Errorf("load %s: %w", dotEnvFile, lErr)
		}
	})
	return err
}

func getAWS() (AWS, error) {
	var res AWS
	if err := envconfig.Process("", &res); err != nil {
		return AWS{}, fmt.Errorf("parse aws environment: %w", err)
	}
	return res, nil
}

func envOf(dev bool) Env {
	if dev {
		return EnvDev
	}
	return EnvProd
}

func parseChatIDs(chatIDsStr string) ([]int64, error) {
	if strings.TrimSpace(chatIDsStr) == "" {
		return nil, nil
	}

	chatIDStrings := strings.Split(chatIDsStr, ",")
	chatIDs := make([]int64, 0, len(chatIDStrings))
	for _, chatIDString := range chatIDStrings {
		chatID, err := strconv.ParseInt(strings.TrimSpace(chatIDString), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse chat IDs: invalid chat ID %s: %w", chatIDString, err)
		}
		chatIDs = append(chatIDs, chatID)
	}

	return chatIDs, nil
}
