package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
	"github.com/voxhealth/voxhealth-backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	Environment string
	Version     string
}

// fileConfig is the optional CONFIG_FILE yaml overlay. Environment
// variables win over file values.
type fileConfig struct {
	JWTSecretKey    string `yaml:"jwt_secret_key"`
	AccessTokenTTL  int    `yaml:"access_token_ttl"`
	RefreshTokenTTL int    `yaml:"refresh_token_ttl"`
	Environment     string `yaml:"environment"`
}

func LoadConfig(log *logger.Logger) Config {
	fc := loadFileConfig(log)

	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", fc.JWTSecretKey, log)
	if jwtSecretKey == "" {
		jwtSecretKey = "defaultsecret"
	}

	accessDefault := fc.AccessTokenTTL
	if accessDefault == 0 {
		accessDefault = 3600
	}
	refreshDefault := fc.RefreshTokenTTL
	if refreshDefault == 0 {
		refreshDefault = 86400
	}
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", accessDefault, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", refreshDefault, log)

	environment := utils.GetEnv("ENVIRONMENT", fc.Environment, log)
	if environment == "" {
		environment = "development"
	}

	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		Environment:     environment,
		Version:         utils.GetEnv("VERSION", "dev", log),
	}
}

func loadFileConfig(log *logger.Logger) fileConfig {
	var fc fileConfig
	path := strings.TrimSpace(os.Getenv("CONFIG_FILE"))
	if path == "" {
		return fc
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Failed to read config file (using env only)", "path", path, "error", err)
		return fc
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		log.Warn("Failed to parse config file (using env only)", "path", path,
			"error", fmt.Errorf("yaml: %w", err))
		return fileConfig{}
	}
	log.Info("Loaded config file overlay", "path", path)
	return fc
}
