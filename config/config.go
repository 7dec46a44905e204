package config

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	FrontendURL          string `mapstructure:"FRONTEND_URL"`
	SessionTTLHours      int    `mapstructure:"SESSION_TTL_HOURS"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
	CognitoRegion        string `mapstructure:"COGNITO_REGION"`
	CognitoUserPoolID    string `mapstructure:"COGNITO_USER_POOL_ID"`
	CognitoClientID      string `mapstructure:"COGNITO_CLIENT_ID"`
	CognitoClientSecret  string `mapstructure:"COGNITO_CLIENT_SECRET"`
	CognitoDomain        string `mapstructure:"COGNITO_DOMAIN"`
	OAuthRedirectURL     string `mapstructure:"OAUTH_REDIRECT_URL"`
}

var ConfigInstance Config

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	// Enable automatic environment variable reading first
	viper.AutomaticEnv()

	// Bind environment variables to config keys
	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
		"CORS_ALLOW_ORIGINS", "FRONTEND_URL", "SESSION_TTL_HOURS", "SCHEDULER_ENABLED",
		"COGNITO_REGION", "COGNITO_USER_POOL_ID", "COGNITO_CLIENT_ID", "COGNITO_CLIENT_SECRET", "COGNITO_DOMAIN", "OAUTH_REDIRECT_URL",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	// Check if key environment variables are already set
	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		// Load base .env file
		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		// Load .env.local overrides if it exists
		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	applyDefaults(&config)

	err := validateConfig(config, log)
	if err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config", "environment", config.Environment, "port", config.ServerPort)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func applyDefaults(config *Config) {
	if config.SessionTTLHours <= 0 {
		config.SessionTTLHours = 168 // 7 days
	}
	if config.FrontendURL == "" {
		config.FrontendURL = "http://localhost:3000"
	}
	if config.CorsAllowOrigins == "" {
		config.CorsAllowOrigins = config.FrontendURL
	}
	if config.Environment == "" {
		config.Environment = "development"
	}
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	// Cognito settings travel together: a user pool is unusable without its
	// region and app client.
	if config.CognitoUserPoolID != "" {
		if config.CognitoRegion == "" {
			return log.ErrMsg(
				"Fatal error: COGNITO_REGION required when COGNITO_USER_POOL_ID is set",
			)
		}
		if config.CognitoClientID == "" {
			return log.ErrMsg(
				"Fatal error: COGNITO_CLIENT_ID required when COGNITO_USER_POOL_ID is set",
			)
		}
		if config.OAuthRedirectURL == "" {
			return log.ErrMsg(
				"Fatal error: OAUTH_REDIRECT_URL required when COGNITO_USER_POOL_ID is set",
			)
		}
	}

	if config.Environment == "production" && config.CognitoUserPoolID == "" {
		return log.ErrMsg(
			"Fatal error: Cognito configuration is required in production",
		)
	}

	ConfigInstance = config
	return nil
}
