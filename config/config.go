package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"slackbridge/core/log"
)

const (
	CommandReplyModeInline      = "inline"
	CommandReplyModeResponseURL = "response_url"
)

// SlackConfig holds the credentials shared with the Slack app. Both are required.
type SlackConfig struct {
	BotToken        string
	SigningSecret   string
	AlertWebhookURL string
}

type AppConfig struct {
	Host               string // Optional with default "0.0.0.0"
	Port               string // Optional with default "8000"
	ServiceName        string
	Environment        string
	LogLevel           string
	CORSAllowedOrigins string // Optional with default "*"
	CommandReplyMode   string
	ReplyWorkers       int
	VerifyBotToken     bool

	SlackConfig SlackConfig
}

// ListenAddr is the host:port the HTTP server binds to.
func (c *AppConfig) ListenAddr() string {
	return c.Host + ":" + c.Port
}

// AllowedOrigins splits CORSAllowedOrigins on commas.
func (c *AppConfig) AllowedOrigins() []string {
	origins := strings.Split(c.CORSAllowedOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	return origins
}

// LoadConfig reads the process configuration. envFile is loaded first when it
// exists; variables already set in the environment take precedence.
func LoadConfig(envFile string) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Info("⚠️ Could not load env file, continuing with system env vars", "file", envFile)
		}
	}

	botToken, err := getEnvRequired("BOT_TOKEN", "SLACK_BOT_TOKEN")
	if err != nil {
		return nil, err
	}

	signingSecret, err := getEnvRequired("SIGNING_SECRET", "SLACK_SIGNING_SECRET")
	if err != nil {
		return nil, err
	}

	port := getEnvWithDefault("PORT", "8000")
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return nil, fmt.Errorf("PORT must be a valid TCP port, got %q", port)
	}

	replyMode := strings.ToLower(getEnvWithDefault("COMMAND_REPLY_MODE", CommandReplyModeInline))
	if replyMode != CommandReplyModeInline && replyMode != CommandReplyModeResponseURL {
		return nil, fmt.Errorf("COMMAND_REPLY_MODE must be %q or %q, got %q",
			CommandReplyModeInline, CommandReplyModeResponseURL, replyMode)
	}

	workers, err := strconv.Atoi(getEnvWithDefault("REPLY_WORKERS", "4"))
	if err != nil || workers <= 0 {
		return nil, fmt.Errorf("REPLY_WORKERS must be a positive integer")
	}

	verifyBotToken, err := strconv.ParseBool(getEnvWithDefault("VERIFY_BOT_TOKEN", "false"))
	if err != nil {
		return nil, fmt.Errorf("VERIFY_BOT_TOKEN must be a boolean: %w", err)
	}

	config := &AppConfig{
		Host:               getEnvWithDefault("HOST", "0.0.0.0"),
		Port:               port,
		ServiceName:        getEnvWithDefault("SERVICE_NAME", "railway-slack-check"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		LogLevel:           getEnvWithDefault("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		CommandReplyMode:   replyMode,
		ReplyWorkers:       workers,
		VerifyBotToken:     verifyBotToken,

		SlackConfig: SlackConfig{
			BotToken:        botToken,
			SigningSecret:   signingSecret,
			AlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		},
	}

	if config.SlackConfig.AlertWebhookURL == "" {
		log.Info("⚠️ SLACK_ALERT_WEBHOOK_URL not set - error alerts will only be logged")
	}

	return config, nil
}

// getEnvRequired returns the first non-empty value among keys.
func getEnvRequired(keys ...string) (string, error) {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("%s is not set", keys[0])
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
