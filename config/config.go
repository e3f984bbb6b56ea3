package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type (
	APP struct {
		Name      string
		Host      string
		Port      string
		Env       string
		JWTSecret string
		JWTTTL    time.Duration
		// ListingOwnerCheck gates generic listing update/delete on ownership.
		ListingOwnerCheck bool
		CORSOrigins       []string
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
		SSLMode  string
		Migrate  bool
	}
	MQ struct {
		Enabled      bool
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}
	Log struct {
		Level      string
		JSON       bool
		File       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
		Compress   bool
	}
	RateLimit struct {
		RPS   float64
		Burst int
	}

	Config struct {
		App       APP
		DB        DB
		MQ        MQ
		Log       Log
		RateLimit RateLimit
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return b
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return def
	}
	return f
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getList(key string) []string {
	var out []string
	for _, s := range strings.Split(getEnv(key, ""), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func Load() Config {
	app := APP{
		Name:              getEnv("SERVICE_NAME", "classifieds-api"),
		Host:              getEnv("SERVICE_HOST", ""),
		Port:              getEnv("SERVICE_PORT", "8080"),
		Env:               getEnv("SERVICE_ENV", "dev"),
		JWTSecret:         getEnv("SERVICE_JWT_SECRET", ""),
		JWTTTL:            getDuration("SERVICE_JWT_TTL", time.Hour),
		ListingOwnerCheck: getBool("SERVICE_LISTING_OWNER_CHECK", true),
		CORSOrigins:       getList("SERVICE_CORS_ORIGINS"),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", "5432"),
		SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		Migrate:  getBool("POSTGRES_MIGRATE", true),
	}
	mq := MQ{
		Enabled:      getBool("RABBITMQ_ENABLED", true),
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", "5672"),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "classifieds.events"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "classifieds.audit"),
	}
	lg := Log{
		Level:      getEnv("LOG_LEVEL", "info"),
		JSON:       getBool("LOG_JSON", true),
		File:       getEnv("LOG_FILE", ""),
		MaxSizeMB:  getInt("LOG_MAX_SIZE_MB", 100),
		MaxBackups: getInt("LOG_MAX_BACKUPS", 5),
		MaxAgeDays: getInt("LOG_MAX_AGE_DAYS", 30),
		Compress:   getBool("LOG_COMPRESS", true),
	}
	rl := RateLimit{
		RPS:   getFloat("RATE_LIMIT_RPS", 20),
		Burst: getInt("RATE_LIMIT_BURST", 40),
	}

	return Config{
		App:       app,
		DB:        db,
		MQ:        mq,
		Log:       lg,
		RateLimit: rl,
	}
}

func (c Config) Validate() error {
	if c.App.JWTSecret == "" {
		return fmt.Errorf("SERVICE_JWT_SECRET is required")
	}
	return nil
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     c.DB.Host + ":" + c.DB.Port,
		Path:     c.DB.Name,
		RawQuery: url.Values{"sslmode": {c.DB.SSLMode}}.Encode(),
	}
	return u.String(), nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
