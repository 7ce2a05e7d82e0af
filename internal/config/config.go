package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config collects every setting the server reads from the environment.
type Config struct {
	Port    string
	GinMode string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBTimezone     string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OTPTTL      time.Duration
	OTPTestCode string

	RabbitMQURL       string
	RegistrationQueue string

	LogFile  string
	LogLevel string

	CORSAllowedOrigins []string
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found – relying on env vars")
	}

	ginMode := getEnv("GIN_MODE", "debug")

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: ginMode,

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "password"),
		DBName:         getEnv("DB_NAME", "activity_hub"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBTimezone:     getEnv("DB_TIMEZONE", "UTC"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret: getEnv("JWT_SECRET", "supersecret"),
		JWTTTL:    getEnvDuration("JWT_TTL", 72*time.Hour),

		// Empty RedisAddr selects the in-process OTP store.
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		OTPTTL:      getEnvDuration("OTP_TTL", 5*time.Minute),
		OTPTestCode: getEnv("OTP_TEST_CODE", defaultOTPTestCode(ginMode)),

		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		RegistrationQueue: getEnv("REGISTRATION_QUEUE", "event_registrations"),

		LogFile:  getEnv("LOG_FILE", "./logs/app.log"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// defaultOTPTestCode enables the fixed login code only in debug mode; test
// and release modes must set OTP_TEST_CODE explicitly to get one.
func defaultOTPTestCode(ginMode string) string {
	if ginMode == "debug" {
		return "123456"
	}
	return ""
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid integer %q, using default %d", v, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid duration %q, using default %s", v, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
