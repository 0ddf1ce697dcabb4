package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Appointment pricing. BaseFee is in whole currency units; doctor and
	// department surcharges are percentages applied on top of it.
	BaseFee int

	// Document database table names, one per collection.
	PatientsTable          string
	UsersTable             string
	DoctorsTable           string
	DepartmentsTable       string
	AppointmentsTable      string
	LabTestOrdersTable     string
	AvailableLabTestsTable string
	NotificationsTable     string

	// Booking event queue.
	UseMemoryQueue   string
	BookingQueueURL  string
	WorkerCount      int
	ReceiveWaitSecs  int
	ReceiveBatchSize int

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Lab result reports.
	LabReportsBucket string

	// Assistant LLM providers.
	GeminiAPIKey   string
	GeminiModelID  string
	BedrockModelID string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	RefCacheTTL   time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	EmailProvider     string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string

	CORSAllowedOrigins string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BaseFee: getEnvAsInt("APPOINTMENT_BASE_FEE", 1200),

		PatientsTable:          getEnv("PATIENTS_TABLE", "patients"),
		UsersTable:             getEnv("USERS_TABLE", "users"),
		DoctorsTable:           getEnv("DOCTORS_TABLE", "doctors"),
		DepartmentsTable:       getEnv("DEPARTMENTS_TABLE", "departments"),
		AppointmentsTable:      getEnv("APPOINTMENTS_TABLE", "appointments"),
		LabTestOrdersTable:     getEnv("LAB_TEST_ORDERS_TABLE", "scheduledLabTests"),
		AvailableLabTestsTable: getEnv("AVAILABLE_LAB_TESTS_TABLE", "availableLabTests"),
		NotificationsTable:     getEnv("NOTIFICATIONS_TABLE", "notifications"),

		UseMemoryQueue:   getEnv("USE_MEMORY_QUEUE", "false"),
		BookingQueueURL:  getEnv("BOOKING_QUEUE_URL", ""),
		WorkerCount:      getEnvAsInt("WORKER_COUNT", 2),
		ReceiveWaitSecs:  getEnvAsInt("RECEIVE_WAIT_SECONDS", 2),
		ReceiveBatchSize: getEnvAsInt("RECEIVE_BATCH_SIZE", 5),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		LabReportsBucket: getEnv("LAB_REPORTS_BUCKET", ""),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:  getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		BedrockModelID: getEnv("BEDROCK_MODEL_ID", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		RefCacheTTL:   getEnvAsDuration("REF_CACHE_TTL", 5*time.Minute),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvAsDuration("TOKEN_TTL", 12*time.Hour),

		EmailProvider:     getEnv("EMAIL_PROVIDER", "stub"),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "CareCoord"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "CareCoord"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
	}
}

// MemoryQueueEnabled reports whether the in-memory queue should replace SQS.
func (c *Config) MemoryQueueEnabled() bool {
	v, err := strconv.ParseBool(c.UseMemoryQueue)
	return err == nil && v
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
