package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	Gemini    GeminiConfig
	Auth      AuthConfig
	Screening ScreeningConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	// URL left empty disables job-description context retrieval.
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey string
}

type AuthConfig struct {
	JWTSecret string
}

// ScreeningConfig carries the scoring weights and thresholds. The semantic/rule
// blend and the sub-score weights are named configuration on purpose: they have
// no derived rationale and every decision downstream depends on them.
type ScreeningConfig struct {
	SemanticWeight     float64
	RuleWeight         float64
	SkillWeight        float64
	ExperienceWeight   float64
	EducationWeight    float64
	ShortlistThreshold int
	RuleOnlyConfidence float64
	MaxBatchSize       int
}

type WorkerConfig struct {
	Concurrency    int
	RequestTimeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:     getEnv("PORT", "3000"),
			Env:      getEnv("ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_screener"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "resume_screener_jobs"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Screening: ScreeningConfig{
			SemanticWeight:     getEnvAsFloat("SEMANTIC_WEIGHT", 0.7),
			RuleWeight:         getEnvAsFloat("RULE_WEIGHT", 0.3),
			SkillWeight:        getEnvAsFloat("SKILL_WEIGHT", 0.4),
			ExperienceWeight:   getEnvAsFloat("EXPERIENCE_WEIGHT", 0.35),
			EducationWeight:    getEnvAsFloat("EDUCATION_WEIGHT", 0.25),
			ShortlistThreshold: getEnvAsInt("SHORTLIST_THRESHOLD", 75),
			RuleOnlyConfidence: getEnvAsFloat("RULE_ONLY_CONFIDENCE", 0.5),
			MaxBatchSize:       getEnvAsInt("MAX_BATCH_SIZE", 20),
		},
		Worker: WorkerConfig{
			Concurrency:    getEnvAsInt("WORKER_CONCURRENCY", 3),
			RequestTimeout: getEnvAsDuration("LLM_REQUEST_TIMEOUT", "30s"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
