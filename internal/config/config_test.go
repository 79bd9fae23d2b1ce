package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)

	assert.Equal(t, 0.7, cfg.Screening.SemanticWeight)
	assert.Equal(t, 0.3, cfg.Screening.RuleWeight)
	assert.Equal(t, 0.4, cfg.Screening.SkillWeight)
	assert.Equal(t, 0.35, cfg.Screening.ExperienceWeight)
	assert.Equal(t, 0.25, cfg.Screening.EducationWeight)
	assert.Equal(t, 75, cfg.Screening.ShortlistThreshold)
	assert.Equal(t, 0.5, cfg.Screening.RuleOnlyConfidence)
	assert.Equal(t, 20, cfg.Screening.MaxBatchSize)

	assert.Equal(t, 3, cfg.Worker.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Worker.RequestTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SHORTLIST_THRESHOLD", "80")
	t.Setenv("SEMANTIC_WEIGHT", "0.6")
	t.Setenv("WORKER_CONCURRENCY", "5")
	t.Setenv("LLM_REQUEST_TIMEOUT", "45s")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 80, cfg.Screening.ShortlistThreshold)
	assert.Equal(t, 0.6, cfg.Screening.SemanticWeight)
	assert.Equal(t, 5, cfg.Worker.Concurrency)
	assert.Equal(t, 45*time.Second, cfg.Worker.RequestTimeout)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SHORTLIST_THRESHOLD", "not-a-number")
	t.Setenv("SEMANTIC_WEIGHT", "abc")
	t.Setenv("LLM_REQUEST_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 75, cfg.Screening.ShortlistThreshold)
	assert.Equal(t, 0.7, cfg.Screening.SemanticWeight)
	assert.Equal(t, 30*time.Second, cfg.Worker.RequestTimeout)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "db.internal",
			Port:     "5433",
			User:     "screener",
			Password: "secret",
			DBName:   "resumes",
		},
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=screener password=secret dbname=resumes sslmode=disable",
		cfg.GetDatabaseDSN())
}
