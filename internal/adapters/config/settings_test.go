package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/weft-build/weft/internal/adapters/config"
)

func TestLoadSettings_Defaults(t *testing.T) {
	// Clear any ambient configuration so the defaults are observable.
	for _, key := range []string{
		"WEFT_OUTPUT", "WEFT_TIMEOUT", "WEFT_PARALLELISM", "WEFT_EXTRACT_PARALLELISM",
		"WEFT_JOURNAL", "WEFT_NATS_URL", "WEFT_NATS_SUBJECT",
		"WEFT_MIRROR_BUCKET", "WEFT_MIRROR_ACCESS_KEY", "WEFT_MIRROR_SECRET_KEY",
		"WEFT_METRICS_ADDR", "WEFT_PROGRESS",
	} {
		t.Setenv(key, "")
	}

	s := config.LoadSettings()

	assert.Equal(t, ".weft", s.OutputDir)
	assert.Equal(t, time.Duration(0), s.Timeout)
	assert.Equal(t, 0, s.Parallelism)
	assert.Equal(t, "weft.runs", s.NATSSubject)
	assert.Empty(t, s.NATSURL)
	assert.Empty(t, s.MirrorBucket)
	assert.Empty(t, s.MetricsAddr)
	assert.False(t, s.Progress)
}

func TestLoadSettings_FromEnvironment(t *testing.T) {
	t.Setenv("WEFT_OUTPUT", "/var/weft")
	t.Setenv("WEFT_TIMEOUT", "45m")
	t.Setenv("WEFT_PARALLELISM", "4")
	t.Setenv("WEFT_EXTRACT_PARALLELISM", "8")
	t.Setenv("WEFT_NATS_URL", "nats://localhost:4222")
	t.Setenv("WEFT_NATS_SUBJECT", "builds")
	t.Setenv("WEFT_MIRROR_BUCKET", "weft-records")
	t.Setenv("WEFT_MIRROR_ACCESS_KEY", "AKIAEXAMPLE")
	t.Setenv("WEFT_MIRROR_SECRET_KEY", "hunter2")
	t.Setenv("WEFT_PROGRESS", "true")

	s := config.LoadSettings()

	assert.Equal(t, "/var/weft", s.OutputDir)
	assert.Equal(t, 45*time.Minute, s.Timeout)
	assert.Equal(t, 4, s.Parallelism)
	assert.Equal(t, 8, s.ExtractParallelism)
	assert.Equal(t, "nats://localhost:4222", s.NATSURL)
	assert.Equal(t, "builds", s.NATSSubject)
	assert.Equal(t, "weft-records", s.MirrorBucket)
	assert.Equal(t, "AKIAEXAMPLE", s.MirrorAccessKey)
	assert.Equal(t, "hunter2", s.MirrorSecretKey)
	assert.True(t, s.Progress)
}

func TestLoadSettings_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("WEFT_TIMEOUT", "soon")
	t.Setenv("WEFT_PARALLELISM", "many")
	t.Setenv("WEFT_PROGRESS", "yes please")

	s := config.LoadSettings()

	assert.Equal(t, time.Duration(0), s.Timeout)
	assert.Equal(t, 0, s.Parallelism)
	assert.False(t, s.Progress)
}
