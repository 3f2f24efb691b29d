package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds process-level configuration sourced from the environment.
// A .env file in the working directory is honored but never overrides
// variables already present in the process environment.
type Settings struct {
	// OutputDir is the root of all build state: workspaces, the local
	// metadata repository, extracted sources, artifacts.
	OutputDir string
	// Timeout bounds a whole run. Zero falls back to the engine default.
	Timeout time.Duration
	// Parallelism caps concurrent project builds. Zero means unbounded.
	Parallelism int
	// ExtractParallelism caps concurrent extractions. Zero means unbounded.
	ExtractParallelism int
	// JournalPath overrides the run journal database location. Empty means
	// journal/journal.db under OutputDir.
	JournalPath string
	// NATSURL points at the announcement broker. Empty disables announcements.
	NATSURL string
	// NATSSubject is the subject prefix for announcements.
	NATSSubject string
	// MirrorBucket names the S3 bucket mirroring published build records.
	// Empty disables mirroring.
	MirrorBucket string
	// MirrorRegion is the bucket's region.
	MirrorRegion string
	// MirrorEndpoint overrides the S3 endpoint, for S3-compatible stores.
	MirrorEndpoint string
	// MirrorAccessKey and MirrorSecretKey are static bucket credentials.
	// When unset the default AWS provider chain applies.
	MirrorAccessKey string
	MirrorSecretKey string
	// MetricsAddr is the Prometheus listen address. Empty disables the
	// metrics listener.
	MetricsAddr string
	// Progress enables the live progress UI on stderr.
	Progress bool
}

// LoadSettings reads the process environment, after loading an optional
// .env file.
func LoadSettings() *Settings {
	_ = godotenv.Load()

	return &Settings{
		OutputDir:          envStr("WEFT_OUTPUT", ".weft"),
		Timeout:            envDuration("WEFT_TIMEOUT", 0),
		Parallelism:        envInt("WEFT_PARALLELISM", 0),
		ExtractParallelism: envInt("WEFT_EXTRACT_PARALLELISM", 0),
		JournalPath:        os.Getenv("WEFT_JOURNAL"),
		NATSURL:            os.Getenv("WEFT_NATS_URL"),
		NATSSubject:        envStr("WEFT_NATS_SUBJECT", "weft.runs"),
		MirrorBucket:       os.Getenv("WEFT_MIRROR_BUCKET"),
		MirrorRegion:       os.Getenv("WEFT_MIRROR_REGION"),
		MirrorEndpoint:     os.Getenv("WEFT_MIRROR_ENDPOINT"),
		MirrorAccessKey:    os.Getenv("WEFT_MIRROR_ACCESS_KEY"),
		MirrorSecretKey:    os.Getenv("WEFT_MIRROR_SECRET_KEY"),
		MetricsAddr:        os.Getenv("WEFT_METRICS_ADDR"),
		Progress:           envBool("WEFT_PROGRESS", false),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
