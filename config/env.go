package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultAppPort            = "8080"
	defaultAppEnv             = "local"
	defaultJWTSecret          = "change-me-in-production"
	defaultAdminPassword      = "changeme"
	defaultDatabaseDriver     = "file"
	defaultDataFile           = "data/data.json"
	defaultMongoDB            = "storefront"
	defaultMongoLogCollection = "logs"
	defaultStorageDisk        = "local"
	defaultStorageLocalRoot   = "public"
	defaultStorageURL         = "/"
	defaultUploadMaxBytes     = 10 << 20
	defaultMaxBodyBytes       = 50 << 20
	defaultLoginFailureDelay  = time.Second
	defaultCacheTTL           = time.Minute
	defaultRateLimit          = 200
	defaultWorkerPoolSize     = 4
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.yaml (or config/app.json) and .env once. Process
// environment variables always win over file values.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles([]string{"config/app.yaml", "config/app.json"}, ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_PORT":       defaultAppPort,
		"APP_ENV":        defaultAppEnv,
		"JWT_SECRET":     defaultJWTSecret,
		"ADMIN_PASSWORD": defaultAdminPassword,
		"DB_DRIVER":      defaultDatabaseDriver,
		"DATA_FILE":      defaultDataFile,
		"DATABASE_DSN":   "",
		"MONGO_URI":      "",
		"MONGO_DB":       defaultMongoDB,
		"REDIS_ADDR":     "",
		"REDIS_PASSWORD": "",
		"STORAGE_DISK":   defaultStorageDisk,
	}
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", defaultJWTSecret)
}

// IsProduction reports whether APP_ENV names a production deployment.
func IsProduction() bool {
	switch strings.ToLower(AppEnv()) {
	case "production", "prod":
		return true
	}
	return false
}

// ErrDefaultJWTSecret is returned by Validate when a production deployment
// still signs tokens with the built-in secret.
var ErrDefaultJWTSecret = errors.New("config: JWT_SECRET must be set in production")

// DefaultJWTSecret reports whether tokens are signed with the built-in secret.
func DefaultJWTSecret() bool {
	return JWTSecret() == defaultJWTSecret
}

// Validate rejects settings that are only safe for local use.
func Validate() error {
	if IsProduction() && DefaultJWTSecret() {
		return ErrDefaultJWTSecret
	}
	return nil
}

// AdminPassword is the plain-text password the seed document is hashed from.
func AdminPassword() string {
	_ = Load()
	return get("ADMIN_PASSWORD", defaultAdminPassword)
}

// ── Persistence ──────────────────────────────────────────────────────────────

func DatabaseDriver() string {
	_ = Load()

	driver := strings.ToLower(get("DB_DRIVER", defaultDatabaseDriver))
	switch driver {
	case "file", "sqlite", "postgres", "mysql", "sqlserver", "mongo":
		return driver
	default:
		return defaultDatabaseDriver
	}
}

func DataFile() string {
	_ = Load()
	return get("DATA_FILE", defaultDataFile)
}

// DatabaseDSN returns the SQL DSN. For sqlite the data file path is reused
// with a .db extension when no DSN is configured.
func DatabaseDSN() string {
	_ = Load()

	if override := get("DATABASE_DSN", ""); override != "" {
		return override
	}
	if DatabaseDriver() == "sqlite" {
		return strings.TrimSuffix(DataFile(), ".json") + ".db"
	}
	return ""
}

func MongoURI() string { _ = Load(); return get("MONGO_URI", "") }
func MongoDB() string  { _ = Load(); return get("MONGO_DB", defaultMongoDB) }

// MongoLogCollection is where INFO and above are copied when DB_DRIVER is
// mongo. "off" disables it.
func MongoLogCollection() string {
	_ = Load()
	name := get("MONGO_LOG_COLLECTION", defaultMongoLogCollection)
	if strings.EqualFold(name, "off") {
		return ""
	}
	return name
}

// ── Cache ────────────────────────────────────────────────────────────────────

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", "")
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func CacheTTL() time.Duration {
	_ = Load()
	return getDuration("CACHE_TTL", defaultCacheTTL)
}

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string {
	_ = Load()
	return get("STORAGE_DISK", defaultStorageDisk)
}

func StorageLocalRoot() string {
	_ = Load()
	return get("STORAGE_LOCAL_ROOT", defaultStorageLocalRoot)
}

func StorageURL() string {
	_ = Load()
	return get("STORAGE_URL", defaultStorageURL)
}

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }

// ── Limits ───────────────────────────────────────────────────────────────────

func UploadMaxBytes() int64 {
	_ = Load()
	return getInt64("UPLOAD_MAX_BYTES", defaultUploadMaxBytes)
}

func MaxBodyBytes() int64 {
	_ = Load()
	return getInt64("MAX_BODY_BYTES", defaultMaxBodyBytes)
}

func LoginFailureDelay() time.Duration {
	_ = Load()
	return getDuration("LOGIN_FAILURE_DELAY", defaultLoginFailureDelay)
}

// RateLimit is the number of requests per minute allowed for one client IP.
func RateLimit() int {
	_ = Load()
	return int(getInt64("RATE_LIMIT", defaultRateLimit))
}

// ReconcileInterval is how often the server rebuilds the order counters from
// completed orders. Zero disables the job.
func ReconcileInterval() time.Duration {
	_ = Load()
	return getDuration("RECONCILE_INTERVAL", 0)
}

func WorkerPoolSize() int {
	_ = Load()
	return int(getInt64("WORKER_POOL_SIZE", defaultWorkerPoolSize))
}

func loadFromFiles(configPaths []string, envPath string) error {
	loaded := defaultValues()

	for _, path := range configPaths {
		err := mergeConfigFile(path, loaded)
		if err == nil {
			break
		}
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

// mergeConfigFile decodes a flat key/value document. YAML is a superset of
// JSON, so app.json is read by the same decoder.
func mergeConfigFile(path string, out map[string]string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range doc {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" || val == nil {
			continue
		}
		switch v := val.(type) {
		case string:
			out[k] = strings.TrimSpace(v)
		case int, int64, float64, bool:
			out[k] = fmt.Sprint(v)
		}
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return statErr
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, value := range env {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(value)
	}
	return nil
}

func get(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}

	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

func getInt64(key string, fallback int64) int64 {
	n, err := strconv.ParseInt(get(key, ""), 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// getDuration accepts Go duration strings ("750ms") or bare milliseconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := get(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		return d
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
