// internal/app/bootstrap/config.go
package bootstrap

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for VesselHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: VESSELHUB_MONGO_URI, VESSELHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017/?replicaSet=rs0", Desc: "MongoDB connection URI (replica set required for live feeds)"},
	{Name: "mongo_database", Default: "vesselhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "vesselhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "How long a sign-in lasts (e.g., 24h, 720h)"},
	{Name: "csrf_key", Default: "", Desc: "32-byte CSRF key (blank derives one from session_key)"},

	// Media storage
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded media"},
	{Name: "storage_max_bytes", Default: 200 << 20, Desc: "Largest accepted upload in bytes"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "media/", Desc: "S3 key prefix"},
	{Name: "storage_s3_endpoint", Default: "", Desc: "S3-compatible endpoint URL (optional)"},
	{Name: "storage_s3_access_key", Default: "", Desc: "S3 access key (blank uses the AWS credential chain)"},
	{Name: "storage_s3_secret_key", Default: "", Desc: "S3 secret key"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Public base URL used for OAuth callbacks"},

	// PayPal
	{Name: "paypal_mode", Default: "off", Desc: "PayPal verification: 'off', 'sandbox' or 'live'"},
	{Name: "paypal_client_id", Default: "", Desc: "PayPal REST client ID"},
	{Name: "paypal_client_secret", Default: "", Desc: "PayPal REST client secret"},
	{Name: "paypal_base_url", Default: "", Desc: "Override the PayPal REST endpoint"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_giving", Default: "all", Desc: "Giving event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Toasts
	{Name: "toast_ttl", Default: "3s", Desc: "How long a toast stays on screen"},

	// Rate limits
	{Name: "login_ip_limit", Default: 10, Desc: "Sign-in attempts per IP per window"},
	{Name: "login_ip_window", Default: "1m", Desc: "Sign-in IP window"},
	{Name: "login_email_limit", Default: 5, Desc: "Sign-in attempts per email per window"},
	{Name: "login_email_window", Default: "5m", Desc: "Sign-in email window"},
	{Name: "prayer_limit", Default: 1, Desc: "'I prayed' presses per member per request per window"},
	{Name: "prayer_window", Default: "1m", Desc: "'I prayed' window"},
	{Name: "chat_limit", Default: 20, Desc: "Chat messages per member per channel per window"},
	{Name: "chat_window", Default: "1m", Desc: "Chat window"},

	// Handler timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list queries and ordinary writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for payments and uploads"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of a member promoted to admin on startup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config.yaml/json/toml
// files, WAFFLE_* and VESSELHUB_* environment variables, and command-line
// flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "VESSELHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),
		CSRFKey:       appValues.String("csrf_key"),

		StorageType:        strings.ToLower(appValues.String("storage_type")),
		StorageLocalPath:   appValues.String("storage_local_path"),
		StorageMaxBytes:    int64(appValues.Int("storage_max_bytes")),
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageS3Endpoint:  appValues.String("storage_s3_endpoint"),
		StorageS3AccessKey: appValues.String("storage_s3_access_key"),
		StorageS3SecretKey: appValues.String("storage_s3_secret_key"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),
		BaseURL:            strings.TrimRight(appValues.String("base_url"), "/"),

		PayPalMode:         strings.ToLower(appValues.String("paypal_mode")),
		PayPalClientID:     appValues.String("paypal_client_id"),
		PayPalClientSecret: appValues.String("paypal_client_secret"),
		PayPalBaseURL:      appValues.String("paypal_base_url"),

		AuditLogAuth:   appValues.String("audit_log_auth"),
		AuditLogAdmin:  appValues.String("audit_log_admin"),
		AuditLogGiving: appValues.String("audit_log_giving"),

		ToastTTL: appValues.Duration("toast_ttl", 3*time.Second),

		LoginIPLimit:     appValues.Int("login_ip_limit"),
		LoginIPWindow:    appValues.Duration("login_ip_window", time.Minute),
		LoginEmailLimit:  appValues.Int("login_email_limit"),
		LoginEmailWindow: appValues.Duration("login_email_window", 5*time.Minute),
		PrayerLimit:      appValues.Int("prayer_limit"),
		PrayerWindow:     appValues.Duration("prayer_window", time.Minute),
		ChatLimit:        appValues.Int("chat_limit"),
		ChatWindow:       appValues.Duration("chat_window", time.Minute),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),

		AdminEmail: strings.TrimSpace(appValues.String("admin_email")),
	}

	return coreCfg, appCfg, nil
}

// minSessionKeyLen is the shortest signing key accepted outside dev.
const minSessionKeyLen = 32

var auditModes = map[string]bool{
	auditlog.ModeAll: true,
	auditlog.ModeDB:  true,
	auditlog.ModeLog: true,
	auditlog.ModeOff: true,
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// VesselHub checks the MongoDB URI before attempting to connect, and makes
// sure the storage and PayPal settings are complete for the chosen mode.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}

	if len(appCfg.SessionKey) < minSessionKeyLen {
		return fmt.Errorf("session_key must be at least %d characters", minSessionKeyLen)
	}
	if coreCfg.Env == "prod" && strings.HasPrefix(appCfg.SessionKey, "dev-only") {
		return fmt.Errorf("session_key must be changed from the development default in prod")
	}
	if appCfg.CSRFKey != "" && len(appCfg.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes")
	}

	switch appCfg.StorageType {
	case "local":
		if appCfg.StorageLocalPath == "" {
			return fmt.Errorf("storage_local_path is required when storage_type is local")
		}
	case "s3":
		if appCfg.StorageS3Bucket == "" || appCfg.StorageS3Region == "" {
			return fmt.Errorf("storage_s3_bucket and storage_s3_region are required when storage_type is s3")
		}
		if (appCfg.StorageS3AccessKey == "") != (appCfg.StorageS3SecretKey == "") {
			return fmt.Errorf("storage_s3_access_key and storage_s3_secret_key must be set together")
		}
	default:
		return fmt.Errorf("storage_type must be 'local' or 's3', got %q", appCfg.StorageType)
	}

	switch appCfg.PayPalMode {
	case "off":
		if coreCfg.Env == "prod" {
			logger.Warn("paypal_mode is off in prod; checkout claims will not be verified")
		}
	case "sandbox", "live":
		if appCfg.PayPalClientID == "" || appCfg.PayPalClientSecret == "" {
			return fmt.Errorf("paypal_client_id and paypal_client_secret are required when paypal_mode is %s", appCfg.PayPalMode)
		}
	default:
		return fmt.Errorf("paypal_mode must be 'off', 'sandbox' or 'live', got %q", appCfg.PayPalMode)
	}

	if (appCfg.GoogleClientID == "") != (appCfg.GoogleClientSecret == "") {
		return fmt.Errorf("google_client_id and google_client_secret must be set together")
	}

	for name, mode := range map[string]string{
		"audit_log_auth":   appCfg.AuditLogAuth,
		"audit_log_admin":  appCfg.AuditLogAdmin,
		"audit_log_giving": appCfg.AuditLogGiving,
	} {
		if !auditModes[mode] {
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", name, mode)
		}
	}

	return nil
}

// csrfKey returns the configured CSRF key, or one derived from the session
// key so a single secret is enough to run the app.
func csrfKey(appCfg AppConfig) []byte {
	if appCfg.CSRFKey != "" {
		return []byte(appCfg.CSRFKey)
	}
	sum := sha256.Sum256([]byte("csrf:" + appCfg.SessionKey))
	return sum[:]
}
