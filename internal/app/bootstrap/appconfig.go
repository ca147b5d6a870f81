// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for VesselHub.
//
// Values come from config files, VESSELHUB_* environment variables or
// command-line flags (see LoadConfig). WAFFLE's CoreConfig covers ports,
// TLS, logging and request limits; everything the church portal itself
// needs lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string; change streams need a replica set
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: vesselhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // How long a sign-in lasts

	// CSRF protection
	CSRFKey string // 32-byte key for gorilla/csrf; derived from SessionKey when blank

	// Uploaded media (sermons, devotional audio, event images, library files)
	StorageType      string // "local" or "s3"
	StorageLocalPath string // Directory for local uploads
	StorageMaxBytes  int64  // Largest accepted upload

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string
	StorageS3Endpoint  string // Optional S3-compatible endpoint (MinIO, R2)
	StorageS3AccessKey string // Blank uses the default AWS credential chain
	StorageS3SecretKey string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth callbacks, e.g. "https://vesselhub.church"
	BaseURL string

	// PayPal checkout
	PayPalMode         string // "off", "sandbox" or "live"
	PayPalClientID     string // Also rendered into the checkout widget
	PayPalClientSecret string
	PayPalBaseURL      string // Overrides the mode's REST endpoint

	// Audit logging destinations per category: all, db, log or off
	AuditLogAuth   string
	AuditLogAdmin  string
	AuditLogGiving string

	// Toasts
	ToastTTL time.Duration

	// Rate limits
	LoginIPLimit     int
	LoginIPWindow    time.Duration
	LoginEmailLimit  int
	LoginEmailWindow time.Duration
	PrayerLimit      int // "I prayed" presses per member per request
	PrayerWindow     time.Duration
	ChatLimit        int // messages per member per channel
	ChatWindow       time.Duration

	// Handler timeouts (see system/timeouts)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Bootstrap admin: the profile with this email is promoted to admin at startup.
	AdminEmail string
}
