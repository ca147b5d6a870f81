package bootstrap

import (
	"strings"
	"testing"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:         "mongodb://localhost:27017/?replicaSet=rs0",
		MongoDatabase:    "vesselhub",
		SessionKey:       strings.Repeat("k", 40),
		StorageType:      "local",
		StorageLocalPath: "./uploads",
		PayPalMode:       "off",
		AuditLogAuth:     "all",
		AuditLogAdmin:    "db",
		AuditLogGiving:   "log",
	}
}

func TestValidateConfig(t *testing.T) {
	dev := &config.CoreConfig{Env: "dev"}
	prod := &config.CoreConfig{Env: "prod"}

	tests := []struct {
		name    string
		core    *config.CoreConfig
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "valid", core: dev, mutate: func(*AppConfig) {}},
		{name: "bad mongo uri", core: dev, mutate: func(c *AppConfig) { c.MongoURI = "postgres://nope" }, wantErr: "MongoDB URI"},
		{name: "short session key", core: dev, mutate: func(c *AppConfig) { c.SessionKey = "short" }, wantErr: "session_key"},
		{name: "dev key in prod", core: prod, mutate: func(c *AppConfig) { c.SessionKey = "dev-only-change-me-please-0123456789ABCDEF" }, wantErr: "development default"},
		{name: "csrf key wrong length", core: dev, mutate: func(c *AppConfig) { c.CSRFKey = "abc" }, wantErr: "csrf_key"},
		{name: "unknown storage", core: dev, mutate: func(c *AppConfig) { c.StorageType = "ftp" }, wantErr: "storage_type"},
		{name: "s3 without bucket", core: dev, mutate: func(c *AppConfig) { c.StorageType = "s3"; c.StorageS3Region = "us-east-1" }, wantErr: "storage_s3_bucket"},
		{name: "s3 half credentials", core: dev, mutate: func(c *AppConfig) {
			c.StorageType = "s3"
			c.StorageS3Region = "us-east-1"
			c.StorageS3Bucket = "media"
			c.StorageS3AccessKey = "AKIA"
		}, wantErr: "set together"},
		{name: "paypal sandbox without secret", core: dev, mutate: func(c *AppConfig) { c.PayPalMode = "sandbox"; c.PayPalClientID = "id" }, wantErr: "paypal_client_secret"},
		{name: "unknown paypal mode", core: dev, mutate: func(c *AppConfig) { c.PayPalMode = "maybe" }, wantErr: "paypal_mode"},
		{name: "google id without secret", core: dev, mutate: func(c *AppConfig) { c.GoogleClientID = "id" }, wantErr: "google_client_id"},
		{name: "bad audit mode", core: dev, mutate: func(c *AppConfig) { c.AuditLogGiving = "sometimes" }, wantErr: "audit_log_giving"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(tt.core, cfg, zap.NewNop())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestCSRFKey(t *testing.T) {
	cfg := validConfig()
	derived := csrfKey(cfg)
	if len(derived) != 32 {
		t.Fatalf("derived key length = %d, want 32", len(derived))
	}
	if string(derived) == string(csrfKey(AppConfig{SessionKey: strings.Repeat("x", 40)})) {
		t.Error("different session keys should derive different csrf keys")
	}

	cfg.CSRFKey = strings.Repeat("c", 32)
	if string(csrfKey(cfg)) != cfg.CSRFKey {
		t.Error("explicit csrf_key should be used as is")
	}
}
