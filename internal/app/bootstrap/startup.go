// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/chosenvessel/vesselhub/internal/app/resources"
	"github.com/chosenvessel/vesselhub/internal/app/store/audit"
	"github.com/chosenvessel/vesselhub/internal/app/store/oauthstate"
	profilestore "github.com/chosenvessel/vesselhub/internal/app/store/profiles"
	"github.com/chosenvessel/vesselhub/internal/app/system/auditlog"
	"github.com/chosenvessel/vesselhub/internal/app/system/mediastore"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"github.com/chosenvessel/vesselhub/internal/app/system/payments"
	"github.com/chosenvessel/vesselhub/internal/app/system/ratelimit"
	"github.com/chosenvessel/vesselhub/internal/app/system/tasks"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It loads
// the shared templates and builds the services feature handlers share.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	svc := deps.Services
	if svc == nil {
		return fmt.Errorf("startup: services not allocated")
	}

	svc.Center = notify.NewCenter(nil, appCfg.ToastTTL)
	viewdata.Init(svc.Center)

	svc.Audit = auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:   appCfg.AuditLogAuth,
		Admin:  appCfg.AuditLogAdmin,
		Giving: appCfg.AuditLogGiving,
	})

	verifier, err := buildVerifier(appCfg, logger)
	if err != nil {
		return err
	}
	svc.Payments = verifier

	store, err := buildMediaStore(ctx, appCfg, logger)
	if err != nil {
		return err
	}
	svc.Media = store
	svc.Uploader = &mediastore.Uploader{
		Store:    store,
		Log:      logger,
		MaxBytes: appCfg.StorageMaxBytes,
	}

	svc.LoginLimiter = ratelimit.NewLoginLimiterWithConfig(
		orDefault(appCfg.LoginIPLimit, 10), appCfg.LoginIPWindow,
		orDefault(appCfg.LoginEmailLimit, 5), appCfg.LoginEmailWindow)
	svc.PrayerLimiter = ratelimit.NewActionLimiter(orDefault(appCfg.PrayerLimit, 1), appCfg.PrayerWindow)
	svc.ChatLimiter = ratelimit.NewActionLimiter(orDefault(appCfg.ChatLimit, 20), appCfg.ChatWindow)

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
			return err
		}
	}

	// Jobs outlive the startup context; Shutdown stops them.
	svc.Scheduler = tasks.NewScheduler(logger,
		tasks.OAuthStateCleanupJob(oauthstate.New(deps.MongoDatabase), logger),
		tasks.RateLimitSweepJob("login", svc.LoginLimiter, logger),
		tasks.RateLimitSweepJob("prayer", svc.PrayerLimiter, logger),
		tasks.RateLimitSweepJob("chat", svc.ChatLimiter, logger),
	)
	svc.Scheduler.Start(context.Background())

	return nil
}

// buildVerifier picks the payment verifier for the configured PayPal mode.
func buildVerifier(appCfg AppConfig, logger *zap.Logger) (payments.Verifier, error) {
	if appCfg.PayPalMode == "" || appCfg.PayPalMode == "off" {
		logger.Warn("PayPal verification disabled; checkout claims are trusted as posted")
		return payments.Disabled{}, nil
	}
	baseURL := appCfg.PayPalBaseURL
	if baseURL == "" {
		baseURL = payments.SandboxBaseURL
		if appCfg.PayPalMode == "live" {
			baseURL = payments.LiveBaseURL
		}
	}
	pp, err := payments.NewPayPal(payments.PayPalConfig{
		ClientID:     appCfg.PayPalClientID,
		ClientSecret: appCfg.PayPalClientSecret,
		BaseURL:      baseURL,
		Timeout:      timeouts.Long(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("paypal: %w", err)
	}
	logger.Info("PayPal verification enabled", zap.String("mode", appCfg.PayPalMode))
	return pp, nil
}

// buildMediaStore opens the upload backend named by storage_type.
func buildMediaStore(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (mediastore.Store, error) {
	switch appCfg.StorageType {
	case "s3":
		s, err := mediastore.NewS3(ctx, mediastore.S3Config{
			Region:          appCfg.StorageS3Region,
			Bucket:          appCfg.StorageS3Bucket,
			Prefix:          appCfg.StorageS3Prefix,
			AccessKeyID:     appCfg.StorageS3AccessKey,
			SecretAccessKey: appCfg.StorageS3SecretKey,
			Endpoint:        appCfg.StorageS3Endpoint,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("s3 media store: %w", err)
		}
		logger.Info("media stored in S3", zap.String("bucket", appCfg.StorageS3Bucket))
		return s, nil
	default:
		l, err := mediastore.NewLocal(appCfg.StorageLocalPath)
		if err != nil {
			return nil, fmt.Errorf("local media store: %w", err)
		}
		logger.Info("media stored on local disk", zap.String("path", appCfg.StorageLocalPath))
		return l, nil
	}
}

// ensureAdmin promotes the configured member to admin. A member who has not
// signed up yet is promoted on a later restart.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	n, err := profilestore.New(deps.MongoDatabase).PromoteByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}
	if n == 0 {
		logger.Info("admin_email matched no member needing promotion", zap.String("email", email))
		return nil
	}
	logger.Info("promoted admin from config", zap.String("email", email), zap.Int64("profiles", n))
	return nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
