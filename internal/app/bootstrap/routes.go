// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminfeature "github.com/chosenvessel/vesselhub/internal/app/features/admin"
	authgooglefeature "github.com/chosenvessel/vesselhub/internal/app/features/authgoogle"
	chatfeature "github.com/chosenvessel/vesselhub/internal/app/features/chat"
	dashboardfeature "github.com/chosenvessel/vesselhub/internal/app/features/dashboard"
	devotionalfeature "github.com/chosenvessel/vesselhub/internal/app/features/devotional"
	errorsfeature "github.com/chosenvessel/vesselhub/internal/app/features/errors"
	eventsfeature "github.com/chosenvessel/vesselhub/internal/app/features/events"
	giftsfeature "github.com/chosenvessel/vesselhub/internal/app/features/gifts"
	givingfeature "github.com/chosenvessel/vesselhub/internal/app/features/giving"
	groupsfeature "github.com/chosenvessel/vesselhub/internal/app/features/groups"
	healthfeature "github.com/chosenvessel/vesselhub/internal/app/features/health"
	homefeature "github.com/chosenvessel/vesselhub/internal/app/features/home"
	journalfeature "github.com/chosenvessel/vesselhub/internal/app/features/journal"
	kidsfeature "github.com/chosenvessel/vesselhub/internal/app/features/kids"
	leadershipfeature "github.com/chosenvessel/vesselhub/internal/app/features/leadership"
	libraryfeature "github.com/chosenvessel/vesselhub/internal/app/features/library"
	livestreamfeature "github.com/chosenvessel/vesselhub/internal/app/features/livestream"
	loginfeature "github.com/chosenvessel/vesselhub/internal/app/features/login"
	logoutfeature "github.com/chosenvessel/vesselhub/internal/app/features/logout"
	pastorfeature "github.com/chosenvessel/vesselhub/internal/app/features/pastor"
	prayerfeature "github.com/chosenvessel/vesselhub/internal/app/features/prayer"
	profilefeature "github.com/chosenvessel/vesselhub/internal/app/features/profile"
	qafeature "github.com/chosenvessel/vesselhub/internal/app/features/qa"
	signupfeature "github.com/chosenvessel/vesselhub/internal/app/features/signup"
	subscribefeature "github.com/chosenvessel/vesselhub/internal/app/features/subscribe"
	termsfeature "github.com/chosenvessel/vesselhub/internal/app/features/terms"
	toastsfeature "github.com/chosenvessel/vesselhub/internal/app/features/toasts"
	profilestore "github.com/chosenvessel/vesselhub/internal/app/store/profiles"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/guard"
	"github.com/chosenvessel/vesselhub/internal/app/system/mediastore"
	"github.com/chosenvessel/vesselhub/internal/app/system/metrics"
	"github.com/chosenvessel/vesselhub/internal/app/system/routetree"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// Version is reported by /health; set with -ldflags at build time.
var Version = "dev"

// BuildHandler constructs the root HTTP handler (router) for VesselHub.
//
// WAFFLE calls this after configuration, DB connections, schema setup and
// Startup have completed. It boots the template engine, installs CSRF and
// session middleware, mounts the unguarded infrastructure routes (static
// assets, uploaded media, error pages) and then the site tree with its
// access gates. /metrics is part of the tree behind the admin gate.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	svc := deps.Services
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// The profile is re-read on every request so role and tier changes take
	// effect immediately; a missing profile is repaired here.
	sessionMgr.SetProfileLoader(newProfileLoader(profilestore.New(db), svc.Audit))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	var pages int

	// Infrastructure routes sit outside CSRF and sessions.
	r.Handle("/static/*", fileserver.Handler("/static", "public"))
	r.Handle(mediastore.PublicPrefix+"*", mediastore.Handler(svc.Media))

	r.Group(func(r chi.Router) {
		if !secure {
			r.Use(markPlaintext)
		}
		r.Use(csrf.Protect(csrfKey(appCfg),
			csrf.Secure(secure),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.Warn("csrf check failed",
					zap.String("path", r.URL.Path),
					zap.Error(csrf.FailureReason(r)))
				errorsfeature.RenderForbidden(w, r, "Your form expired. Please go back, refresh the page and try again.", "")
			})),
		))

		// Loads the session snapshot into context for every page, so guards
		// and views read it with auth.CurrentSnapshot(r).
		r.Use(sessionMgr.LoadSession)

		r.Get("/forbidden", errorsHandler.Forbidden)
		r.Get("/unauthorized", errorsHandler.Unauthorized)

		googleEnabled := appCfg.GoogleClientID != ""
		givingHandler := givingfeature.NewHandler(db, svc.Payments, svc.Audit, appCfg.PayPalClientID, logger)

		handlers := siteHandlers{
			Home:       homefeature.Routes(homefeature.NewHandler(db, logger)),
			Login:      loginfeature.Routes(loginfeature.NewHandler(db, sessionMgr, errLog, svc.Audit, svc.LoginLimiter, googleEnabled, logger)),
			Signup:     signupfeature.Routes(signupfeature.NewHandler(db, sessionMgr, errLog, svc.Audit, svc.LoginLimiter, googleEnabled, logger)),
			Logout:     logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, svc.Audit, logger)),
			Google:     authgooglefeature.Routes(authgooglefeature.NewHandler(db, sessionMgr, svc.Audit, appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)),
			Leadership: leadershipfeature.Routes(leadershipfeature.NewHandler(logger)),
			Terms:      termsfeature.Routes(termsfeature.NewHandler(logger)),
			Give:       givingfeature.PublicRoutes(givingHandler),
			Health:     healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, Version, logger)),

			Dashboard:  dashboardfeature.Routes(dashboardfeature.NewHandler(db, logger)),
			Live:       livestreamfeature.Routes(livestreamfeature.NewHandler(db, logger)),
			Chat:       chatfeature.Routes(chatfeature.NewHandler(db, svc.ChatLimiter, logger)),
			Pastor:     pastorfeature.Routes(pastorfeature.NewHandler(db, logger)),
			Library:    libraryfeature.Routes(libraryfeature.NewHandler(db, logger)),
			QA:         qafeature.Routes(qafeature.NewHandler(db, logger)),
			Gifts:      giftsfeature.Routes(giftsfeature.NewHandler(db, logger)),
			Groups:     groupsfeature.Routes(groupsfeature.NewHandler(db, logger)),
			Prayer:     prayerfeature.Routes(prayerfeature.NewHandler(db, svc.PrayerLimiter, logger)),
			Devotional: devotionalfeature.Routes(devotionalfeature.NewHandler(db, logger)),
			Giving:     givingfeature.Routes(givingHandler),
			Events:     eventsfeature.Routes(eventsfeature.NewHandler(db, logger)),
			Journal:    journalfeature.Routes(journalfeature.NewHandler(db, logger)),
			Kids:       kidsfeature.Routes(kidsfeature.NewHandler(db, logger)),
			Profile:    profilefeature.Routes(profilefeature.NewHandler(db, logger)),

			Subscribe: subscribefeature.Routes(subscribefeature.NewHandler(db, svc.Payments, svc.Audit, appCfg.PayPalClientID, logger)),
			Notify:    toastsfeature.Routes(toastsfeature.NewHandler(svc.Center, logger)),
			Admin:     adminfeature.Routes(adminfeature.NewHandler(db, svc.Uploader, svc.Center, svc.Audit, logger)),
			Metrics:   metrics.Handler(),
		}

		tree := siteTree(handlers)
		pages = len(routetree.Leaves(tree))

		g := guard.New(errorsHandler)
		routetree.Mount(r, tree, routetree.Middlewares{
			routetree.Auth:    g.RequireAuth,
			routetree.Premium: g.RequirePremium,
			routetree.Admin:   g.RequireAdmin,
		})
	})

	logger.Info("routes mounted",
		zap.Int("pages", pages),
		zap.Bool("google_sign_in", appCfg.GoogleClientID != ""),
		zap.String("paypal_mode", appCfg.PayPalMode))

	return r, nil
}

// markPlaintext tells gorilla/csrf the request arrived over plain HTTP so
// its origin check does not demand https in development.
func markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
