// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/chosenvessel/vesselhub/internal/app/features/errors"
	"github.com/chosenvessel/vesselhub/internal/app/store/audit"
	identitystore "github.com/chosenvessel/vesselhub/internal/app/store/identities"
	profilestore "github.com/chosenvessel/vesselhub/internal/app/store/profiles"
	"github.com/chosenvessel/vesselhub/internal/app/system/auditlog"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/ratelimit"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Identities    *identitystore.Store
	Profiles      *profilestore.Store
	SessionMgr    *auth.SessionManager
	Limiter       *ratelimit.LoginLimiter
	AuditLog      *auditlog.Logger
	ErrLog        *uierrors.ErrorLogger
	GoogleEnabled bool // True if Google OAuth is configured
	Log           *zap.Logger
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	limiter *ratelimit.LoginLimiter,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Identities:    identitystore.New(db),
		Profiles:      profilestore.New(db),
		SessionMgr:    sessionMgr,
		Limiter:       limiter,
		AuditLog:      audit,
		ErrLog:        errLog,
		GoogleEnabled: googleEnabled,
		Log:           logger,
	}
}

// errorMessages maps the ?error= codes used by redirects from the Google
// callback to messages shown above the form.
var errorMessages = map[string]string{
	"google_not_configured": "Google sign-in is not configured. Please use your email and password.",
	"google_denied":         "Google sign-in was cancelled.",
	"invalid_state":         "Your sign-in attempt expired. Please try again.",
	"invalid_code":          "We could not complete Google sign-in. Please try again.",
	"token_exchange":        "We could not complete Google sign-in. Please try again.",
	"user_info":             "We could not read your Google account details. Please try again.",
	"internal":              "Something went wrong on our side. Please try again.",
}

// ErrorMessage returns the message for an ?error= code ("" for unknown codes).
func ErrorMessage(code string) string {
	return errorMessages[code]
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")

	if auth.CurrentSnapshot(r).SignedIn() {
		http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/dashboard"), http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign In", "/"),
		Error:         ErrorMessage(query.Get(r, "error")),
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your email and password.", email)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, email); !ok {
			h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedRateLimit, email, "rate limited")
			h.renderFormWithError(w, r, reason, email)
			return
		}
	}

	id, found, err := h.Identities.Authenticate(ctx, email, password)
	switch {
	case errors.Is(err, identitystore.ErrInvalidCredentials):
		event := audit.EventLoginFailedUserNotFound
		if found {
			event = audit.EventLoginFailedWrongPassword
		}
		h.AuditLog.LoginFailed(ctx, r, event, email, "invalid credentials")
		h.renderFormWithError(w, r, "Incorrect email or password.", email)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "authenticate", err, "A server error occurred.", "/login")
		return
	}

	// A profile created before this sign-in may be missing; repair it here
	// so the first dashboard request already sees it.
	_, created, err := h.Profiles.EnsureDefault(ctx, id.UID(), id.Email, id.DisplayName)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "ensure profile", err, "A server error occurred.", "/login")
		return
	}
	if created {
		h.AuditLog.ProfileRepaired(ctx, id.UID())
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.createSessionAndRedirect(w, r, auth.Identity{
		UID:         id.UID(),
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Provider:    id.Provider,
	}, r.FormValue("return"))
}

// createSessionAndRedirect signs the identity in and redirects to the
// destination.
func (h *Handler) createSessionAndRedirect(w http.ResponseWriter, r *http.Request, id auth.Identity, returnURL string) {
	if err := h.SessionMgr.SignIn(w, r, id); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", id.UID))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", id.Email)
		return
	}

	h.AuditLog.LoginSuccess(r.Context(), r, id.UID, id.Provider, id.Email)

	dest := urlutil.SafeReturn(strings.TrimSpace(returnURL), "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helper: render the form with an error                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email string) {
	// From POST, "return" will be in the form; from GET, we might rely on the query.
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign In", "/"),
		Error:         msg,
		Email:         email,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	})
}
