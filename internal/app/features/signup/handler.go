// internal/app/features/signup/handler.go
package signup

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/chosenvessel/vesselhub/internal/app/features/errors"
	identitystore "github.com/chosenvessel/vesselhub/internal/app/store/identities"
	profilestore "github.com/chosenvessel/vesselhub/internal/app/store/profiles"
	"github.com/chosenvessel/vesselhub/internal/app/system/auditlog"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/inputval"
	"github.com/chosenvessel/vesselhub/internal/app/system/ratelimit"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/app/system/viewdata"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
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
	GoogleEnabled bool
	Log           *zap.Logger
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

type formData struct {
	viewdata.BaseVM
	Error         string
	Name          string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

type signupInput struct {
	Name     string `validate:"notblank,max=80" label:"Full name"`
	Email    string `validate:"required,email" label:"Email"`
	Password string `validate:"required,min=6,max=128" label:"Password"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /signup                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")
	if auth.CurrentSnapshot(r).SignedIn() {
		http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/dashboard"), http.StatusSeeOther)
		return
	}
	templates.Render(w, r, "signup", formData{
		BaseVM:        viewdata.NewBaseVM(r, "Join", "/"),
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /signup                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/signup")
		return
	}

	in := signupInput{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderFormWithError(w, r, res.First(), in)
		return
	}
	if in.Password != r.FormValue("confirm") {
		h.renderFormWithError(w, r, "Passwords do not match.", in)
		return
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, in.Email); !ok {
			h.renderFormWithError(w, r, reason, in)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "signup")
	defer cancel()

	id, err := h.Identities.CreatePassword(ctx, in.Email, in.Password, in.Name)
	switch {
	case errors.Is(err, identitystore.ErrEmailTaken), errors.Is(err, identitystore.ErrWeakPassword):
		h.renderFormWithError(w, r, err.Error()+".", in)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create identity", err, "A server error occurred.", "/signup")
		return
	}

	// Sign-up writes the profile eagerly; sign-in repairs it if this fails.
	_, err = h.Profiles.Create(ctx, models.Profile{
		ID:          id.UID(),
		DisplayName: in.Name,
		Email:       id.Email,
		Badges:      []string{models.BadgeNewMember},
	})
	if err != nil && !errors.Is(err, profilestore.ErrExists) {
		h.Log.Error("create profile at signup", zap.Error(err), zap.String("user_id", id.UID()))
	}
	h.AuditLog.SignUp(ctx, r, id.UID(), id.Provider, id.Email)

	if err := h.SessionMgr.SignIn(w, r, auth.Identity{
		UID:         id.UID(),
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Provider:    id.Provider,
	}); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", id.UID()))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	dest := urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg string, in signupInput) {
	templates.Render(w, r, "signup", formData{
		BaseVM:        viewdata.NewBaseVM(r, "Join", "/"),
		Error:         msg,
		Name:          in.Name,
		Email:         in.Email,
		ReturnURL:     strings.TrimSpace(r.FormValue("return")),
		GoogleEnabled: h.GoogleEnabled,
	})
}
