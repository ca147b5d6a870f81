package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/chosenvessel/vesselhub/internal/app/features/errors"
	"github.com/chosenvessel/vesselhub/internal/app/features/login"
	identitystore "github.com/chosenvessel/vesselhub/internal/app/store/identities"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/ratelimit"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/chosenvessel/vesselhub/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler(t *testing.T) *login.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	h := login.NewHandler(db, sessionMgr, errLog, nil, ratelimit.NewLoginLimiter(), false, logger)
	h.Identities = identitystore.New(db).WithCost(bcrypt.MinCost)
	return h
}

func register(t *testing.T, h *login.Handler, email, password string) models.Identity {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	id, err := h.Identities.CreatePassword(ctx, email, password, "Ruth")
	if err != nil {
		t.Fatalf("CreatePassword: %v", err)
	}
	return id
}

func post(h *login.Handler, form url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := testutil.SignedOut(testutil.NewFormRequest("/login", form))
	// Error paths render the form, which may panic without initialized templates.
	func() {
		defer func() {
			if r := recover(); r != nil {
			}
		}()
		h.HandleLoginPost(rec, req)
	}()
	return rec
}

func hasSessionCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge >= 0 {
			return true
		}
	}
	return false
}

func TestHandleLoginPost_Success(t *testing.T) {
	h := newTestHandler(t)
	id := register(t, h, "ruth@example.com", "moab-forever")

	rec := post(h, url.Values{"email": {"Ruth@Example.com"}, "password": {"moab-forever"}})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want %q", loc, "/dashboard")
	}
	if !hasSessionCookie(rec) {
		t.Error("expected session cookie to be set")
	}

	// The password identity had no profile; sign-in repairs it.
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p, err := h.Profiles.Get(ctx, id.UID())
	if err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if p.Role != models.RoleMember || p.Tier != models.TierVessel || !p.HasBadge(models.BadgeRecovered) {
		t.Errorf("unexpected repaired profile %+v", p)
	}
}

func TestHandleLoginPost_ReturnURL(t *testing.T) {
	h := newTestHandler(t)
	register(t, h, "naomi@example.com", "bethlehem")

	tests := []struct {
		ret  string
		want string
	}{
		{"/dashboard/prayer", "/dashboard/prayer"},
		{"", "/dashboard"},
	}
	for _, tt := range tests {
		rec := post(h, url.Values{"email": {"naomi@example.com"}, "password": {"bethlehem"}, "return": {tt.ret}})
		if loc := rec.Header().Get("Location"); loc != tt.want {
			t.Errorf("return %q: Location = %q, want %q", tt.ret, loc, tt.want)
		}
	}
}

func TestHandleLoginPost_WrongPassword(t *testing.T) {
	h := newTestHandler(t)
	register(t, h, "boaz@example.com", "threshing-floor")

	rec := post(h, url.Values{"email": {"boaz@example.com"}, "password": {"nope"}})

	if rec.Code == http.StatusSeeOther {
		t.Error("wrong password must not redirect")
	}
	if hasSessionCookie(rec) {
		t.Error("wrong password must not set a session cookie")
	}
}

func TestHandleLoginPost_MissingFields(t *testing.T) {
	h := newTestHandler(t)
	rec := post(h, url.Values{"email": {""}})
	if hasSessionCookie(rec) || rec.Code == http.StatusSeeOther {
		t.Error("empty form must not sign in")
	}
}

func TestHandleLoginPost_RateLimited(t *testing.T) {
	h := newTestHandler(t)
	h.Limiter = ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 1, time.Minute)
	register(t, h, "orpah@example.com", "correct-horse")

	post(h, url.Values{"email": {"orpah@example.com"}, "password": {"wrong"}})
	rec := post(h, url.Values{"email": {"orpah@example.com"}, "password": {"correct-horse"}})

	if hasSessionCookie(rec) {
		t.Error("rate limited attempt must not sign in even with the right password")
	}
}

func TestServeLogin_SignedInRedirects(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	req := testutil.WithUser(testutil.NewRequest("GET", "/login?return=/dashboard/events"), testutil.Member())

	h.ServeLogin(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard/events" {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestErrorMessage(t *testing.T) {
	for _, code := range []string{"google_not_configured", "google_denied", "invalid_state", "invalid_code", "token_exchange", "user_info", "internal"} {
		if login.ErrorMessage(code) == "" {
			t.Errorf("no message for %q", code)
		}
	}
	if login.ErrorMessage("bogus") != "" {
		t.Error("unknown codes must map to no message")
	}
}

