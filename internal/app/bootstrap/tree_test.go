package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chosenvessel/vesselhub/internal/app/system/guard"
	"github.com/chosenvessel/vesselhub/internal/app/system/metrics"
	"github.com/chosenvessel/vesselhub/internal/app/system/routetree"
	"github.com/chosenvessel/vesselhub/internal/testutil"
	"github.com/go-chi/chi/v5"
)

func stubHandlers() siteHandlers {
	stub := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	return siteHandlers{
		Home: stub, Login: stub, Signup: stub, Logout: stub, Google: stub,
		Leadership: stub, Terms: stub, Give: stub, Health: stub,
		Dashboard: stub, Live: stub, Chat: stub, Pastor: stub, Library: stub,
		QA: stub, Gifts: stub, Groups: stub, Prayer: stub, Devotional: stub,
		Giving: stub, Events: stub, Journal: stub, Kids: stub, Profile: stub,
		Subscribe: stub, Notify: stub, Admin: stub, Metrics: stub,
	}
}

func leavesByPath(t *testing.T) map[string]routetree.Leaf {
	t.Helper()
	out := map[string]routetree.Leaf{}
	for _, l := range routetree.Leaves(siteTree(stubHandlers())) {
		if _, dup := out[l.Path]; dup {
			t.Fatalf("duplicate leaf %s", l.Path)
		}
		out[l.Path] = l
	}
	return out
}

func TestSiteTree_PremiumLeaves(t *testing.T) {
	leaves := leavesByPath(t)
	premium := []string{
		"/dashboard/live", "/dashboard/chat", "/dashboard/pastor", "/dashboard/library",
		"/dashboard/qa", "/dashboard/gifts", "/dashboard/groups",
	}
	for _, p := range premium {
		l, ok := leaves[p]
		if !ok {
			t.Fatalf("missing leaf %s", p)
		}
		if !l.Has(routetree.Auth) || !l.Has(routetree.Premium) {
			t.Errorf("%s gates = %v, want auth and premium", p, l.Gates)
		}
	}
}

func TestSiteTree_MemberLeavesAreNotPremium(t *testing.T) {
	leaves := leavesByPath(t)
	for _, p := range []string{
		"/dashboard", "/dashboard/prayer", "/dashboard/devotional", "/dashboard/giving",
		"/dashboard/events", "/dashboard/journal", "/dashboard/kids", "/dashboard/profile",
		"/subscribe", "/notify",
	} {
		l, ok := leaves[p]
		if !ok {
			t.Fatalf("missing leaf %s", p)
		}
		if !l.Has(routetree.Auth) {
			t.Errorf("%s should require auth", p)
		}
		if l.Has(routetree.Premium) || l.Has(routetree.Admin) {
			t.Errorf("%s gates = %v, want auth only", p, l.Gates)
		}
	}
}

func TestSiteTree_PublicAndAdmin(t *testing.T) {
	leaves := leavesByPath(t)
	for _, p := range []string{"/", "/login", "/signup", "/logout", "/auth/google", "/leadership", "/terms", "/give", "/health"} {
		l, ok := leaves[p]
		if !ok {
			t.Fatalf("missing leaf %s", p)
		}
		if len(l.Gates) != 0 {
			t.Errorf("%s gates = %v, want public", p, l.Gates)
		}
	}
	for _, p := range []string{"/admin", "/metrics"} {
		l, ok := leaves[p]
		if !ok {
			t.Fatalf("missing leaf %s", p)
		}
		if !l.Has(routetree.Admin) {
			t.Errorf("%s gates = %v, want admin", p, l.Gates)
		}
	}
}

func TestSiteTree_NilHandlersAreSkipped(t *testing.T) {
	if n := len(routetree.Leaves(siteTree(siteHandlers{}))); n != 0 {
		t.Errorf("leaves with no handlers = %d, want 0", n)
	}
}

type plainPages struct{}

func (plainPages) Placeholder(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("loading")) }
func (plainPages) Paywall(w http.ResponseWriter, r *http.Request)     { _, _ = w.Write([]byte("paywall")) }

func TestSiteTree_MetricsRequireAdmin(t *testing.T) {
	h := stubHandlers()
	h.Metrics = metrics.Handler()
	g := guard.New(plainPages{})
	r := chi.NewRouter()
	routetree.Mount(r, siteTree(h), routetree.Middlewares{
		routetree.Auth:    g.RequireAuth,
		routetree.Premium: g.RequirePremium,
		routetree.Admin:   g.RequireAdmin,
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", "/metrics"), testutil.Member()))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != guard.AdminFallback {
		t.Errorf("member: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.SignedOut(testutil.NewRequest("GET", "/metrics")))
	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/login") {
		t.Errorf("signed out: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", "/metrics"), testutil.Admin()))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "vesselhub_") {
		t.Errorf("admin: status %d, body lacks vesselhub metrics", rec.Code)
	}
}
