// Package guard decides whether a request may reach a protected page.
//
// The decision functions are pure: they look only at the session snapshot.
// The middlewares turn a decision into a response. Every guard denies when
// it is unsure (loading, missing profile, unknown role or tier).
package guard

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/metrics"
)

// Outcome is what a guard wants done with the request.
type Outcome int

const (
	// Allow renders the protected children.
	Allow Outcome = iota
	// Placeholder renders a neutral loading page and no children.
	Placeholder
	// Redirect sends the visitor elsewhere.
	Redirect
	// Paywall renders the upgrade prompt in place of the children.
	Paywall
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Placeholder:
		return "placeholder"
	case Redirect:
		return "redirect"
	case Paywall:
		return "paywall"
	}
	return "unknown"
}

// Decision is a guard result.
type Decision struct {
	Outcome  Outcome
	Location string // set for Redirect
}

const (
	// AdminFallback is where non-admins are silently sent.
	AdminFallback = "/dashboard"
	loginPath     = "/login"
)

// Auth allows any signed-in identity. While the snapshot is loading it asks
// for the placeholder; signed-out visitors go to the login page with a return
// target.
func Auth(s auth.Snapshot, returnTo string) Decision {
	switch {
	case s.Loading:
		return Decision{Outcome: Placeholder}
	case s.Identity == nil:
		return Decision{Outcome: Redirect, Location: LoginURL(returnTo)}
	}
	return Decision{Outcome: Allow}
}

// Admin is Auth plus the admin role. Signed-in visitors without it, including
// those whose profile could not be read, are sent to the dashboard.
func Admin(s auth.Snapshot, returnTo string) Decision {
	if d := Auth(s, returnTo); d.Outcome != Allow {
		return d
	}
	if s.Profile.IsAdmin() {
		return Decision{Outcome: Allow}
	}
	return Decision{Outcome: Redirect, Location: AdminFallback}
}

// AdminGate reports whether the snapshot carried by ctx passes Admin. Admin
// actions that run on a later request (accepted confirmations) check it then.
func AdminGate(ctx context.Context) bool {
	return Admin(auth.FromContext(ctx), "").Outcome == Allow
}

// Premium allows only golden vessel profiles. Everyone else sees the paywall
// in place; this guard never redirects.
func Premium(s auth.Snapshot) Decision {
	if !s.Loading && s.Profile.IsPremium() {
		return Decision{Outcome: Allow}
	}
	return Decision{Outcome: Paywall}
}

// LoginURL builds the login redirect for returnTo.
func LoginURL(returnTo string) string {
	if returnTo == "" {
		return loginPath
	}
	return loginPath + "?return=" + url.QueryEscape(returnTo)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middlewares                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// Pages renders the non-redirect outcomes.
type Pages interface {
	Placeholder(w http.ResponseWriter, r *http.Request)
	Paywall(w http.ResponseWriter, r *http.Request)
}

// Guards builds the three middlewares around one set of pages.
type Guards struct {
	Pages Pages
}

// New constructs Guards.
func New(p Pages) *Guards {
	return &Guards{Pages: p}
}

// RequireAuth gates children on a signed-in identity.
func (g *Guards) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := Auth(auth.CurrentSnapshot(r), r.URL.RequestURI())
		g.apply(w, r, "auth", d, next)
	})
}

// RequireAdmin gates children on the admin role.
func (g *Guards) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.apply(w, r, "admin", Admin(auth.CurrentSnapshot(r), r.URL.RequestURI()), next)
	})
}

// RequirePremium gates children on the golden vessel tier.
func (g *Guards) RequirePremium(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.apply(w, r, "premium", Premium(auth.CurrentSnapshot(r)), next)
	})
}

func (g *Guards) apply(w http.ResponseWriter, r *http.Request, name string, d Decision, next http.Handler) {
	metrics.GuardDecisions.WithLabelValues(name, d.Outcome.String()).Inc()

	switch d.Outcome {
	case Allow:
		next.ServeHTTP(w, r)
	case Placeholder:
		g.Pages.Placeholder(w, r)
	case Paywall:
		g.Pages.Paywall(w, r)
	case Redirect:
		redirect(w, r, d.Location)
	}
}

// redirect navigates the whole page, also for HTMX partial requests.
func redirect(w http.ResponseWriter, r *http.Request, location string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if wantsHTML(r) || r.Method == http.MethodGet {
		http.Redirect(w, r, location, http.StatusSeeOther)
		return
	}
	if strings.HasPrefix(location, loginPath) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	http.Error(w, "forbidden", http.StatusForbidden)
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
