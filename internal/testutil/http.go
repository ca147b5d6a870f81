package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser describes the signed-in viewer of a handler test.
type TestUser struct {
	ID    string
	Name  string
	Email string
	Role  string
	Tier  string
}

// Member is a signed-in vessel-tier member.
func Member() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Member",
		Email: "member@test.com",
		Role:  models.RoleMember,
		Tier:  models.TierVessel,
	}
}

// GoldenMember is a signed-in premium member.
func GoldenMember() TestUser {
	u := Member()
	u.Name = "Golden Member"
	u.Email = "golden@test.com"
	u.Tier = models.TierGoldenVessel
	return u
}

// Admin is a signed-in admin.
func Admin() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Admin",
		Email: "admin@test.com",
		Role:  models.RoleAdmin,
		Tier:  models.TierGoldenVessel,
	}
}

// Profile returns the profile the session middleware would load for u.
func (u TestUser) Profile() *models.Profile {
	return &models.Profile{
		ID:          u.ID,
		DisplayName: u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Tier:        u.Tier,
		CreatedAt:   time.Now().UTC(),
	}
}

// WithUser resolves the request as signed in by u, bypassing the cookie.
func WithUser(r *http.Request, u TestUser) *http.Request {
	return r.WithContext(UserContext(r.Context(), u))
}

// UserContext returns ctx carrying u's snapshot, as a request handler would
// see it.
func UserContext(ctx context.Context, u TestUser) context.Context {
	return auth.NewContext(ctx, auth.Snapshot{
		Identity: &auth.Identity{UID: u.ID, Email: u.Email, DisplayName: u.Name},
		Profile:  u.Profile(),
	})
}

// SignedOut resolves the request as anonymous.
func SignedOut(r *http.Request) *http.Request {
	return auth.WithSnapshot(r, auth.Snapshot{})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewFormRequest creates a POST with an urlencoded body.
func NewFormRequest(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// HTMX marks r as an htmx request.
func HTMX(r *http.Request) *http.Request {
	r.Header.Set("HX-Request", "true")
	return r
}
