// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/chosenvessel/vesselhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the view model for error and gate pages.
type pageData struct {
	viewdata.BaseVM
	Message string
}

// Handler renders the friendly error pages and the pages shown by route
// guards. It has no dependencies.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "You don't have permission to view this page.", "")
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	RenderUnauthorized(w, r, "")
}

// Placeholder is shown while the session has not been resolved. It
// renders no protected content.
func (h *Handler) Placeholder(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	templates.Render(w, r, "guard_placeholder", pageData{
		BaseVM: viewdata.NewBaseVM(r, "Loading", "/"),
	})
}

// Paywall is rendered in place of a premium page for members without the
// premium tier.
func (h *Handler) Paywall(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	templates.Render(w, r, "guard_paywall", pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Golden Vessel", "/dashboard"),
		Message: "This area is reserved for Golden Vessel members.",
	})
}

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it defaults to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	vm := viewdata.NewBaseVM(r, "Sign in required", "/login")
	if backURL != "" {
		vm.BackURL = backURL
	}
	w.WriteHeader(http.StatusUnauthorized)
	templates.Render(w, r, "error_forbidden", pageData{BaseVM: vm, Message: "Please sign in to continue."})
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, a safe back URL is resolved from the request.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	vm := viewdata.NewBaseVM(r, "Access denied", "/")
	if backURL != "" {
		vm.BackURL = backURL
	}
	w.WriteHeader(http.StatusForbidden)
	templates.Render(w, r, "error_forbidden", pageData{BaseVM: vm, Message: msg})
}
