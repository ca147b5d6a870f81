// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// SiteName is shown in the header and page titles.
const SiteName = "The Chosen Vessel"

// BaseVM contains common fields for all view models.
// Embed this struct in feature-specific view models.
//
//	data := prayerPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Prayer Wall", "/dashboard"),
//	}
type BaseVM struct {
	SiteName string

	// Viewer, from the per-request session snapshot.
	IsLoggedIn bool
	UserID     string
	UserName   string
	Role       string
	Tier       string
	IsAdmin    bool
	IsPremium  bool

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string

	// Toasts and the pending confirm prompt for this viewer.
	Toasts  []notify.Toast
	Confirm *notify.Prompt
}

var center *notify.Center

// Init sets the notification center whose toasts are rendered into every
// page. Call once at startup from bootstrap.
func Init(c *notify.Center) {
	center = c
}

// Center returns the center configured by Init (nil before Init).
func Center() *notify.Center {
	return center
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	snap := auth.CurrentSnapshot(r)

	vm := BaseVM{
		SiteName:    SiteName,
		IsLoggedIn:  snap.SignedIn(),
		UserID:      snap.UID(),
		UserName:    snap.DisplayName(),
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if p := snap.Profile; p != nil {
		vm.Role = p.Role
		vm.Tier = p.Tier
		vm.IsAdmin = p.IsAdmin()
		vm.IsPremium = p.IsPremium()
	}
	if center != nil && vm.UserID != "" {
		vm.Toasts = center.Active(vm.UserID)
		if p, ok := center.Pending(vm.UserID); ok {
			vm.Confirm = &p
		}
	}
	return vm
}
