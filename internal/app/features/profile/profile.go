// internal/app/features/profile/profile.go
package profile

import (
	"errors"
	"net/http"
	"strings"

	identitystore "github.com/chosenvessel/vesselhub/internal/app/store/identities"
	profilestore "github.com/chosenvessel/vesselhub/internal/app/store/profiles"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/htmlsanitize"
	"github.com/chosenvessel/vesselhub/internal/app/system/inputval"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// profileData is the view model for the profile page.
type profileData struct {
	formutil.Base

	Profile       models.Profile
	Contact       models.ContactInfo
	TierLabel     string
	RoleLabel     string
	ProviderLabel string
	MemberTypes   []models.Option

	// Password section (only shown for password sign-in)
	ShowPasswordSection bool
	MinPasswordLength   int
}

type profileInput struct {
	DisplayName string `validate:"notblank,max=80" label:"Display name"`
	Bio         string `validate:"max=1000" label:"Bio"`
	Phone       string `validate:"max=30" label:"Phone"`
	Address     string `validate:"max=200" label:"Address"`
	City        string `validate:"max=80" label:"City"`
	State       string `validate:"max=40" label:"State"`
	Zip         string `validate:"max=12" label:"Zip"`
	Type        string `validate:"omitempty,oneof=local virtual" label:"Member type"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/profile                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeProfile renders the member's profile page.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	snap := auth.CurrentSnapshot(r)
	data := profileData{
		MemberTypes:       models.MemberTypes,
		MinPasswordLength: identitystore.MinPasswordLength,
	}
	formutil.SetBase(&data.Base, r, "Profile", "/dashboard")

	if snap.Profile != nil {
		data.Profile = *snap.Profile
		if snap.Profile.ContactInfo != nil {
			data.Contact = *snap.Profile.ContactInfo
		}
	}
	data.TierLabel = models.TierLabel(data.Profile.Tier)
	data.RoleLabel = models.RoleLabel(data.Profile.Role)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "profile identity")
	defer cancel()

	id, err := h.Identities.Get(ctx, snap.UID())
	if err != nil {
		h.Log.Warn("load identity failed", zap.String("user_id", snap.UID()), zap.Error(err))
	} else {
		data.ProviderLabel = models.ProviderLabel(id.Provider)
		data.ShowPasswordSection = id.PasswordHash != ""
	}

	templates.Render(w, r, "profile", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/profile                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleUpdate saves the member's display name, bio and contact info. Role
// and tier are never taken from this form.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	uid := auth.CurrentSnapshot(r).UID()

	in := profileInput{
		DisplayName: htmlsanitize.Text(r.PostFormValue("display_name")),
		Bio:         htmlsanitize.Text(r.PostFormValue("bio")),
		Phone:       htmlsanitize.Text(r.PostFormValue("phone")),
		Address:     htmlsanitize.Text(r.PostFormValue("address")),
		City:        htmlsanitize.Text(r.PostFormValue("city")),
		State:       htmlsanitize.Text(r.PostFormValue("state")),
		Zip:         htmlsanitize.Text(r.PostFormValue("zip")),
		Type:        strings.TrimSpace(r.PostFormValue("member_type")),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		formutil.Finish(w, r, "profile_update", res, "", res.First(), "/dashboard/profile")
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	_, err := h.Profiles.UpdateProfile(ctx, uid, profilestore.ProfileUpdate{
		DisplayName: in.DisplayName,
		Bio:         in.Bio,
		ContactInfo: &models.ContactInfo{
			Phone:   in.Phone,
			Address: in.Address,
			City:    in.City,
			State:   in.State,
			Zip:     in.Zip,
			Type:    in.Type,
		},
	})
	if err != nil {
		h.Log.Error("update profile failed", zap.String("user_id", uid), zap.Error(err))
	}
	formutil.Finish(w, r, "profile_update", err,
		"Profile saved.", "Your profile could not be saved. Please try again.", "/dashboard/profile")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/profile/password                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleChangePassword processes the password change form.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	uid := auth.CurrentSnapshot(r).UID()

	next := r.PostFormValue("new_password")
	if next != r.PostFormValue("confirm_password") {
		formutil.Flash(r, notify.Error, "New passwords do not match.")
		formutil.Redirect(w, r, "/dashboard/profile")
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Identities.ChangePassword(ctx, uid, r.PostFormValue("current_password"), next)
	switch {
	case err == nil:
		formutil.Finish(w, r, "password_change", nil, "Password changed.", "", "/dashboard/profile")
	case errors.Is(err, identitystore.ErrInvalidCredentials):
		formutil.Flash(r, notify.Error, "Current password is incorrect.")
		formutil.Redirect(w, r, "/dashboard/profile")
	case errors.Is(err, identitystore.ErrWeakPassword), errors.Is(err, identitystore.ErrSamePassword):
		formutil.Flash(r, notify.Error, capitalize(err.Error())+".")
		formutil.Redirect(w, r, "/dashboard/profile")
	default:
		h.Log.Error("change password failed", zap.String("user_id", uid), zap.Error(err))
		formutil.Finish(w, r, "password_change", err, "", "Your password could not be changed. Please try again.", "/dashboard/profile")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
