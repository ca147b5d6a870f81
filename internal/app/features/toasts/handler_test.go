package toasts_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/chosenvessel/vesselhub/internal/app/features/toasts"
	"github.com/chosenvessel/vesselhub/internal/app/system/guard"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/chosenvessel/vesselhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func post(h *toasts.Handler, u testutil.TestUser, target string, form url.Values) *httptest.ResponseRecorder {
	req := testutil.WithUser(testutil.NewFormRequest(target, form), u)
	rec := httptest.NewRecorder()
	toasts.Routes(h).ServeHTTP(rec, req)
	return rec
}

func TestHandleConfirm(t *testing.T) {
	tests := []struct {
		name    string
		accept  string
		wantRan bool
	}{
		{"accepted runs action", "1", true},
		{"cancelled skips action", "0", false},
		{"missing accept cancels", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			center := notify.NewCenter(nil, time.Minute)
			h := toasts.NewHandler(center, zap.NewNop())
			u := testutil.Admin()

			ran := false
			token := center.Confirm(u.ID, "Make this member an admin?", func(context.Context) error {
				ran = true
				return nil
			})

			rec := post(h, u, "/confirm/"+token, url.Values{"accept": {tt.accept}, "return": {"/admin/users"}})

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/admin/users", rec.Header().Get("Location"))
			assert.Equal(t, tt.wantRan, ran)
			_, open := center.Pending(u.ID)
			assert.False(t, open, "prompt should be closed")
		})
	}
}

func TestHandleConfirm_StaleToken(t *testing.T) {
	center := notify.NewCenter(nil, time.Minute)
	h := toasts.NewHandler(center, zap.NewNop())
	u := testutil.Admin()

	ran := 0
	first := center.Confirm(u.ID, "first", func(context.Context) error { ran++; return nil })
	center.Confirm(u.ID, "second", func(context.Context) error { ran++; return nil })

	rec := post(h, u, "/confirm/"+first, url.Values{"accept": {"1"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, ran)
	p, open := center.Pending(u.ID)
	require.True(t, open, "newer prompt must stay open")
	assert.Equal(t, "second", p.Message)

	active := center.Active(u.ID)
	require.Len(t, active, 1)
	assert.Equal(t, notify.Info, active[0].Severity)
}

func TestHandleConfirm_ActionErrorShowsErrorToast(t *testing.T) {
	center := notify.NewCenter(nil, time.Minute)
	h := toasts.NewHandler(center, zap.NewNop())
	u := testutil.Admin()

	token := center.Confirm(u.ID, "Delete?", func(context.Context) error { return errors.New("db down") })
	post(h, u, "/confirm/"+token, url.Values{"accept": {"1"}})

	active := center.Active(u.ID)
	require.Len(t, active, 1)
	assert.Equal(t, notify.Error, active[0].Severity)
}

func TestHandleConfirm_DemotedAdminIsDenied(t *testing.T) {
	center := notify.NewCenter(nil, time.Minute)
	h := toasts.NewHandler(center, zap.NewNop())
	u := testutil.Admin()

	ran := false
	token := center.ConfirmGated(u.ID, "Make this member an admin?", guard.AdminGate, func(context.Context) error {
		ran = true
		return nil
	})

	demoted := u
	demoted.Role = models.RoleMember
	rec := post(h, demoted, "/confirm/"+token, url.Values{"accept": {"1"}, "return": {"/admin/users"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, ran, "admin action must not run for a member")
	_, open := center.Pending(u.ID)
	assert.False(t, open)
	active := center.Active(u.ID)
	require.Len(t, active, 1)
	assert.Equal(t, notify.Error, active[0].Severity)
}

func TestHandleConfirm_AdminPassesGate(t *testing.T) {
	center := notify.NewCenter(nil, time.Minute)
	h := toasts.NewHandler(center, zap.NewNop())
	u := testutil.Admin()

	ran := false
	token := center.ConfirmGated(u.ID, "Delete?", guard.AdminGate, func(context.Context) error {
		ran = true
		return nil
	})
	post(h, u, "/confirm/"+token, url.Values{"accept": {"1"}})

	assert.True(t, ran)
}

func TestHandleDismiss(t *testing.T) {
	center := notify.NewCenter(nil, time.Minute)
	h := toasts.NewHandler(center, zap.NewNop())
	u := testutil.Member()

	keep := center.Show(u.ID, "keep", notify.Info)
	drop := center.Show(u.ID, "drop", notify.Success)

	req := testutil.HTMX(testutil.WithUser(testutil.NewFormRequest("/dismiss/"+drop.ID, url.Values{}), u))
	rec := httptest.NewRecorder()
	toasts.Routes(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	active := center.Active(u.ID)
	require.Len(t, active, 1)
	assert.Equal(t, keep.ID, active[0].ID)
}
