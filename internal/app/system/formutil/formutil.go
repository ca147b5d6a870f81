// Package formutil provides helpers for form pages and for finishing a
// mutation with a toast.
//
// When a form submission fails validation, the form is re-rendered with the
// member's values and an error message:
//
//	type noteFormData struct {
//		formutil.Base
//		Title string
//	}
//
//	data := noteFormData{Title: title}
//	formutil.SetBase(&data.Base, r, "New Note", "/dashboard/journal")
//	data.SetError("Title is required.")
//	templates.Render(w, r, "journal_form", data)
//
// A mutation that succeeded or failed ends with Finish, which records the
// metric, shows a toast and sends the browser back.
package formutil

import (
	"html/template"
	"net/http"

	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/metrics"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"github.com/chosenvessel/vesselhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// Base contains common fields for form pages.
type Base struct {
	viewdata.BaseVM
	Error template.HTML
}

// SetBase populates the common fields from the request.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(r, title, backDefault)
}

// SetError sets the error message. msg is escaped.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// Flash shows a toast to the signed-in viewer. It is a no-op for signed-out
// requests or before the notification center is configured.
func Flash(r *http.Request, severity, msg string) {
	c := viewdata.Center()
	uid := auth.CurrentSnapshot(r).UID()
	if c == nil || uid == "" || msg == "" {
		return
	}
	c.Show(uid, msg, severity)
}

// Finish records the outcome of op, shows okMsg or failMsg as a toast and
// redirects to the form's "return" value, or back when that is missing or
// unsafe. Nothing is retried.
func Finish(w http.ResponseWriter, r *http.Request, op string, err error, okMsg, failMsg, back string) {
	metrics.Mutation(op, err)
	if err != nil {
		Flash(r, notify.Error, failMsg)
	} else {
		Flash(r, notify.Success, okMsg)
	}
	Redirect(w, r, urlutil.SafeReturn(r.FormValue("return"), "", back))
}

// Redirect sends a 303, or HX-Redirect for HTMX requests.
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
