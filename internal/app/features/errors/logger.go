// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/chosenvessel/vesselhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures and renders a friendly page in their
// place. The HTMX variants answer with a small fragment for swaps.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

type errorPage struct {
	viewdata.BaseVM
	Message string
}

func (e *ErrorLogger) log(level string, r *http.Request, msg string, err error) {
	if e == nil || e.Log == nil {
		return
	}
	fields := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	switch level {
	case "error":
		e.Log.Error(msg, fields...)
	default:
		e.Log.Warn(msg, fields...)
	}
}

func (e *ErrorLogger) render(w http.ResponseWriter, r *http.Request, status int, userMsg, backURL string) {
	vm := viewdata.NewBaseVM(r, http.StatusText(status), "/")
	if backURL != "" {
		vm.BackURL = backURL
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", errorPage{BaseVM: vm, Message: userMsg})
}

func (e *ErrorLogger) renderHTMX(w http.ResponseWriter, status int, userMsg string) {
	w.Header().Set("HX-Reswap", "innerHTML")
	w.WriteHeader(status)
	templates.RenderSnippet(w, "error_snippet", struct{ Message string }{userMsg})
}

// LogServerError logs err at error level and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log("error", r, msg, err)
	e.render(w, r, http.StatusInternalServerError, userMsg, backURL)
}

// LogBadRequest logs err at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log("warn", r, msg, err)
	e.render(w, r, http.StatusBadRequest, userMsg, backURL)
}

// LogForbidden logs err at warn level and renders a 403 page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log("warn", r, msg, err)
	e.render(w, r, http.StatusForbidden, userMsg, backURL)
}

// HTMXLogServerError is LogServerError for HTMX requests.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	if r.Header.Get("HX-Request") != "true" {
		e.LogServerError(w, r, msg, err, userMsg, backURL)
		return
	}
	e.log("error", r, msg, err)
	e.renderHTMX(w, http.StatusInternalServerError, userMsg)
}

// HTMXLogBadRequest is LogBadRequest for HTMX requests.
func (e *ErrorLogger) HTMXLogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	if r.Header.Get("HX-Request") != "true" {
		e.LogBadRequest(w, r, msg, err, userMsg, backURL)
		return
	}
	e.log("warn", r, msg, err)
	e.renderHTMX(w, http.StatusBadRequest, userMsg)
}
