// internal/app/features/terms/handler.go
package terms

import (
	"net/http"

	"github.com/chosenvessel/vesselhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type pageData struct {
	viewdata.BaseVM
	LastUpdated string
}

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		Log: logger,
	}
}

func (h *Handler) ServeTerms(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		BaseVM:      viewdata.NewBaseVM(r, "Terms & Conditions", "/"),
		LastUpdated: "January 1, 2025",
	}

	templates.Render(w, r, "terms", data)
}
