// internal/app/features/leadership/handler.go
package leadership

import (
	"net/http"

	"github.com/chosenvessel/vesselhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Leader is one ministry leader card.
type Leader struct {
	Name  string
	Role  string
	Image string
}

// Leaders in display order.
var Leaders = []Leader{
	{Name: "Pastor Keith Hall", Role: "Executive Pastor", Image: "/static/images/leadership/pastor_keith_hall.png"},
	{Name: "Pastor Erick Bowens", Role: "Chief Ministry Liaison & Youth Pastor", Image: "/static/images/leadership/pastor_erick_bowens.png"},
	{Name: "Pastor Jon Hatcher", Role: "CMS of Chosen Vessel Everywhere", Image: "/static/images/leadership/pastor_jon_hatcher.png"},
	{Name: "Pastor Rodney Fleming", Role: "First Impressions", Image: "/static/images/leadership/pastor_rodney_fleming.png"},
	{Name: "Pastor Shirley Gardner", Role: "Congregational Care", Image: "/static/images/leadership/pastor_shirley_gardner.png"},
	{Name: "Pastor Charles Rainbow", Role: "Intake Christian Education", Image: "/static/images/leadership/pastor_charles_rainbow.png"},
	{Name: "Pastor Paulette Smith", Role: "Helps Ministry", Image: "/static/images/leadership/pastor_paulette_smith.png"},
	{Name: "Deacon Isaac Cooper", Role: "Deacons Ministry", Image: "/static/images/leadership/deacon_isaac_cooper.png"},
	{Name: "Katrice Reed", Role: "RefresHER Women's Ministry", Image: "/static/images/leadership/katrice_reed.png"},
	{Name: "Kendric Gray", Role: "Media Ministry", Image: "/static/images/leadership/kendric_gray.jpg"},
}

type pageData struct {
	viewdata.BaseVM
	Leaders []Leader
}

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

func (h *Handler) ServeLeadership(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "leadership", pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Leadership", "/"),
		Leaders: Leaders,
	})
}

func (h *Handler) ServeBishop(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "leadership_bishop", pageData{
		BaseVM: viewdata.NewBaseVM(r, "Bishop Marvin L. Sapp", "/leadership"),
	})
}
