// internal/app/features/gifts/handler.go
package gifts

import (
	"errors"
	"net/http"
	"strconv"

	assessmentstore "github.com/chosenvessel/vesselhub/internal/app/store/assessments"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/metrics"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Assessments *assessmentstore.Store
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Assessments: assessmentstore.New(db), Log: logger}
}

// questionRow is one statement with the member's current answer.
type questionRow struct {
	Index  int
	Number int
	Text   string
	Answer int
}

// giftResult is one of the member's top gifts with its description.
type giftResult struct {
	Gift        string
	Score       int
	Description string
}

type pageData struct {
	formutil.Base
	Questions []questionRow
	Scale     []int
	Result    *models.Assessment
	Top       []giftResult
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, answers []int, result *models.Assessment, errMsg string) {
	data := pageData{Scale: []int{1, 2, 3, 4, 5}, Result: result}
	formutil.SetBase(&data.Base, r, "Spiritual Gifts", "/dashboard")
	if errMsg != "" {
		data.SetError(errMsg)
	}
	for i, q := range assessmentstore.Questions {
		row := questionRow{Index: i, Number: i + 1, Text: q.Text}
		if i < len(answers) {
			row.Answer = answers[i]
		}
		data.Questions = append(data.Questions, row)
	}
	if result != nil {
		for _, g := range result.TopGifts {
			data.Top = append(data.Top, giftResult{Gift: g, Score: result.Scores[g], Description: assessmentstore.Describe(g)})
		}
	}
	templates.Render(w, r, "gifts", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/gifts                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeAssessment shows the questionnaire and, when present, the member's
// saved result.
func (h *Handler) ServeAssessment(w http.ResponseWriter, r *http.Request) {
	uid := auth.CurrentSnapshot(r).UID()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "gifts assessment")
	defer cancel()

	var result *models.Assessment
	a, err := h.Assessments.Get(ctx, uid)
	switch {
	case err == nil:
		result = &a
	case errors.Is(err, assessmentstore.ErrNotFound):
	default:
		h.Log.Warn("load assessment failed", zap.String("user_id", uid), zap.Error(err))
	}
	h.render(w, r, nil, result, "")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /dashboard/gifts                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleSubmit scores the answers and overwrites the saved result. Missing
// answers re-render the form with what the member already chose.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	uid := auth.CurrentSnapshot(r).UID()
	answers := ParseAnswers(r)

	if _, _, err := assessmentstore.Score(answers); err != nil {
		h.render(w, r, answers, nil, "Please answer every statement from 1 to 5.")
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Assessments.Save(ctx, uid, answers)
	metrics.Mutation("assessment_save", err)
	if err != nil {
		h.Log.Error("save assessment failed", zap.String("user_id", uid), zap.Error(err))
		h.render(w, r, answers, nil, "Your results could not be saved. Please try again.")
		return
	}
	h.render(w, r, answers, &a, "")
}

// ParseAnswers reads q0..qN from the form. Missing or non-numeric answers
// are 0, which Score rejects.
func ParseAnswers(r *http.Request) []int {
	out := make([]int, len(assessmentstore.Questions))
	for i := range out {
		v, err := strconv.Atoi(r.PostFormValue("q" + strconv.Itoa(i)))
		if err == nil {
			out[i] = v
		}
	}
	return out
}
