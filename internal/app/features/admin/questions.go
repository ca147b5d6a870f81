// internal/app/features/admin/questions.go
package admin

import (
	"errors"
	"net/http"

	auditstore "github.com/chosenvessel/vesselhub/internal/app/store/audit"
	questionstore "github.com/chosenvessel/vesselhub/internal/app/store/questions"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/htmlsanitize"
	"github.com/chosenvessel/vesselhub/internal/app/system/inputval"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type questionsData struct {
	formutil.Base
	Pending  []models.Question
	Answered []models.Question
}

type answerInput struct {
	Answer string `validate:"notblank,max=8000" label:"Answer"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/questions                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeQuestions splits submissions into pending and answered.
func (h *Handler) ServeQuestions(w http.ResponseWriter, r *http.Request) {
	var data questionsData
	formutil.SetBase(&data.Base, r, "Bishop Q&A", "/admin")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin questions")
	defer cancel()

	items, err := h.Questions.List(ctx)
	if err != nil {
		h.Log.Error("list questions failed", zap.Error(err))
		data.SetError("Questions could not be loaded.")
	}
	for _, q := range items {
		if q.Status == models.QuestionAnswered {
			data.Answered = append(data.Answered, q)
		} else {
			data.Pending = append(data.Pending, q)
		}
	}

	templates.Render(w, r, "admin_questions", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/questions/{id}/answer                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleAnswer stores the answer and marks the question answered. Answering
// again replaces the earlier answer.
func (h *Handler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	back := "/admin/questions"

	in := answerInput{Answer: htmlsanitize.Text(r.PostFormValue("answer"))}
	if res := inputval.Validate(in); res.HasErrors() {
		formutil.Finish(w, r, "question_answer", res, "", res.First(), back)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	q, err := h.Questions.Answer(ctx, oid, in.Answer)
	if errors.Is(err, questionstore.ErrNotFound) {
		formutil.Finish(w, r, "question_answer", err, "", "That question no longer exists.", back)
		return
	}
	if err != nil {
		h.Log.Error("answer question failed", zap.String("id", oid.Hex()), zap.Error(err))
	} else {
		h.Audit.Moderated(ctx, r, auditstore.EventQuestionAnswered, auth.CurrentSnapshot(r).UID(), q.UserID, oid.Hex())
	}
	formutil.Finish(w, r, "question_answer", err,
		"Answer published.", "The answer could not be saved. Please try again.", back)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/questions/{id}/delete                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Questions.Delete(ctx, oid)
	if err != nil {
		h.Log.Error("delete question failed", zap.String("id", oid.Hex()), zap.Error(err))
	} else if n > 0 {
		h.Audit.Moderated(ctx, r, auditstore.EventQuestionDeleted, auth.CurrentSnapshot(r).UID(), r.PostFormValue("user_id"), oid.Hex())
	}
	formutil.Finish(w, r, "question_delete", err,
		"Question deleted.", "The question could not be deleted. Please try again.", "/admin/questions")
}
