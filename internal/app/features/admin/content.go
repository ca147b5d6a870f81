// internal/app/features/admin/content.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	auditstore "github.com/chosenvessel/vesselhub/internal/app/store/audit"
	contentstore "github.com/chosenvessel/vesselhub/internal/app/store/content"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/formutil"
	"github.com/chosenvessel/vesselhub/internal/app/system/htmlsanitize"
	"github.com/chosenvessel/vesselhub/internal/app/system/inputval"
	"github.com/chosenvessel/vesselhub/internal/app/system/mediastore"
	"github.com/chosenvessel/vesselhub/internal/app/system/metrics"
	"github.com/chosenvessel/vesselhub/internal/app/system/notify"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxFormMemory is how much of a multipart form is held in memory before
// spilling to temp files.
const maxFormMemory = 32 << 20

type kindTab struct {
	Kind   models.ContentKind
	Label  string
	Active bool
}

type contentRow struct {
	ID       string
	Title    string
	Subtitle string
	Updated  string
}

type contentData struct {
	formutil.Base
	Tabs    []kindTab
	Kind    models.ContentKind
	Rows    []contentRow
	Editing bool
	Item    models.Content
	Groups  []models.Group
	Stream  models.StreamConfig

	EventCategories []string
	KidTypes        []string
	KidAgeGroups    []string
	ResourceTypes   []string
	CanUpload       bool
}

var kindLabels = map[models.ContentKind]string{
	models.KindSermon:            "Sermons",
	models.KindEvent:             "Events",
	models.KindDevotional:        "Daily Bread",
	models.KindKid:               "Kids Kingdom",
	models.KindResource:          "Library",
	models.KindGroupAnnouncement: "Group Announcements",
}

func contentBack(kind models.ContentKind) string {
	return "/admin/content?kind=" + string(kind)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/content                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeContent lists one kind (?kind=, default sermons) with its form. With
// ?edit={id} the form is filled from that item.
func (h *Handler) ServeContent(w http.ResponseWriter, r *http.Request) {
	kind := models.ContentKind(query.Get(r, "kind"))
	if !kind.Valid() {
		kind = models.KindSermon
	}

	data := contentData{
		Kind:            kind,
		EventCategories: models.EventCategories,
		KidTypes:        models.KidContentTypes,
		KidAgeGroups:    models.KidAgeGroups,
		ResourceTypes:   models.ResourceTypes,
		CanUpload:       h.Uploader != nil,
	}
	formutil.SetBase(&data.Base, r, "Content", "/admin")
	for _, k := range models.ContentKinds {
		data.Tabs = append(data.Tabs, kindTab{Kind: k, Label: kindLabels[k], Active: k == kind})
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin content")
	defer cancel()

	items, err := h.Content.List(ctx, kind)
	if err != nil {
		h.Log.Error("list content failed", zap.String("kind", string(kind)), zap.Error(err))
		data.SetError("Content could not be loaded.")
	}
	for _, it := range items {
		data.Rows = append(data.Rows, rowFor(it))
	}

	data.Item, _ = models.NewContent(kind)
	if raw := query.Get(r, "edit"); raw != "" {
		if oid, err := primitive.ObjectIDFromHex(raw); err == nil {
			if it, err := h.Content.Get(ctx, kind, oid); err == nil {
				data.Item = it
				data.Editing = true
			}
		}
	}

	if kind == models.KindGroupAnnouncement {
		if data.Groups, err = h.Groups.List(ctx); err != nil {
			h.Log.Warn("list groups failed", zap.Error(err))
		}
	}
	if data.Stream, err = h.Stream.Get(ctx); err != nil {
		h.Log.Warn("load stream config failed", zap.Error(err))
	}

	templates.Render(w, r, "admin_content", data)
}

func rowFor(c models.Content) contentRow {
	b := c.Base()
	row := contentRow{ID: b.ID.Hex(), Title: b.Title, Updated: b.UpdatedAt.Format("Jan 2, 2006")}
	switch v := c.(type) {
	case *models.Sermon:
		row.Subtitle = v.Author
	case *models.Event:
		row.Subtitle = v.Date + " " + v.Time
	case *models.Devotional:
		row.Subtitle = v.Date + " · " + v.ScriptureReference
	case *models.KidResource:
		row.Subtitle = v.AgeGroup + " · " + v.ContentType
	case *models.LibraryResource:
		row.Subtitle = v.ResourceType
	case *models.GroupAnnouncement:
		row.Subtitle = v.GroupID
	}
	return row
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/content/{kind}                                                   |
| POST /admin/content/{kind}/{id}                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleSave creates an item, or updates one when the route carries an id.
// An uploaded file replaces the URL typed into the kind's media field.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	kind := models.ContentKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		http.NotFound(w, r)
		return
	}
	back := contentBack(kind)
	if err := parseForm(r); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	item, res := ParseContent(kind, r)
	if res.HasErrors() {
		formutil.Finish(w, r, "content_save", res, "", res.First(), back)
		return
	}

	var oid primitive.ObjectID
	editing := chi.URLParam(r, "id") != ""
	if editing {
		var err error
		if oid, err = primitive.ObjectIDFromHex(chi.URLParam(r, "id")); err != nil {
			http.NotFound(w, r)
			return
		}
		item.Base().ID = oid
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Long())
	defer cancel()

	if msg := h.attachUpload(ctx, r, item); msg != "" {
		metrics.Mutation("content_save", errors.New(msg))
		formutil.Flash(r, notify.Error, msg)
		formutil.Redirect(w, r, back)
		return
	}

	var err error
	event := auditstore.EventContentCreated
	if editing {
		event = auditstore.EventContentUpdated
		err = h.Content.Update(ctx, item)
	} else {
		err = h.Content.Create(ctx, item)
	}
	if errors.Is(err, contentstore.ErrNotFound) {
		formutil.Finish(w, r, "content_save", err, "", "That item no longer exists.", back)
		return
	}
	if err != nil {
		h.Log.Error("save content failed", zap.String("kind", string(kind)), zap.Error(err))
	} else {
		h.Audit.ContentChanged(ctx, r, event, auth.CurrentSnapshot(r).UID(), string(kind), item.Base().ID.Hex(), item.Base().Title)
	}
	formutil.Finish(w, r, "content_save", err,
		kindLabels[kind]+" saved.", "The item could not be saved. Please try again.", back)
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

// attachUpload stores the "media" file, if one was sent, and points the
// item's media field at it. It returns a message for the admin on failure.
func (h *Handler) attachUpload(ctx context.Context, r *http.Request, item models.Content) string {
	if h.Uploader == nil || r.MultipartForm == nil {
		return ""
	}
	f, hdr, err := r.FormFile("media")
	if errors.Is(err, http.ErrMissingFile) {
		return ""
	}
	if err != nil {
		return "The uploaded file could not be read."
	}
	defer f.Close()

	up, err := h.Uploader.Upload(ctx, string(item.Kind()), hdr.Filename, f)
	switch {
	case errors.Is(err, mediastore.ErrUnsupported):
		return "That file type is not supported. Upload an image, audio, video, PDF or EPUB file."
	case errors.Is(err, mediastore.ErrTooLarge):
		return "That file is too large."
	case err != nil:
		h.Log.Error("upload failed", zap.String("filename", hdr.Filename), zap.Error(err))
		return "The file could not be uploaded. Please try again."
	}
	item.SetMedia(up.URL)
	return ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/content/{kind}/{id}/delete                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeleteContent(w http.ResponseWriter, r *http.Request) {
	kind := models.ContentKind(chi.URLParam(r, "kind"))
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if !kind.Valid() || err != nil {
		http.NotFound(w, r)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Content.Delete(ctx, kind, oid)
	if err != nil {
		h.Log.Error("delete content failed", zap.String("id", oid.Hex()), zap.Error(err))
	} else if n > 0 {
		h.Audit.ContentChanged(ctx, r, auditstore.EventContentDeleted, auth.CurrentSnapshot(r).UID(), string(kind), oid.Hex(), "")
	}
	formutil.Finish(w, r, "content_delete", err,
		"Item deleted.", "The item could not be deleted. Please try again.", contentBack(kind))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/stream                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// videoID matches a YouTube video id.
var videoID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// HandleStream saves the live stream config. Going live without a video id
// is refused.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	back := "/admin/content"
	id := strings.TrimSpace(r.PostFormValue("video_id"))
	isLive := r.PostFormValue("is_live") == "on"
	if id != "" && !videoID.MatchString(id) {
		formutil.Finish(w, r, "stream_update", errors.New("invalid video id"), "",
			"Video ID may contain only letters, digits, dashes and underscores.", back)
		return
	}
	if isLive && id == "" {
		formutil.Finish(w, r, "stream_update", errors.New("missing video id"), "",
			"Enter a video ID before going live.", back)
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Short())
	defer cancel()

	_, err := h.Stream.Set(ctx, id, isLive)
	if err != nil {
		h.Log.Error("update stream config failed", zap.Error(err))
	} else {
		h.Audit.StreamUpdated(ctx, r, auth.CurrentSnapshot(r).UID(), id, isLive)
	}
	formutil.Finish(w, r, "stream_update", err,
		"Live stream updated.", "The live stream could not be updated. Please try again.", back)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Form parsing, one case per kind                                              |
*─────────────────────────────────────────────────────────────────────────────*/

type baseInput struct {
	Title       string `validate:"notblank,max=200" label:"Title"`
	Description string `validate:"max=4000" label:"Description"`
}

type sermonInput struct {
	baseInput
	VideoURL string `validate:"omitempty,mediaurl" label:"Video URL"`
	Author   string `validate:"max=120" label:"Speaker"`
	Date     string `validate:"omitempty,datetime=2006-01-02" label:"Date"`
}

type eventInput struct {
	baseInput
	Date     string `validate:"required,datetime=2006-01-02" label:"Date"`
	Time     string `validate:"max=40" label:"Time"`
	Location string `validate:"max=200" label:"Location"`
	Category string `validate:"required" label:"Category"`
	ImageURL string `validate:"omitempty,mediaurl" label:"Image URL"`
}

type devotionalInput struct {
	baseInput
	Date               string `validate:"required,datetime=2006-01-02" label:"Date"`
	ScriptureReference string `validate:"notblank,max=120" label:"Scripture reference"`
	ScriptureText      string `validate:"max=4000" label:"Scripture text"`
	Body               string `validate:"notblank,max=20000" label:"Body"`
	AudioURL           string `validate:"omitempty,mediaurl" label:"Audio URL"`
	Author             string `validate:"max=120" label:"Author"`
}

type kidInput struct {
	baseInput
	ContentType string `validate:"oneof=video worksheet song" label:"Type"`
	AgeGroup    string `validate:"required" label:"Age group"`
	URL         string `validate:"omitempty,mediaurl" label:"URL"`
	Thumbnail   string `validate:"omitempty,mediaurl" label:"Thumbnail"`
}

type resourceInput struct {
	baseInput
	ResourceType string `validate:"oneof=audio video pdf ebook" label:"Type"`
	URL          string `validate:"omitempty,mediaurl" label:"URL"`
	Thumbnail    string `validate:"omitempty,mediaurl" label:"Thumbnail"`
	Author       string `validate:"max=120" label:"Author"`
	Date         string `validate:"omitempty,datetime=2006-01-02" label:"Date"`
}

type announcementInput struct {
	baseInput
	GroupID string `validate:"notblank" label:"Group"`
}

// ParseContent reads the admin form for kind into a new variant. Text is
// sanitized before validation. Category, age group and resource type fall
// back to their defaults when left blank.
func ParseContent(kind models.ContentKind, r *http.Request) (models.Content, *inputval.Result) {
	field := func(name string) string { return htmlsanitize.Text(r.FormValue(name)) }
	raw := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
	base := baseInput{Title: field("title"), Description: field("description")}
	cb := models.ContentBase{Title: base.Title, Description: base.Description}

	switch kind {
	case models.KindSermon:
		in := sermonInput{baseInput: base, VideoURL: raw("video_url"), Author: field("author"), Date: raw("date")}
		return &models.Sermon{ContentBase: cb, VideoURL: in.VideoURL, Author: in.Author, Date: in.Date}, inputval.Validate(in)

	case models.KindEvent:
		in := eventInput{baseInput: base, Date: raw("date"), Time: field("time"), Location: field("location"),
			Category: raw("category"), ImageURL: raw("image_url")}
		if in.Category == "" {
			in.Category = models.EventCategories[0]
		}
		res := inputval.Validate(in)
		if !res.HasErrors() && !models.Contains(models.EventCategories, in.Category) {
			res.Errors = append(res.Errors, inputval.FieldError{Field: "Category", Message: "Choose a listed category."})
		}
		return &models.Event{ContentBase: cb, Date: in.Date, Time: in.Time, Location: in.Location,
			Category: in.Category, ImageURL: in.ImageURL}, res

	case models.KindDevotional:
		in := devotionalInput{baseInput: base, Date: raw("date"), ScriptureReference: field("scripture_reference"),
			ScriptureText: field("scripture_text"), Body: field("body"), AudioURL: raw("audio_url"), Author: field("author")}
		return &models.Devotional{ContentBase: cb, Date: in.Date, ScriptureReference: in.ScriptureReference,
			ScriptureText: in.ScriptureText, Body: in.Body, AudioURL: in.AudioURL, Author: in.Author}, inputval.Validate(in)

	case models.KindKid:
		in := kidInput{baseInput: base, ContentType: raw("content_type"), AgeGroup: raw("age_group"),
			URL: raw("url"), Thumbnail: raw("thumbnail")}
		if in.ContentType == "" {
			in.ContentType = models.KidVideo
		}
		if in.AgeGroup == "" {
			in.AgeGroup = models.KidAgeGroups[0]
		}
		return &models.KidResource{ContentBase: cb, ContentType: in.ContentType, AgeGroup: in.AgeGroup,
			URL: in.URL, Thumbnail: in.Thumbnail}, inputval.Validate(in)

	case models.KindResource:
		in := resourceInput{baseInput: base, ResourceType: raw("resource_type"), URL: raw("url"),
			Thumbnail: raw("thumbnail"), Author: field("author"), Date: raw("date")}
		if in.ResourceType == "" {
			in.ResourceType = models.DefaultResourceType
		}
		return &models.LibraryResource{ContentBase: cb, ResourceType: in.ResourceType, URL: in.URL,
			Thumbnail: in.Thumbnail, Author: in.Author, Date: in.Date,
			Exclusive: r.FormValue("exclusive") == "on"}, inputval.Validate(in)

	case models.KindGroupAnnouncement:
		in := announcementInput{baseInput: base, GroupID: raw("group_id")}
		return &models.GroupAnnouncement{ContentBase: cb, GroupID: in.GroupID}, inputval.Validate(in)
	}

	return nil, &inputval.Result{Errors: []inputval.FieldError{{Message: contentstore.ErrInvalidKind.Error()}}}
}
