// internal/domain/models/content.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentKind discriminates the admin-managed content variants.
type ContentKind string

const (
	KindSermon            ContentKind = "sermon"
	KindEvent             ContentKind = "event"
	KindDevotional        ContentKind = "devotional"
	KindKid               ContentKind = "kid"
	KindResource          ContentKind = "resource"
	KindGroupAnnouncement ContentKind = "group_announcement"
)

// ContentKinds in admin tab order.
var ContentKinds = []ContentKind{KindSermon, KindEvent, KindDevotional, KindKid, KindResource, KindGroupAnnouncement}

// Valid reports whether k is a known kind.
func (k ContentKind) Valid() bool {
	for _, known := range ContentKinds {
		if known == k {
			return true
		}
	}
	return false
}

// Collection returns the collection holding documents of this kind.
// Sermons and group announcements share the content collection and are
// told apart by their type field.
func (k ContentKind) Collection() string {
	switch k {
	case KindEvent:
		return "events"
	case KindDevotional:
		return "devotionals"
	case KindKid:
		return "kids_content"
	case KindResource:
		return "resources"
	default:
		return "content"
	}
}

// Content is implemented by every content variant.
type Content interface {
	Kind() ContentKind
	Base() *ContentBase
	// SetMedia stores an uploaded file URL in the variant's media field.
	// It returns false when the variant has no media field.
	SetMedia(url string) bool
}

// ContentBase holds the fields shared by all variants.
type ContentBase struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Type        ContentKind        `bson:"type" json:"type"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Sermon is a recorded message.
type Sermon struct {
	ContentBase `bson:",inline"`
	VideoURL    string `bson:"video_url,omitempty" json:"video_url,omitempty"`
	Author      string `bson:"author,omitempty" json:"author,omitempty"`
	Date        string `bson:"date,omitempty" json:"date,omitempty"`
}

// Event is a calendar entry.
type Event struct {
	ContentBase `bson:",inline"`
	Date        string `bson:"date" json:"date"` // YYYY-MM-DD
	Time        string `bson:"time" json:"time"`
	Location    string `bson:"location" json:"location"`
	Category    string `bson:"category" json:"category"`
	ImageURL    string `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// Devotional is a Daily Bread entry.
type Devotional struct {
	ContentBase        `bson:",inline"`
	Date               string `bson:"date" json:"date"` // YYYY-MM-DD
	ScriptureReference string `bson:"scripture_reference" json:"scripture_reference"`
	ScriptureText      string `bson:"scripture_text" json:"scripture_text"`
	Body               string `bson:"body" json:"body"`
	AudioURL           string `bson:"audio_url,omitempty" json:"audio_url,omitempty"`
	Author             string `bson:"author,omitempty" json:"author,omitempty"`
}

// KidResource is a Kids Kingdom item.
type KidResource struct {
	ContentBase `bson:",inline"`
	ContentType string `bson:"content_type" json:"content_type"` // video | worksheet | song
	AgeGroup    string `bson:"age_group" json:"age_group"`
	URL         string `bson:"url" json:"url"`
	Thumbnail   string `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
}

// LibraryResource is an item in the premium resource library.
type LibraryResource struct {
	ContentBase  `bson:",inline"`
	ResourceType string `bson:"resource_type" json:"resource_type"` // audio | video | pdf | ebook
	URL          string `bson:"url" json:"url"`
	Thumbnail    string `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	Author       string `bson:"author,omitempty" json:"author,omitempty"`
	Date         string `bson:"date,omitempty" json:"date,omitempty"`
	Exclusive    bool   `bson:"exclusive" json:"exclusive"`
}

// GroupAnnouncement is shown to members of one group.
type GroupAnnouncement struct {
	ContentBase `bson:",inline"`
	GroupID     string `bson:"group_id" json:"group_id"`
}

func (c *Sermon) Kind() ContentKind            { return KindSermon }
func (c *Event) Kind() ContentKind             { return KindEvent }
func (c *Devotional) Kind() ContentKind        { return KindDevotional }
func (c *KidResource) Kind() ContentKind       { return KindKid }
func (c *LibraryResource) Kind() ContentKind   { return KindResource }
func (c *GroupAnnouncement) Kind() ContentKind { return KindGroupAnnouncement }

func (c *Sermon) Base() *ContentBase            { return &c.ContentBase }
func (c *Event) Base() *ContentBase             { return &c.ContentBase }
func (c *Devotional) Base() *ContentBase        { return &c.ContentBase }
func (c *KidResource) Base() *ContentBase       { return &c.ContentBase }
func (c *LibraryResource) Base() *ContentBase   { return &c.ContentBase }
func (c *GroupAnnouncement) Base() *ContentBase { return &c.ContentBase }

func (c *Sermon) SetMedia(url string) bool          { c.VideoURL = url; return true }
func (c *Event) SetMedia(url string) bool           { c.ImageURL = url; return true }
func (c *Devotional) SetMedia(url string) bool      { c.AudioURL = url; return true }
func (c *KidResource) SetMedia(url string) bool     { c.URL = url; return true }
func (c *LibraryResource) SetMedia(url string) bool { c.URL = url; return true }
func (c *GroupAnnouncement) SetMedia(string) bool   { return false }

// NewContent returns an empty variant for kind, ready to decode into.
func NewContent(kind ContentKind) (Content, bool) {
	switch kind {
	case KindSermon:
		return &Sermon{}, true
	case KindEvent:
		return &Event{}, true
	case KindDevotional:
		return &Devotional{}, true
	case KindKid:
		return &KidResource{}, true
	case KindResource:
		return &LibraryResource{}, true
	case KindGroupAnnouncement:
		return &GroupAnnouncement{}, true
	}
	return nil, false
}
