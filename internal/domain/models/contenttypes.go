// internal/domain/models/contenttypes.go
package models

// Canonical content taxonomy values.
//
// These values are stored in the database and used for filters and form
// enums. Labels are the values themselves unless noted.
const (
	ResourceTypeAudio = "audio"
	ResourceTypeVideo = "video"
	ResourceTypePDF   = "pdf"
	ResourceTypeEbook = "ebook"
)

// ResourceTypes is the full set of library resource types.
var ResourceTypes = []string{ResourceTypeAudio, ResourceTypeVideo, ResourceTypePDF, ResourceTypeEbook}

// DefaultResourceType is used when the admin form leaves the type blank.
const DefaultResourceType = ResourceTypePDF

// Kids Kingdom content types.
const (
	KidVideo     = "video"
	KidWorksheet = "worksheet"
	KidSong      = "song"
)

var KidContentTypes = []string{KidVideo, KidWorksheet, KidSong}

// KidAgeGroups in filter order.
var KidAgeGroups = []string{"Preschool", "Elementary", "Pre-Teen"}

// EventCategories in filter order.
var EventCategories = []string{"Worship", "Conference", "Outreach", "Family"}

// Contains reports whether v is one of opts.
func Contains(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}
