// internal/domain/models/group.go
package models

import "time"

// Group is a community group. Descriptive fields come from the built-in seed
// list unless an admin saved an override document with the same id.
type Group struct {
	ID          string   `bson:"_id" json:"id"`
	Name        string   `bson:"name" json:"name"`
	Description string   `bson:"description" json:"description"`
	Category    string   `bson:"category" json:"category"`
	MeetDay     string   `bson:"meet_day" json:"meet_day"`
	MeetTime    string   `bson:"meet_time" json:"meet_time"`
	Location    string   `bson:"location" json:"location"`
	Leader      string   `bson:"leader" json:"leader"`
	Members     []string `bson:"members" json:"members"`

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// HasMember reports whether uid is in the member set.
func (g Group) HasMember(uid string) bool {
	for _, m := range g.Members {
		if m == uid {
			return true
		}
	}
	return false
}

// SeedGroups are shown until an admin creates overrides.
var SeedGroups = []Group{
	{
		ID:          "men-of-valor",
		Name:        "Men of Valor",
		Description: "A brotherhood committed to spiritual growth, accountability, and leadership.",
		Category:    "Men",
		MeetDay:     "Tuesday",
		MeetTime:    "7:00 PM",
		Location:    "Fellowship Hall",
		Leader:      "Deacon Jones",
	},
	{
		ID:          "women-of-destiny",
		Name:        "Women of Destiny",
		Description: "Empowering women to walk in their God-given purpose and identity.",
		Category:    "Women",
		MeetDay:     "Thursday",
		MeetTime:    "6:30 PM",
		Location:    "Zoom",
		Leader:      "Sis. Sarah",
	},
	{
		ID:          "the-bridge",
		Name:        "Young Adults (The Bridge)",
		Description: "Bridging the gap for ages 18-35. Real talk, real faith, real community.",
		Category:    "Youth",
		MeetDay:     "Friday",
		MeetTime:    "8:00 PM",
		Location:    "The Cafe",
		Leader:      "Min. David",
	},
	{
		ID:          "kingdom-marriage",
		Name:        "Kingdom Marriage",
		Description: "For married couples seeking to build a Christ-centered union.",
		Category:    "Marriage",
		MeetDay:     "Saturday",
		MeetTime:    "10:00 AM",
		Location:    "Zoom",
		Leader:      "The Williams",
	},
}
