// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles. Role is the only input to admin access decisions.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
	RolePastor = "pastor"
)

// Tiers. Tier is the only input to premium access decisions.
const (
	TierVessel       = "vessel"
	TierGoldenVessel = "golden_vessel"
)

// Badges granted by the application itself.
const (
	BadgeRecovered    = "recovered"
	BadgeNewMember    = "new_member"
	BadgeGoldenVessel = "golden_vessel"
)

// Identity is the authenticated principal. It carries no authorization data;
// role and tier always come from the Profile.
type Identity struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Email       string             `bson:"email" json:"email"`
	EmailCI     string             `bson:"email_ci" json:"-"`
	DisplayName string             `bson:"display_name" json:"display_name"`
	Provider    string             `bson:"provider" json:"provider"` // password | google

	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	GoogleSub    string `bson:"google_sub,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// UID is the identity id as used for profile keys and ownership fields.
func (i Identity) UID() string { return i.ID.Hex() }

// ContactInfo is collected at subscription time and editable on the profile page.
type ContactInfo struct {
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	Zip     string `bson:"zip,omitempty" json:"zip,omitempty"`
	Type    string `bson:"type,omitempty" json:"type,omitempty"` // local | virtual
}

// Profile is the authorization record for one identity, keyed by identity id.
type Profile struct {
	ID          string       `bson:"_id" json:"id"`
	DisplayName string       `bson:"display_name" json:"display_name"`
	Email       string       `bson:"email" json:"email"`
	Role        string       `bson:"role" json:"role"`
	Tier        string       `bson:"tier" json:"tier"`
	Badges      []string     `bson:"badges" json:"badges"`
	Bio         string       `bson:"bio,omitempty" json:"bio,omitempty"`
	ContactInfo *ContactInfo `bson:"contact_info,omitempty" json:"contact_info,omitempty"`

	SubscriptionID   string     `bson:"subscription_id,omitempty" json:"subscription_id,omitempty"`
	SubscriptionDate *time.Time `bson:"subscription_date,omitempty" json:"subscription_date,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	LastLogin *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
}

// IsAdmin reports whether the profile grants admin access.
func (p *Profile) IsAdmin() bool { return p != nil && p.Role == RoleAdmin }

// IsPremium reports whether the profile grants premium access.
func (p *Profile) IsPremium() bool { return p != nil && p.Tier == TierGoldenVessel }

// HasBadge reports whether badge is present.
func (p *Profile) HasBadge(badge string) bool {
	if p == nil {
		return false
	}
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}
