// internal/domain/models/labels.go
package models

// Option pairs a stored value with its display label.
type Option struct {
	Value string // The value stored in the database
	Label string // The display label in the UI
}

// Tiers lists membership tiers in upgrade order.
var Tiers = []Option{
	{Value: TierVessel, Label: "Vessel"},
	{Value: TierGoldenVessel, Label: "Golden Vessel"},
}

// Roles lists the roles an admin can assign.
var Roles = []Option{
	{Value: RoleMember, Label: "Member"},
	{Value: RolePastor, Label: "Pastor"},
	{Value: RoleAdmin, Label: "Admin"},
}

// Providers lists the sign-in methods.
var Providers = []Option{
	{Value: "password", Label: "Email & Password"},
	{Value: "google", Label: "Google"},
}

// MemberTypes distinguishes members who attend in person from online ones.
var MemberTypes = []Option{
	{Value: "local", Label: "Local (in person)"},
	{Value: "virtual", Label: "Virtual (online)"},
}

func find(opts []Option, value string) (Option, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// TierLabel returns the display label for tier, or "Guest" when unknown.
func TierLabel(tier string) string {
	if o, ok := find(Tiers, tier); ok {
		return o.Label
	}
	return "Guest"
}

// RoleLabel returns the display label for role, or the raw value.
func RoleLabel(role string) string {
	if o, ok := find(Roles, role); ok {
		return o.Label
	}
	return role
}

// ProviderLabel returns the display label for a sign-in provider.
func ProviderLabel(provider string) string {
	if o, ok := find(Providers, provider); ok {
		return o.Label
	}
	return provider
}

// IsValidTier checks if a value is a known tier.
func IsValidTier(value string) bool {
	_, ok := find(Tiers, value)
	return ok
}

// IsValidRole checks if a value is a known role.
func IsValidRole(value string) bool {
	_, ok := find(Roles, value)
	return ok
}

// ToggledTier returns the other tier: vessel becomes golden vessel and back.
func ToggledTier(tier string) string {
	if tier == TierGoldenVessel {
		return TierVessel
	}
	return TierGoldenVessel
}

// ToggledRole flips between member and admin. Pastors become admins.
func ToggledRole(role string) string {
	if role == RoleAdmin {
		return RoleMember
	}
	return RoleAdmin
}
