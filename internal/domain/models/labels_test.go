package models

import "testing"

func TestTierLabel(t *testing.T) {
	tests := map[string]string{
		TierVessel:       "Vessel",
		TierGoldenVessel: "Golden Vessel",
		"":               "Guest",
		"platinum":       "Guest",
	}
	for in, want := range tests {
		if got := TierLabel(in); got != want {
			t.Errorf("TierLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToggles(t *testing.T) {
	if got := ToggledTier(TierVessel); got != TierGoldenVessel {
		t.Errorf("ToggledTier(vessel) = %q", got)
	}
	if got := ToggledTier(TierGoldenVessel); got != TierVessel {
		t.Errorf("ToggledTier(golden) = %q", got)
	}
	if got := ToggledRole(RoleMember); got != RoleAdmin {
		t.Errorf("ToggledRole(member) = %q", got)
	}
	if got := ToggledRole(RoleAdmin); got != RoleMember {
		t.Errorf("ToggledRole(admin) = %q", got)
	}
}

func TestIsValid(t *testing.T) {
	if !IsValidRole(RolePastor) || IsValidRole("owner") {
		t.Error("IsValidRole mismatch")
	}
	if !IsValidTier(TierGoldenVessel) || IsValidTier("gold") {
		t.Error("IsValidTier mismatch")
	}
}
