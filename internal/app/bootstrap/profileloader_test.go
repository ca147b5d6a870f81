package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/chosenvessel/vesselhub/internal/app/store/audit"
	profilestore "github.com/chosenvessel/vesselhub/internal/app/store/profiles"
	"github.com/chosenvessel/vesselhub/internal/app/system/auditlog"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
	"go.uber.org/zap"
)

type fakeProfiles struct {
	stored  map[string]*models.Profile
	getErr  error
	ensured int
}

func (f *fakeProfiles) Get(_ context.Context, uid string) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if p, ok := f.stored[uid]; ok {
		return p, nil
	}
	return nil, profilestore.ErrNotFound
}

func (f *fakeProfiles) EnsureDefault(_ context.Context, uid, email, name string) (*models.Profile, bool, error) {
	f.ensured++
	if p, ok := f.stored[uid]; ok {
		return p, false, nil
	}
	p := &models.Profile{ID: uid, Email: email, DisplayName: name, Role: models.RoleMember, Tier: models.TierVessel,
		Badges: []string{models.BadgeRecovered}}
	f.stored[uid] = p
	return p, true, nil
}

type captureSink struct{ events []audit.Event }

func (c *captureSink) Log(_ context.Context, e audit.Event) error {
	c.events = append(c.events, e)
	return nil
}

func TestProfileLoader_ReturnsStoredProfile(t *testing.T) {
	fp := &fakeProfiles{stored: map[string]*models.Profile{
		"u1": {ID: "u1", Role: models.RoleAdmin, Tier: models.TierGoldenVessel},
	}}
	sink := &captureSink{}
	loader := newProfileLoader(fp, auditlog.New(sink, zap.NewNop(), auditlog.Config{}))

	p, err := loader.LoadProfile(context.Background(), auth.Identity{UID: "u1"})
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", p.Role)
	}
	if fp.ensured != 0 {
		t.Errorf("EnsureDefault called %d times for an existing profile", fp.ensured)
	}
	if len(sink.events) != 0 {
		t.Errorf("unexpected audit events: %v", sink.events)
	}
}

func TestProfileLoader_RepairsMissingProfileOnce(t *testing.T) {
	fp := &fakeProfiles{stored: map[string]*models.Profile{}}
	sink := &captureSink{}
	loader := newProfileLoader(fp, auditlog.New(sink, zap.NewNop(), auditlog.Config{}))
	id := auth.Identity{UID: "u2", Email: "grace@example.com", DisplayName: "Grace"}

	p, err := loader.LoadProfile(context.Background(), id)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Role != models.RoleMember || p.Tier != models.TierVessel {
		t.Errorf("repaired profile = %+v, want member/vessel", p)
	}

	if _, err := loader.LoadProfile(context.Background(), id); err != nil {
		t.Fatalf("second LoadProfile: %v", err)
	}
	if len(fp.stored) != 1 {
		t.Errorf("stored profiles = %d, want 1", len(fp.stored))
	}
	if len(sink.events) != 1 || sink.events[0].EventType != audit.EventProfileRepaired {
		t.Errorf("audit events = %+v, want one profile_repaired", sink.events)
	}
}

func TestProfileLoader_PropagatesReadErrors(t *testing.T) {
	boom := errors.New("boom")
	fp := &fakeProfiles{stored: map[string]*models.Profile{}, getErr: boom}
	loader := newProfileLoader(fp, nil)

	if _, err := loader.LoadProfile(context.Background(), auth.Identity{UID: "u3"}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if fp.ensured != 0 {
		t.Error("a read failure must not create a profile")
	}
}
