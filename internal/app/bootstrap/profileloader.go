// internal/app/bootstrap/profileloader.go
package bootstrap

import (
	"context"
	"errors"

	profilestore "github.com/chosenvessel/vesselhub/internal/app/store/profiles"
	"github.com/chosenvessel/vesselhub/internal/app/system/auditlog"
	"github.com/chosenvessel/vesselhub/internal/app/system/auth"
	"github.com/chosenvessel/vesselhub/internal/app/system/timeouts"
	"github.com/chosenvessel/vesselhub/internal/domain/models"
)

// profileGetter is the slice of the profile store the session loader needs.
type profileGetter interface {
	Get(ctx context.Context, uid string) (*models.Profile, error)
	EnsureDefault(ctx context.Context, uid, email, displayName string) (*models.Profile, bool, error)
}

// newProfileLoader reads the signed-in member's profile on every request.
// A member whose profile is missing (deleted by an admin, or never written
// because sign-up failed halfway) gets a default one and an audit entry.
func newProfileLoader(profiles profileGetter, audit *auditlog.Logger) auth.ProfileLoader {
	return auth.ProfileLoaderFunc(func(ctx context.Context, id auth.Identity) (*models.Profile, error) {
		ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
		defer cancel()

		p, err := profiles.Get(ctx, id.UID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, profilestore.ErrNotFound) {
			return nil, err
		}

		p, created, err := profiles.EnsureDefault(ctx, id.UID, id.Email, id.DisplayName)
		if err != nil {
			return nil, err
		}
		if created {
			audit.ProfileRepaired(ctx, id.UID)
		}
		return p, nil
	})
}
