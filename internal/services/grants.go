package services

import (
	"context"
	"log"

	"github.com/konnect-app/backend/internal/models"
	"github.com/konnect-app/backend/internal/repositories"
)

// GrantService rewrites the set of profiles one user shares with one
// established connection. The update is a wholesale replace of the connection
// entry and its mirror, not a per-profile diff: both old entries are pulled
// and fresh ones pushed, which keeps the write single-pass at the cost of a
// wider inconsistency window across the four writes.
type GrantService struct {
	records repositories.RecordRepository
}

// NewGrantService creates a new GrantService
func NewGrantService(records repositories.RecordRepository) *GrantService {
	return &GrantService{records: records}
}

// GrantSelection returns the sharer's full profile catalog with each entry
// flagged by whether it is currently shared with connectionID.
func (s *GrantService) GrantSelection(ctx context.Context, userID, connectionID string) ([]models.ProfileGrant, error) {
	conn, err := s.records.FindConnection(ctx, userID, connectionID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}

	profiles, err := s.records.GetProfiles(ctx, userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	shared := make(map[string]bool, len(conn.SharedProfileIDs))
	for _, id := range conn.SharedProfileIDs {
		shared[id] = true
	}

	selection := make([]models.ProfileGrant, 0, len(profiles))
	for _, p := range profiles {
		selection = append(selection, models.ProfileGrant{
			ProfileID:     p.ProfileID,
			ProfileName:   p.ProfileName,
			GrantedStatus: shared[p.ProfileID],
		})
	}
	return selection, nil
}

// ReplaceGrants replaces the shared set for connectionID with the profiles
// flagged granted in modified, and mirrors the same set into the connection's
// received grants. Granting {P1} then {P2} leaves exactly {P2} shared. The
// allowed set is validated against the sharer's own profiles before any write;
// a failure part way through the four writes returns a *PartialWriteError.
func (s *GrantService) ReplaceGrants(ctx context.Context, userID, connectionID string, modified []models.ProfileGrant) error {
	if _, err := s.records.FindConnection(ctx, userID, connectionID); err != nil {
		if err == repositories.ErrNotFound {
			return ErrConnectionNotFound
		}
		return err
	}

	profiles, err := s.records.GetProfiles(ctx, userID)
	if err != nil {
		return err
	}

	requested := make([]string, 0, len(modified))
	for _, grant := range modified {
		if grant.GrantedStatus {
			requested = append(requested, grant.ProfileID)
		}
	}
	allowed, err := validateSubset(requested, profiles)
	if err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"pull connection", func() error {
			return s.records.PullConnection(ctx, userID, connectionID)
		}},
		{"pull received grant", func() error {
			return s.records.PullReceivedGrant(ctx, connectionID, userID)
		}},
		{"push connection", func() error {
			conn := models.Connection{ConnectedUserID: connectionID, SharedProfileIDs: allowed}
			return s.records.PushConnection(ctx, userID, conn)
		}},
		{"push received grant", func() error {
			grant := models.ReceivedGrant{ConnectionID: userID, ReceivedProfileIDs: allowed}
			return s.records.PushReceivedGrant(ctx, connectionID, grant)
		}},
	}

	var completed []string
	for _, step := range steps {
		if err := step.run(); err != nil {
			if len(completed) == 0 {
				return err
			}
			perr := &PartialWriteError{
				Op:        "replace grants",
				Completed: completed,
				Failed:    step.name,
				Err:       err,
			}
			log.Printf("ReplaceGrants left %s <-> %s inconsistent: %v", userID, connectionID, perr)
			return perr
		}
		completed = append(completed, step.name)
	}
	return nil
}
