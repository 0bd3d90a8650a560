package services

import (
	"context"
	"log"

	"github.com/konnect-app/backend/internal/models"
	"github.com/konnect-app/backend/internal/repositories"
)

// LifecycleService turns pending requests into established connections or
// removes them. Accepting writes to both parties' documents; there is no
// transaction spanning the two, so the steps run in a fixed order chosen so
// that a racing read sees at worst a grant that is not yet mirrored, never a
// mirror with no backing grant.
type LifecycleService struct {
	records repositories.RecordRepository
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(records repositories.RecordRepository) *LifecycleService {
	return &LifecycleService{records: records}
}

// Accept converts the pending request from requesterID into a connection
// sharing the given profile ids. profileIDs must be a subset of the user's own
// profiles; this and the request's existence are validated before any write.
// Write order: owner's connection entry, requester's mirror entry, request
// removal. A failure after the first write returns a *PartialWriteError.
func (s *LifecycleService) Accept(ctx context.Context, userID, requesterID string, profileIDs []string) error {
	pending, err := s.records.GetRequests(ctx, userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return ErrUserNotFound
		}
		return err
	}
	found := false
	for _, req := range pending {
		if req.RequesterID == requesterID {
			found = true
			break
		}
	}
	if !found {
		return ErrRequestNotFound
	}

	profiles, err := s.records.GetProfiles(ctx, userID)
	if err != nil {
		return err
	}
	granted, err := validateSubset(profileIDs, profiles)
	if err != nil {
		return err
	}

	// The requester's document must exist before the owner-side write, or the
	// mirror step is guaranteed to fail half way through.
	if _, err := s.records.GetConnections(ctx, requesterID); err != nil {
		if err == repositories.ErrNotFound {
			return ErrUserNotFound
		}
		return err
	}

	conn := models.Connection{ConnectedUserID: requesterID, SharedProfileIDs: granted}
	if err := s.records.PushConnection(ctx, userID, conn); err != nil {
		return err
	}

	grant := models.ReceivedGrant{ConnectionID: userID, ReceivedProfileIDs: granted}
	if err := s.records.PushReceivedGrant(ctx, requesterID, grant); err != nil {
		perr := &PartialWriteError{
			Op:        "accept",
			Completed: []string{"push connection"},
			Failed:    "push received grant",
			Err:       err,
		}
		log.Printf("Accept left mirror invariant violated for %s -> %s: %v", userID, requesterID, perr)
		return perr
	}

	if err := s.records.PullRequest(ctx, userID, requesterID); err != nil {
		perr := &PartialWriteError{
			Op:        "accept",
			Completed: []string{"push connection", "push received grant"},
			Failed:    "pull request",
			Err:       err,
		}
		log.Printf("Accept left stale pending request for %s -> %s: %v", userID, requesterID, perr)
		return perr
	}
	return nil
}

// Decline removes the pending request from requesterID. Declining a request
// that does not exist is a successful no-op.
func (s *LifecycleService) Decline(ctx context.Context, userID, requesterID string) error {
	if err := s.records.PullRequest(ctx, userID, requesterID); err != nil {
		if err == repositories.ErrNotFound {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// validateSubset checks every requested id against the owner's profile list
// and returns the deduplicated grant set.
func validateSubset(profileIDs []string, profiles []models.Profile) ([]string, error) {
	owned := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		owned[p.ProfileID] = true
	}
	granted := make([]string, 0, len(profileIDs))
	seen := make(map[string]bool, len(profileIDs))
	for _, id := range profileIDs {
		if !owned[id] {
			return nil, ErrInvalidReference
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		granted = append(granted, id)
	}
	return granted, nil
}
