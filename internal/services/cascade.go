package services

import (
	"context"
	"log"

	"github.com/konnect-app/backend/internal/repositories"
)

// CascadeService deletes a profile and purges every reference to it: the
// shared set of each of the owner's connections that held it, and the received
// set in each of those users' mirror entries. The fan-out is one independent
// write per affected user; every removal is remove-if-present, so a cascade
// that died half way can simply be rerun.
type CascadeService struct {
	records repositories.RecordRepository
}

// NewCascadeService creates a new CascadeService
func NewCascadeService(records repositories.RecordRepository) *CascadeService {
	return &CascadeService{records: records}
}

// DeleteProfile removes the profile from the owner's document and cascades
// the removal through every connection that held it. The caller is only
// acknowledged after the whole cascade has been attempted; per-user mirror
// failures are collected into a *PartialWriteError rather than aborting the
// remaining worklist.
func (s *CascadeService) DeleteProfile(ctx context.Context, userID, profileID string) error {
	profiles, err := s.records.GetProfiles(ctx, userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return ErrUserNotFound
		}
		return err
	}
	owned := false
	for _, p := range profiles {
		if p.ProfileID == profileID {
			owned = true
			break
		}
	}
	if !owned {
		return ErrProfileNotFound
	}

	if err := s.records.PullProfile(ctx, userID, profileID); err != nil {
		return err
	}

	// Build the worklist of users whose mirror entries still reference the
	// profile, scrubbing the owner's own connection entries as we go.
	connections, err := s.records.GetConnections(ctx, userID)
	if err != nil {
		return &PartialWriteError{
			Op:        "delete profile",
			Completed: []string{"pull profile"},
			Failed:    "load connections",
			Err:       err,
		}
	}

	var worklist []string
	completed := []string{"pull profile"}
	for _, conn := range connections {
		for _, shared := range conn.SharedProfileIDs {
			if shared != profileID {
				continue
			}
			if err := s.records.PullSharedProfileID(ctx, userID, conn.ConnectedUserID, profileID); err != nil {
				return &PartialWriteError{
					Op:        "delete profile",
					Completed: completed,
					Failed:    "scrub connection " + conn.ConnectedUserID,
					Err:       err,
				}
			}
			completed = append(completed, "scrub connection "+conn.ConnectedUserID)
			worklist = append(worklist, conn.ConnectedUserID)
			break
		}
	}

	// Fan out to the affected users' documents. Each write is independent;
	// one failed mirror must not strand the rest of the worklist.
	var firstErr error
	failed := ""
	for _, connectedUserID := range worklist {
		if err := s.records.PullReceivedProfileID(ctx, connectedUserID, userID, profileID); err != nil {
			log.Printf("DeleteProfile: purge of %s from %s's received grants failed: %v", profileID, connectedUserID, err)
			if firstErr == nil {
				firstErr = err
				failed = "purge received grant of " + connectedUserID
			}
			continue
		}
		completed = append(completed, "purge received grant of "+connectedUserID)
	}
	if firstErr != nil {
		return &PartialWriteError{
			Op:        "delete profile",
			Completed: completed,
			Failed:    failed,
			Err:       firstErr,
		}
	}
	return nil
}
