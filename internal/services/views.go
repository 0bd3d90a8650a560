package services

import (
	"context"
	"log"
	"sync"

	"github.com/konnect-app/backend/internal/models"
	"github.com/konnect-app/backend/internal/repositories"
)

// ViewService assembles the read-side fan-outs: public profiles of pending
// requesters and of connections on either side, and the full profile contents
// a user has been granted by one connection. Each view loads one array off the
// caller's document and then fetches the referenced users concurrently,
// joining on all lookups before responding.
type ViewService struct {
	records repositories.RecordRepository
}

// NewViewService creates a new ViewService
func NewViewService(records repositories.RecordRepository) *ViewService {
	return &ViewService{records: records}
}

// RequesterProfiles returns the public profiles of every user with a pending
// request to userID.
func (s *ViewService) RequesterProfiles(ctx context.Context, userID string) ([]models.PublicProfile, error) {
	requests, err := s.records.GetRequests(ctx, userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	ids := make([]string, 0, len(requests))
	for _, req := range requests {
		ids = append(ids, req.RequesterID)
	}
	return s.publicProfiles(ctx, ids)
}

// SentConnectionProfiles returns the public profiles of every user userID has
// shared profiles with.
func (s *ViewService) SentConnectionProfiles(ctx context.Context, userID string) ([]models.PublicProfile, error) {
	connections, err := s.records.GetConnections(ctx, userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	ids := make([]string, 0, len(connections))
	for _, conn := range connections {
		ids = append(ids, conn.ConnectedUserID)
	}
	return s.publicProfiles(ctx, ids)
}

// ReceivedConnectionProfiles returns the public profiles of every user who has
// shared profiles with userID.
func (s *ViewService) ReceivedConnectionProfiles(ctx context.Context, userID string) ([]models.PublicProfile, error) {
	grants, err := s.records.GetReceivedGrants(ctx, userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	ids := make([]string, 0, len(grants))
	for _, grant := range grants {
		ids = append(ids, grant.ConnectionID)
	}
	return s.publicProfiles(ctx, ids)
}

// ReceivedProfiles returns the full content of every profile connectionID
// currently shares with userID.
func (s *ViewService) ReceivedProfiles(ctx context.Context, userID, connectionID string) ([]models.Profile, error) {
	grant, err := s.records.FindReceivedGrant(ctx, userID, connectionID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}

	results := make([]*models.Profile, len(grant.ReceivedProfileIDs))
	var wg sync.WaitGroup
	for i, profileID := range grant.ReceivedProfileIDs {
		wg.Add(1)
		go func(i int, profileID string) {
			defer wg.Done()
			profile, err := s.records.FindProfile(ctx, profileID)
			if err != nil {
				// The sharer may have deleted the profile while the grant
				// purge is still in flight; drop it from the view.
				log.Printf("ReceivedProfiles: profile %s of %s unavailable: %v", profileID, connectionID, err)
				return
			}
			results[i] = profile
		}(i, profileID)
	}
	wg.Wait()

	profiles := make([]models.Profile, 0, len(results))
	for _, p := range results {
		if p != nil {
			profiles = append(profiles, *p)
		}
	}
	return profiles, nil
}

// publicProfiles fetches the referenced user documents concurrently and joins
// on all of them, preserving the input order. Referenced users that no longer
// exist are dropped from the view rather than failing it.
func (s *ViewService) publicProfiles(ctx context.Context, userIDs []string) ([]models.PublicProfile, error) {
	results := make([]*models.PublicProfile, len(userIDs))
	var wg sync.WaitGroup
	for i, id := range userIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			record, err := s.records.GetUser(ctx, id)
			if err != nil {
				log.Printf("public profile lookup for %s failed: %v", id, err)
				return
			}
			pub := record.Public()
			results[i] = &pub
		}(i, id)
	}
	wg.Wait()

	profiles := make([]models.PublicProfile, 0, len(results))
	for _, p := range results {
		if p != nil {
			profiles = append(profiles, *p)
		}
	}
	return profiles, nil
}
