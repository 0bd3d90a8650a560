package services

import (
	"context"
	"strings"

	"github.com/konnect-app/backend/internal/models"
	"github.com/konnect-app/backend/internal/repositories"
)

// IntakeService merges device sync batches of candidate requester ids into a
// user's pending requests. Batches come straight off a client-side discovery
// scan, so duplicates, separator-contaminated ids and the user's own id are
// all expected input and are filtered, not rejected.
type IntakeService struct {
	records repositories.RecordRepository
}

// NewIntakeService creates a new IntakeService
func NewIntakeService(records repositories.RecordRepository) *IntakeService {
	return &IntakeService{records: records}
}

// MergeRequests deduplicates the batch against the user's established
// connections and already-pending requests and appends whatever survives.
// Resubmitting the same batch is a no-op. Returns the requester ids that were
// actually inserted.
func (s *IntakeService) MergeRequests(ctx context.Context, userID string, candidates []string) ([]string, error) {
	connections, err := s.records.GetConnections(ctx, userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	pending, err := s.records.GetRequests(ctx, userID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	connected := make(map[string]bool, len(connections))
	for _, conn := range connections {
		connected[conn.ConnectedUserID] = true
	}
	alreadyPending := make(map[string]bool, len(pending))
	for _, req := range pending {
		alreadyPending[req.RequesterID] = true
	}

	seen := make(map[string]bool, len(candidates))
	var inserted []string
	var newRequests []models.ConnectionRequest
	for _, candidate := range candidates {
		id := NormalizeRequesterID(candidate)
		if id == "" || id == userID {
			continue
		}
		if seen[id] || connected[id] || alreadyPending[id] {
			continue
		}
		seen[id] = true
		inserted = append(inserted, id)
		newRequests = append(newRequests, models.ConnectionRequest{RequesterID: id})
	}

	if len(newRequests) == 0 {
		return nil, nil
	}

	if err := s.records.PushRequests(ctx, userID, newRequests); err != nil {
		if err == repositories.ErrNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return inserted, nil
}

// NormalizeRequesterID strips the formatting artifacts device batches carry:
// surrounding whitespace and anything after a separator comma. An id that is
// empty after normalization is malformed and gets dropped from the batch.
func NormalizeRequesterID(raw string) string {
	id := strings.TrimSpace(raw)
	if i := strings.IndexByte(id, ','); i >= 0 {
		id = id[:i]
	}
	return strings.TrimSpace(id)
}
