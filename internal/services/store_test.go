package services_test

import (
	"context"
	"sync"

	"github.com/konnect-app/backend/internal/models"
	"github.com/konnect-app/backend/internal/repositories"
)

// fakeStore is an in-memory RecordRepository. Writes can be made to fail by
// operation name to exercise the partial-write paths, and every mutating call
// is logged so tests can assert the write order.
type fakeStore struct {
	mu     sync.Mutex
	users  map[string]*models.UserRecord
	failOn map[string]error
	calls  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[string]*models.UserRecord),
		failOn: make(map[string]error),
	}
}

func (f *fakeStore) addUser(userID string) *models.UserRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	record := &models.UserRecord{
		UserID:         userID,
		Profiles:       []models.Profile{},
		Requests:       []models.ConnectionRequest{},
		Connections:    []models.Connection{},
		ReceivedGrants: []models.ReceivedGrant{},
	}
	f.users[userID] = record
	return record
}

func (f *fakeStore) check(op string) error {
	f.calls = append(f.calls, op)
	if err, ok := f.failOn[op]; ok {
		return err
	}
	return nil
}

func (f *fakeStore) user(userID string) (*models.UserRecord, error) {
	record, ok := f.users[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return record, nil
}

func (f *fakeStore) CreateUser(ctx context.Context, record *models.UserRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("CreateUser"); err != nil {
		return err
	}
	f.users[record.UserID] = record
	return nil
}

func (f *fakeStore) GetUser(ctx context.Context, userID string) (*models.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, err := f.user(userID)
	if err != nil {
		return nil, err
	}
	clone := *record
	return &clone, nil
}

func (f *fakeStore) SetPublicFields(ctx context.Context, userID string, pub models.PublicProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, err := f.user(userID)
	if err != nil {
		return err
	}
	record.FirstName = pub.FirstName
	record.LastName = pub.LastName
	record.Bio = pub.Bio
	record.ProfilePic = pub.ProfilePic
	return nil
}

func (f *fakeStore) GetProfiles(ctx context.Context, userID string) ([]models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, err := f.user(userID)
	if err != nil {
		return nil, err
	}
	return append([]models.Profile(nil), record.Profiles...), nil
}

func (f *fakeStore) FindProfile(ctx context.Context, profileID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.users {
		for i := range record.Profiles {
			if record.Profiles[i].ProfileID == profileID {
				clone := record.Profiles[i]
				return &clone, nil
			}
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeStore) PushProfile(ctx context.Context, userID string, profile models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("PushProfile"); err != nil {
		return err
	}
	record, err := f.user(userID)
	if err != nil {
		return err
	}
	record.Profiles = append(record.Profiles, profile)
	return nil
}

func (f *fakeStore) SetProfile(ctx context.Context, userID string, profile models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("SetProfile"); err != nil {
		return err
	}
	record, err := f.user(userID)
	if err != nil {
		return err
	}
	for i := range record.Profiles {
		if record.Profiles[i].ProfileID == profile.ProfileID {
			record.Profiles[i] = profile
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeStore) PullProfile(ctx context.Context, userID, profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("PullProfile"); err != nil {
		return err
	}
	record, err := f.user(userID)
	if err != nil {
		return err
	}
	for i := range record.Profiles {
		if record.Profiles[i].ProfileID == profileID {
			record.Profiles = append(record.Profiles[:i], record.Profiles[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) GetRequests(ctx context.Context, userID string) ([]models.ConnectionRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, err := f.user(userID)
	if err != nil {
		return nil, err
	}
	return append([]models.ConnectionRequest(nil), record.Requests...), nil
}

func (f *fakeStore) PushRequests(ctx context.Context, userID string, requests []models.ConnectionRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("PushRequests"); err != nil {
		return err
	}
	record, err := f.user(userID)
	if err != nil {
		return err
	}
	record.Requests = append(record.Requests, requests...)
	return nil
}

func (f *fakeStore) PullRequest(ctx context.Context, userID, requesterID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("PullRequest"); err != nil {
		return err
	}
	record, err := f.user(userID)
	if err != nil {
		return err
	}
	for i := range record.Requests {
		if record.Requests[i].RequesterID == requesterID {
			record.Requests = append(record.Requests[:i], record.Requests[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) GetConnections(ctx context.Context, userID string) ([]models.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, err := f.user(userID)
	if err != nil {
		return nil, err
	}
	return append([]models.Connection(nil), record.Connections...), nil
}

func (f *fakeStore) FindConnection(ctx context.Context, userID, connectedUserID string) (*models.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, err := f.user(userID)
	if err != nil {
		return nil, err
	}
	for i := range record.Connections {
		if record.Connections[i].ConnectedUserID == connectedUserID {
			clone := record.Connections[i]
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeStore) PushConnection(ctx context.Context, userID string, conn models.Connection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("PushConnection"); err != nil {
		return err
	}
	record, err := f.user(userID)
	if err != nil {
		return err
	}
	record.Connections = append(record.Connections, conn)
	return nil
}

func (f *fakeStore) PullConnection(ctx context.Context, userID, connectedUserID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("PullConnection"); err != nil {
		return err
	}
	record, err := f.user(userID)
	if err != nil {
		return err
	}
	for i := range record.Connections {
		if record.Connections[i].ConnectedUserID == connectedUserID {
			record.Connections = append(record.Connections[:i], record.Connections[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) PullSharedProfileID(ctx context.Context, userID, connectedUserID, profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("PullSharedProfileID"); err != nil {
		return err
	}
	record, err := f.user(userID)
	if err != nil {
		return err
	}
	for i := range record.Connections {
		if record.Connections[i].ConnectedUserID != connectedUserID {
			continue
		}
		shared := record.Connections[i].SharedProfileIDs
		for j := range shared {
			if shared[j] == profileID {
				record.Connections[i].SharedProfileIDs = append(shared[:j], shared[j+1:]...)
				break
			}
		}
	}
	return nil
}

func (f *fakeStore) GetReceivedGrants(ctx context.Context, userID string) ([]models.ReceivedGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, err := f.user(userID)
	if err != nil {
		return nil, err
	}
	return append([]models.ReceivedGrant(nil), record.ReceivedGrants...), nil
}

func (f *fakeStore) FindReceivedGrant(ctx context.Context, userID, connectionID string) (*models.ReceivedGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, err := f.user(userID)
	if err != nil {
		return nil, err
	}
	for i := range record.ReceivedGrants {
		if record.ReceivedGrants[i].ConnectionID == connectionID {
			clone := record.ReceivedGrants[i]
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeStore) PushReceivedGrant(ctx context.Context, userID string, grant models.ReceivedGrant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("PushReceivedGrant"); err != nil {
		return err
	}
	record, err := f.user(userID)
	if err != nil {
		return err
	}
	record.ReceivedGrants = append(record.ReceivedGrants, grant)
	return nil
}

func (f *fakeStore) PullReceivedGrant(ctx context.Context, userID, connectionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("PullReceivedGrant"); err != nil {
		return err
	}
	record, err := f.user(userID)
	if err != nil {
		return err
	}
	for i := range record.ReceivedGrants {
		if record.ReceivedGrants[i].ConnectionID == connectionID {
			record.ReceivedGrants = append(record.ReceivedGrants[:i], record.ReceivedGrants[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) PullReceivedProfileID(ctx context.Context, userID, connectionID, profileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("PullReceivedProfileID:" + userID); err != nil {
		return err
	}
	record, err := f.user(userID)
	if err != nil {
		return err
	}
	for i := range record.ReceivedGrants {
		if record.ReceivedGrants[i].ConnectionID != connectionID {
			continue
		}
		received := record.ReceivedGrants[i].ReceivedProfileIDs
		for j := range received {
			if received[j] == profileID {
				record.ReceivedGrants[i].ReceivedProfileIDs = append(received[:j], received[j+1:]...)
				break
			}
		}
	}
	return nil
}
