package services_test

import (
	"context"
	"testing"

	"github.com/konnect-app/backend/internal/models"
	"github.com/konnect-app/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequesterProfiles(t *testing.T) {
	store := newFakeStore()
	u1 := store.addUser("u1")
	u1.Requests = []models.ConnectionRequest{{RequesterID: "u2"}, {RequesterID: "u3"}}
	u2 := store.addUser("u2")
	u2.FirstName, u2.Bio = "Beth", "hello"
	u3 := store.addUser("u3")
	u3.FirstName = "Cory"

	svc := services.NewViewService(store)
	profiles, err := svc.RequesterProfiles(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, []models.PublicProfile{
		{UserID: "u2", FirstName: "Beth", Bio: "hello"},
		{UserID: "u3", FirstName: "Cory"},
	}, profiles)
}

func TestRequesterProfilesDropsVanishedUsers(t *testing.T) {
	store := newFakeStore()
	u1 := store.addUser("u1")
	u1.Requests = []models.ConnectionRequest{{RequesterID: "gone"}, {RequesterID: "u2"}}
	store.addUser("u2")

	svc := services.NewViewService(store)
	profiles, err := svc.RequesterProfiles(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "u2", profiles[0].UserID)
}

func TestSentAndReceivedConnectionProfiles(t *testing.T) {
	store := newFakeStore()
	u1 := store.addUser("u1")
	u1.Connections = []models.Connection{{ConnectedUserID: "u2", SharedProfileIDs: []string{"p1"}}}
	u2 := store.addUser("u2")
	u2.FirstName = "Beth"
	u2.ReceivedGrants = []models.ReceivedGrant{{ConnectionID: "u1", ReceivedProfileIDs: []string{"p1"}}}

	svc := services.NewViewService(store)

	sent, err := svc.SentConnectionProfiles(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "u2", sent[0].UserID)

	received, err := svc.ReceivedConnectionProfiles(context.Background(), "u2")
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "u1", received[0].UserID)
}

func TestReceivedProfilesReturnsGrantedContent(t *testing.T) {
	store := newFakeStore()
	u1 := store.addUser("u1")
	u1.Profiles = []models.Profile{
		{ProfileID: "p1", ProfileName: "Personal", MobileNo: "071"},
		{ProfileID: "p2", ProfileName: "Work"},
	}
	u2 := store.addUser("u2")
	u2.ReceivedGrants = []models.ReceivedGrant{{ConnectionID: "u1", ReceivedProfileIDs: []string{"p1"}}}

	svc := services.NewViewService(store)
	profiles, err := svc.ReceivedProfiles(context.Background(), "u2", "u1")
	require.NoError(t, err)

	require.Len(t, profiles, 1)
	assert.Equal(t, "Personal", profiles[0].ProfileName)
	assert.Equal(t, "071", profiles[0].MobileNo)
}

func TestReceivedProfilesSkipsDeletedProfiles(t *testing.T) {
	store := newFakeStore()
	u1 := store.addUser("u1")
	u1.Profiles = []models.Profile{{ProfileID: "p2", ProfileName: "Work"}}
	u2 := store.addUser("u2")
	// The grant still references p1 although the profile is gone: a cascade
	// purge that has not landed yet.
	u2.ReceivedGrants = []models.ReceivedGrant{{ConnectionID: "u1", ReceivedProfileIDs: []string{"p1", "p2"}}}

	svc := services.NewViewService(store)
	profiles, err := svc.ReceivedProfiles(context.Background(), "u2", "u1")
	require.NoError(t, err)

	require.Len(t, profiles, 1)
	assert.Equal(t, "p2", profiles[0].ProfileID)
}

func TestReceivedProfilesUnknownConnection(t *testing.T) {
	store := newFakeStore()
	store.addUser("u2")

	svc := services.NewViewService(store)
	_, err := svc.ReceivedProfiles(context.Background(), "u2", "u1")
	assert.ErrorIs(t, err, services.ErrConnectionNotFound)
}
