package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/konnect-app/backend/internal/models"
	"github.com/konnect-app/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptEstablishesMirroredConnection(t *testing.T) {
	store := newFakeStore()
	u1 := store.addUser("u1")
	u1.Profiles = []models.Profile{{ProfileID: "p1", ProfileName: "Personal"}}
	u1.Requests = []models.ConnectionRequest{{RequesterID: "u2"}}
	store.addUser("u2")

	svc := services.NewLifecycleService(store)
	require.NoError(t, svc.Accept(context.Background(), "u1", "u2", []string{"p1"}))

	conn, err := store.FindConnection(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, conn.SharedProfileIDs)

	grant, err := store.FindReceivedGrant(context.Background(), "u2", "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, grant.ReceivedProfileIDs)

	requests, err := store.GetRequests(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, requests)

	// The sharer's own write lands before the mirror, and the request is
	// removed last.
	assert.Equal(t, []string{"PushConnection", "PushReceivedGrant", "PullRequest"}, store.calls)
}

func TestAcceptRejectsForeignProfileIDs(t *testing.T) {
	store := newFakeStore()
	u1 := store.addUser("u1")
	u1.Profiles = []models.Profile{{ProfileID: "p1"}}
	u1.Requests = []models.ConnectionRequest{{RequesterID: "u2"}}
	store.addUser("u2")

	svc := services.NewLifecycleService(store)
	err := svc.Accept(context.Background(), "u1", "u2", []string{"p1", "not-mine"})
	assert.ErrorIs(t, err, services.ErrInvalidReference)

	// Rejected before any write.
	assert.Empty(t, store.calls)
}

func TestAcceptWithoutPendingRequest(t *testing.T) {
	store := newFakeStore()
	store.addUser("u1")
	store.addUser("u2")

	svc := services.NewLifecycleService(store)
	err := svc.Accept(context.Background(), "u1", "u2", nil)
	assert.ErrorIs(t, err, services.ErrRequestNotFound)
}

func TestAcceptPartialFailureIsDistinguishable(t *testing.T) {
	store := newFakeStore()
	u1 := store.addUser("u1")
	u1.Profiles = []models.Profile{{ProfileID: "p1"}}
	u1.Requests = []models.ConnectionRequest{{RequesterID: "u2"}}
	store.addUser("u2")
	store.failOn["PushReceivedGrant"] = errors.New("write timeout")

	svc := services.NewLifecycleService(store)
	err := svc.Accept(context.Background(), "u1", "u2", []string{"p1"})

	var partial *services.PartialWriteError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "accept", partial.Op)
	assert.Equal(t, []string{"push connection"}, partial.Completed)
	assert.Equal(t, "push received grant", partial.Failed)

	// The owner-side write stuck; the request was not consumed.
	_, err = store.FindConnection(context.Background(), "u1", "u2")
	assert.NoError(t, err)
	requests, _ := store.GetRequests(context.Background(), "u1")
	assert.Len(t, requests, 1)
}

func TestDeclineRemovesOnlyMatchingRequest(t *testing.T) {
	store := newFakeStore()
	u1 := store.addUser("u1")
	u1.Requests = []models.ConnectionRequest{{RequesterID: "u2"}, {RequesterID: "u3"}}

	svc := services.NewLifecycleService(store)
	require.NoError(t, svc.Decline(context.Background(), "u1", "u2"))

	requests, err := store.GetRequests(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.ConnectionRequest{{RequesterID: "u3"}}, requests)
}

func TestDeclineIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addUser("u1")

	svc := services.NewLifecycleService(store)
	assert.NoError(t, svc.Decline(context.Background(), "u1", "u2"))
	assert.NoError(t, svc.Decline(context.Background(), "u1", "u2"))
}
