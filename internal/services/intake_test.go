package services_test

import (
	"context"
	"testing"

	"github.com/konnect-app/backend/internal/models"
	"github.com/konnect-app/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRequesterID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"clean", "u2", "u2"},
		{"trailing comma and newline", "u2,\n", "u2"},
		{"surrounding whitespace", "  u2 ", "u2"},
		{"comma separated garbage", "u2,extra", "u2"},
		{"only separator", ",\n", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.NormalizeRequesterID(tt.raw))
		})
	}
}

func TestMergeRequestsFiltersAndInserts(t *testing.T) {
	store := newFakeStore()
	u1 := store.addUser("u1")
	u1.Connections = []models.Connection{{ConnectedUserID: "u4", SharedProfileIDs: []string{}}}
	u1.Requests = []models.ConnectionRequest{{RequesterID: "u3"}}

	svc := services.NewIntakeService(store)
	inserted, err := svc.MergeRequests(context.Background(), "u1", []string{
		"u2,\n", // contaminated but new
		"u2",    // duplicate within the batch
		"u3",    // already pending
		"u4",    // already connected
		"u1",    // self
		",\n",   // malformed, drops out entirely
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, inserted)

	requests, err := store.GetRequests(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.ConnectionRequest{{RequesterID: "u3"}, {RequesterID: "u2"}}, requests)
}

func TestMergeRequestsIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addUser("u1")
	svc := services.NewIntakeService(store)

	batch := []string{"u2", "u3"}
	first, err := svc.MergeRequests(context.Background(), "u1", batch)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := svc.MergeRequests(context.Background(), "u1", batch)
	require.NoError(t, err)
	assert.Empty(t, second)

	requests, err := store.GetRequests(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, requests, 2)
}

func TestMergeRequestsEmptyBatchIsNoOp(t *testing.T) {
	store := newFakeStore()
	store.addUser("u1")
	svc := services.NewIntakeService(store)

	inserted, err := svc.MergeRequests(context.Background(), "u1", nil)
	require.NoError(t, err)
	assert.Empty(t, inserted)
	assert.NotContains(t, store.calls, "PushRequests")
}

func TestMergeRequestsUnknownUser(t *testing.T) {
	store := newFakeStore()
	svc := services.NewIntakeService(store)

	_, err := svc.MergeRequests(context.Background(), "ghost", []string{"u2"})
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}
