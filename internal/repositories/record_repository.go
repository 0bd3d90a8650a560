package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/konnect-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when the referenced user document, or the referenced
// element inside one of its arrays, does not exist.
var ErrNotFound = errors.New("record not found")

// RecordRepository defines the store primitives over the denormalized user
// documents: whole-document read, projected/element reads, set-style push and
// pull on the embedded arrays. Every relationship operation in the services
// layer is expressed in terms of these.
type RecordRepository interface {
	CreateUser(ctx context.Context, record *models.UserRecord) error
	GetUser(ctx context.Context, userID string) (*models.UserRecord, error)
	SetPublicFields(ctx context.Context, userID string, pub models.PublicProfile) error

	GetProfiles(ctx context.Context, userID string) ([]models.Profile, error)
	FindProfile(ctx context.Context, profileID string) (*models.Profile, error)
	PushProfile(ctx context.Context, userID string, profile models.Profile) error
	SetProfile(ctx context.Context, userID string, profile models.Profile) error
	PullProfile(ctx context.Context, userID, profileID string) error

	GetRequests(ctx context.Context, userID string) ([]models.ConnectionRequest, error)
	PushRequests(ctx context.Context, userID string, requests []models.ConnectionRequest) error
	PullRequest(ctx context.Context, userID, requesterID string) error

	GetConnections(ctx context.Context, userID string) ([]models.Connection, error)
	FindConnection(ctx context.Context, userID, connectedUserID string) (*models.Connection, error)
	PushConnection(ctx context.Context, userID string, conn models.Connection) error
	PullConnection(ctx context.Context, userID, connectedUserID string) error
	PullSharedProfileID(ctx context.Context, userID, connectedUserID, profileID string) error

	GetReceivedGrants(ctx context.Context, userID string) ([]models.ReceivedGrant, error)
	FindReceivedGrant(ctx context.Context, userID, connectionID string) (*models.ReceivedGrant, error)
	PushReceivedGrant(ctx context.Context, userID string, grant models.ReceivedGrant) error
	PullReceivedGrant(ctx context.Context, userID, connectionID string) error
	PullReceivedProfileID(ctx context.Context, userID, connectionID, profileID string) error
}

// MongoRecordRepository implements RecordRepository over the users collection
type MongoRecordRepository struct {
	collection *mongo.Collection
}

// NewMongoRecordRepository creates a new MongoRecordRepository
func NewMongoRecordRepository(db *mongo.Database) *MongoRecordRepository {
	return &MongoRecordRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user document
func (r *MongoRecordRepository) CreateUser(ctx context.Context, record *models.UserRecord) error {
	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()
	if record.Profiles == nil {
		record.Profiles = []models.Profile{}
	}
	if record.Requests == nil {
		record.Requests = []models.ConnectionRequest{}
	}
	if record.Connections == nil {
		record.Connections = []models.Connection{}
	}
	if record.ReceivedGrants == nil {
		record.ReceivedGrants = []models.ReceivedGrant{}
	}
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

// GetUser retrieves a full user document by external user id
func (r *MongoRecordRepository) GetUser(ctx context.Context, userID string) (*models.UserRecord, error) {
	var record models.UserRecord
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// SetPublicFields updates the user's public profile fields
func (r *MongoRecordRepository) SetPublicFields(ctx context.Context, userID string, pub models.PublicProfile) error {
	update := bson.M{
		"$set": bson.M{
			"f_name":      pub.FirstName,
			"l_name":      pub.LastName,
			"bio":         pub.Bio,
			"profile_pic": pub.ProfilePic,
			"updated_at":  time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProfiles retrieves only the profiles array of a user document
func (r *MongoRecordRepository) GetProfiles(ctx context.Context, userID string) ([]models.Profile, error) {
	var record models.UserRecord
	opts := options.FindOne().SetProjection(bson.M{"profiles": 1, "_id": 0})
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record.Profiles, nil
}

// FindProfile retrieves a single profile by its globally unique id. Profile
// ids are unique across all users, so the owning document does not need to be
// known up front.
func (r *MongoRecordRepository) FindProfile(ctx context.Context, profileID string) (*models.Profile, error) {
	var record models.UserRecord
	opts := options.FindOne().SetProjection(bson.M{
		"profiles": bson.M{"$elemMatch": bson.M{"profile_id": profileID}},
		"_id":      0,
	})
	err := r.collection.FindOne(ctx, bson.M{"profiles.profile_id": profileID}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(record.Profiles) == 0 {
		return nil, ErrNotFound
	}
	return &record.Profiles[0], nil
}

// PushProfile appends a profile to the owner's profiles array
func (r *MongoRecordRepository) PushProfile(ctx context.Context, userID string, profile models.Profile) error {
	return r.push(ctx, userID, "profiles", profile)
}

// SetProfile replaces the matching profile element in place
func (r *MongoRecordRepository) SetProfile(ctx context.Context, userID string, profile models.Profile) error {
	filter := bson.M{"user_id": userID, "profiles.profile_id": profile.ProfileID}
	update := bson.M{"$set": bson.M{"profiles.$": profile, "updated_at": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PullProfile removes a profile from the owner's profiles array
func (r *MongoRecordRepository) PullProfile(ctx context.Context, userID, profileID string) error {
	return r.pull(ctx, userID, "profiles", bson.M{"profile_id": profileID})
}

// GetRequests retrieves only the pending requests array of a user document
func (r *MongoRecordRepository) GetRequests(ctx context.Context, userID string) ([]models.ConnectionRequest, error) {
	var record models.UserRecord
	opts := options.FindOne().SetProjection(bson.M{"requests": 1, "_id": 0})
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record.Requests, nil
}

// PushRequests appends the given pending requests in one write
func (r *MongoRecordRepository) PushRequests(ctx context.Context, userID string, requests []models.ConnectionRequest) error {
	if len(requests) == 0 {
		return nil
	}
	update := bson.M{
		"$push": bson.M{"requests": bson.M{"$each": requests}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PullRequest removes the pending request of the given requester, if present
func (r *MongoRecordRepository) PullRequest(ctx context.Context, userID, requesterID string) error {
	return r.pull(ctx, userID, "requests", bson.M{"requester_id": requesterID})
}

// GetConnections retrieves only the connections array of a user document
func (r *MongoRecordRepository) GetConnections(ctx context.Context, userID string) ([]models.Connection, error) {
	var record models.UserRecord
	opts := options.FindOne().SetProjection(bson.M{"connections": 1, "_id": 0})
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record.Connections, nil
}

// FindConnection retrieves the single connection entry for the given user pair
func (r *MongoRecordRepository) FindConnection(ctx context.Context, userID, connectedUserID string) (*models.Connection, error) {
	var record models.UserRecord
	opts := options.FindOne().SetProjection(bson.M{
		"connections": bson.M{"$elemMatch": bson.M{"connected_user_id": connectedUserID}},
		"_id":         0,
	})
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(record.Connections) == 0 {
		return nil, ErrNotFound
	}
	return &record.Connections[0], nil
}

// PushConnection appends a connection entry to the sharer's document
func (r *MongoRecordRepository) PushConnection(ctx context.Context, userID string, conn models.Connection) error {
	return r.push(ctx, userID, "connections", conn)
}

// PullConnection removes the connection entry for the given user, if present
func (r *MongoRecordRepository) PullConnection(ctx context.Context, userID, connectedUserID string) error {
	return r.pull(ctx, userID, "connections", bson.M{"connected_user_id": connectedUserID})
}

// PullSharedProfileID removes one profile id from the shared set of the
// matching connection entry, if present
func (r *MongoRecordRepository) PullSharedProfileID(ctx context.Context, userID, connectedUserID, profileID string) error {
	filter := bson.M{"user_id": userID, "connections.connected_user_id": connectedUserID}
	update := bson.M{
		"$pull": bson.M{"connections.$.shared_profile_ids": profileID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetReceivedGrants retrieves only the received grants array of a user document
func (r *MongoRecordRepository) GetReceivedGrants(ctx context.Context, userID string) ([]models.ReceivedGrant, error) {
	var record models.UserRecord
	opts := options.FindOne().SetProjection(bson.M{"received_grants": 1, "_id": 0})
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record.ReceivedGrants, nil
}

// FindReceivedGrant retrieves the grant entry mirroring the given sharer
func (r *MongoRecordRepository) FindReceivedGrant(ctx context.Context, userID, connectionID string) (*models.ReceivedGrant, error) {
	var record models.UserRecord
	opts := options.FindOne().SetProjection(bson.M{
		"received_grants": bson.M{"$elemMatch": bson.M{"connection_id": connectionID}},
		"_id":             0,
	})
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(record.ReceivedGrants) == 0 {
		return nil, ErrNotFound
	}
	return &record.ReceivedGrants[0], nil
}

// PushReceivedGrant appends a received grant entry to the recipient's document
func (r *MongoRecordRepository) PushReceivedGrant(ctx context.Context, userID string, grant models.ReceivedGrant) error {
	return r.push(ctx, userID, "received_grants", grant)
}

// PullReceivedGrant removes the grant entry mirroring the given sharer, if present
func (r *MongoRecordRepository) PullReceivedGrant(ctx context.Context, userID, connectionID string) error {
	return r.pull(ctx, userID, "received_grants", bson.M{"connection_id": connectionID})
}

// PullReceivedProfileID removes one profile id from the received set of the
// matching grant entry, if present
func (r *MongoRecordRepository) PullReceivedProfileID(ctx context.Context, userID, connectionID, profileID string) error {
	filter := bson.M{"user_id": userID, "received_grants.connection_id": connectionID}
	update := bson.M{
		"$pull": bson.M{"received_grants.$.received_profile_ids": profileID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRecordRepository) push(ctx context.Context, userID, field string, element interface{}) error {
	update := bson.M{
		"$push": bson.M{field: element},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// pull is remove-if-present: a matched document with nothing pulled is still a
// success, so retries and duplicate deliveries are safe.
func (r *MongoRecordRepository) pull(ctx context.Context, userID, field string, predicate bson.M) error {
	update := bson.M{
		"$pull": bson.M{field: predicate},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
