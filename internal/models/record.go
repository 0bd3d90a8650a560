package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRecord is a user's document in the MongoDB "users" collection. All
// relationship state is denormalized into the two parties' documents: the
// sharer's Connection entry and the recipient's ReceivedGrant entry describe
// the same grant and are kept equal by explicit dual writes.
type UserRecord struct {
	ID             primitive.ObjectID  `json:"-" bson:"_id,omitempty"`
	UserID         string              `json:"user_id" bson:"user_id"` // Firebase UID
	FirstName      string              `json:"f_name" bson:"f_name"`
	LastName       string              `json:"l_name" bson:"l_name"`
	Bio            string              `json:"bio" bson:"bio"`
	ProfilePic     string              `json:"profile_pic" bson:"profile_pic"`
	Profiles       []Profile           `json:"profiles" bson:"profiles"`
	Requests       []ConnectionRequest `json:"requests" bson:"requests"`
	Connections    []Connection        `json:"connections" bson:"connections"`
	ReceivedGrants []ReceivedGrant     `json:"received_grants" bson:"received_grants"`
	CreatedAt      time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" bson:"updated_at"`
}

// Profile is one shareable card of personal information, owned by exactly one
// user. The engine never interprets the content fields; it only copies the id.
type Profile struct {
	ProfileID   string       `json:"profile_id" bson:"profile_id"`
	ProfileName string       `json:"profile_name" bson:"profile_name"`
	MobileNo    string       `json:"mobile_no" bson:"mobile_no"`
	DateOfBirth string       `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	HomeAddress string       `json:"home_address,omitempty" bson:"home_address,omitempty"`
	Email       string       `json:"email,omitempty" bson:"email,omitempty"`
	Links       ProfileLinks `json:"links" bson:"links"`
	Work        ProfileWork  `json:"work" bson:"work"`
}

// ProfileLinks holds a profile's social links.
type ProfileLinks struct {
	FacebookURL string `json:"facebook_url,omitempty" bson:"facebook_url,omitempty"`
	TwitterURL  string `json:"twitter_url,omitempty" bson:"twitter_url,omitempty"`
	LinkedinURL string `json:"linkedin_url,omitempty" bson:"linkedin_url,omitempty"`
	BlogURL     string `json:"blog_url,omitempty" bson:"blog_url,omitempty"`
}

// ProfileWork holds a profile's work information.
type ProfileWork struct {
	CompanyName    string `json:"company_name,omitempty" bson:"company_name,omitempty"`
	CompanyWebsite string `json:"company_website,omitempty" bson:"company_website,omitempty"`
	WorkAddress    string `json:"work_address,omitempty" bson:"work_address,omitempty"`
	WorkEmail      string `json:"work_email,omitempty" bson:"work_email,omitempty"`
	Designation    string `json:"designation,omitempty" bson:"designation,omitempty"`
}

// ConnectionRequest is a pending inbound connection request. At most one entry
// per requester id exists in a user's requests array.
type ConnectionRequest struct {
	RequesterID string `json:"requester_id" bson:"requester_id"`
}

// Connection is one established relationship held in the sharer's document,
// carrying the subset of the sharer's own profiles granted to that user.
type Connection struct {
	ConnectedUserID  string   `json:"connected_user_id" bson:"connected_user_id"`
	SharedProfileIDs []string `json:"shared_profile_ids" bson:"shared_profile_ids"`
}

// ReceivedGrant is the recipient-side mirror of a Connection: the profile ids
// of ConnectionID's profiles this user may currently read.
type ReceivedGrant struct {
	ConnectionID       string   `json:"connection_id" bson:"connection_id"`
	ReceivedProfileIDs []string `json:"received_profile_ids" bson:"received_profile_ids"`
}

// PublicProfile is the subset of a user document shown to other users, e.g.
// when listing pending requesters or established connections.
type PublicProfile struct {
	UserID     string `json:"user_id" bson:"user_id"`
	FirstName  string `json:"f_name" bson:"f_name"`
	LastName   string `json:"l_name" bson:"l_name"`
	Bio        string `json:"bio" bson:"bio"`
	ProfilePic string `json:"profile_pic" bson:"profile_pic"`
}

// Public returns the user's public profile view.
func (u *UserRecord) Public() PublicProfile {
	return PublicProfile{
		UserID:     u.UserID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Bio:        u.Bio,
		ProfilePic: u.ProfilePic,
	}
}

// ProfileGrant is one row of the grant/revoke selection view: a profile of the
// sharer's catalog flagged with whether the selected connection may read it.
type ProfileGrant struct {
	ProfileID     string `json:"profile_id" bson:"profile_id" validate:"required"`
	ProfileName   string `json:"profile_name,omitempty" bson:"profile_name,omitempty"`
	GrantedStatus bool   `json:"granted_status" bson:"granted_status"`
}

// CreateProfileRequest defines the request body for creating a profile.
type CreateProfileRequest struct {
	ProfileName string       `json:"profile_name" validate:"required,min=1,max=100"`
	MobileNo    string       `json:"mobile_no,omitempty"`
	DateOfBirth string       `json:"date_of_birth,omitempty"`
	HomeAddress string       `json:"home_address,omitempty"`
	Email       string       `json:"email,omitempty" validate:"omitempty,email"`
	Links       ProfileLinks `json:"links"`
	Work        ProfileWork  `json:"work"`
}

// UpdateProfileRequest defines the request body for editing a profile.
type UpdateProfileRequest struct {
	ProfileName string       `json:"profile_name" validate:"required,min=1,max=100"`
	MobileNo    string       `json:"mobile_no,omitempty"`
	DateOfBirth string       `json:"date_of_birth,omitempty"`
	HomeAddress string       `json:"home_address,omitempty"`
	Email       string       `json:"email,omitempty" validate:"omitempty,email"`
	Links       ProfileLinks `json:"links"`
	Work        ProfileWork  `json:"work"`
}

// UpdatePublicProfileRequest defines the request body for editing the user's
// own public fields.
type UpdatePublicProfileRequest struct {
	FirstName  string `json:"f_name,omitempty" validate:"omitempty,max=50"`
	LastName   string `json:"l_name,omitempty" validate:"omitempty,max=50"`
	Bio        string `json:"bio,omitempty" validate:"omitempty,max=280"`
	ProfilePic string `json:"profile_pic,omitempty" validate:"omitempty,url"`
}

// StoreRequestsRequest is the device sync batch of candidate requester ids.
// Entries routinely arrive duplicated or contaminated with trailing separator
// characters and are normalized server side.
type StoreRequestsRequest struct {
	RequesterIDs []string `json:"requester_ids" validate:"required"`
}

// AcceptRequestRequest defines the body for accepting a pending request.
type AcceptRequestRequest struct {
	RequesterID string   `json:"requester_id" validate:"required"`
	ProfileIDs  []string `json:"profile_ids"`
}

// DeclineRequestRequest defines the body for declining a pending request.
type DeclineRequestRequest struct {
	RequesterID string `json:"requester_id" validate:"required"`
}

// ReplaceGrantsRequest carries the sharer's full profile catalog with the new
// granted flag per profile. The granted set replaces the previous one
// wholesale; it is not a delta.
type ReplaceGrantsRequest struct {
	ModifiedProfiles []ProfileGrant `json:"modified_profiles" validate:"required,dive"`
}
