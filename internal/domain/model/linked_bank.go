package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// LinkedBank is a bank item a user connected through the account aggregator.
type LinkedBank struct {
	createdAt        time.Time
	itemID           string
	accessToken      string
	institutionID    string
	primaryAccountID string
	id               uuid.UUID
	userID           uuid.UUID
	shareableID      uuid.UUID
}

// NewLinkedBank validates and creates a LinkedBank.
func NewLinkedBank(userID uuid.UUID, itemID, accessToken, institutionID, primaryAccountID string) (*LinkedBank, error) {
	if userID == uuid.Nil {
		return nil, errors.New("user ID is required")
	}
	if itemID == "" {
		return nil, errors.New("item ID is required")
	}
	if accessToken == "" {
		return nil, errors.New("access token is required")
	}

	return &LinkedBank{
		id:               uuid.New(),
		userID:           userID,
		itemID:           itemID,
		accessToken:      accessToken,
		institutionID:    institutionID,
		primaryAccountID: primaryAccountID,
		shareableID:      uuid.New(),
		createdAt:        time.Now().UTC(),
	}, nil
}

// ReconstructLinkedBank rebuilds a LinkedBank from persisted data.
func ReconstructLinkedBank(
	id, userID uuid.UUID,
	itemID, accessToken, institutionID, primaryAccountID string,
	shareableID uuid.UUID,
	createdAt time.Time,
) *LinkedBank {
	return &LinkedBank{
		id:               id,
		userID:           userID,
		itemID:           itemID,
		accessToken:      accessToken,
		institutionID:    institutionID,
		primaryAccountID: primaryAccountID,
		shareableID:      shareableID,
		createdAt:        createdAt,
	}
}

func (b *LinkedBank) ID() uuid.UUID            { return b.id }
func (b *LinkedBank) UserID() uuid.UUID        { return b.userID }
func (b *LinkedBank) ItemID() string           { return b.itemID }
func (b *LinkedBank) AccessToken() string      { return b.accessToken }
func (b *LinkedBank) InstitutionID() string    { return b.institutionID }
func (b *LinkedBank) PrimaryAccountID() string { return b.primaryAccountID }
func (b *LinkedBank) ShareableID() uuid.UUID   { return b.shareableID }
func (b *LinkedBank) CreatedAt() time.Time     { return b.createdAt }

// AdoptIdentity takes over the identity of an earlier link of the same item.
// Repositories call it when a user re-links a bank they already linked.
func (b *LinkedBank) AdoptIdentity(existing *LinkedBank) {
	b.id = existing.id
	b.shareableID = existing.shareableID
	b.createdAt = existing.createdAt
}
