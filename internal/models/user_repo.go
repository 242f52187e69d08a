package models

import (
	"context"
	"encoding/json"
	"fmt"
)

type ProfileRepo interface {
	GetProfile(ctx context.Context) (*UserProfile, error)
	SaveProfile(ctx context.Context, profile UserProfile) error
	DeleteProfile(ctx context.Context) error
}

type IdentityRepo interface {
	GetIdentity(ctx context.Context) (Identity, error)
	ClearIdentity(ctx context.Context) error
}

// KVRepo maps the typed records onto a KVStore as JSON documents.
type KVRepo struct {
	store KVStore
}

func NewKVRepo(store KVStore) *KVRepo {
	return &KVRepo{store: store}
}

// GetProfile returns nil when no profile has been saved.
// Keys missing from the stored document keep their default values.
func (kv *KVRepo) GetProfile(ctx context.Context) (*UserProfile, error) {
	raw, found, err := kv.store.Get(ctx, ProfileKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	if !found {
		return nil, nil
	}

	profile := DefaultProfile()
	defaultSocial := profile.Social
	profile.Social = nil
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("%w: profile: %v", ErrCorruptRecord, err)
	}
	if profile.Social == nil {
		profile.Social = defaultSocial
	}
	return &profile, nil
}

func (kv *KVRepo) SaveProfile(ctx context.Context, profile UserProfile) error {
	data, err := json.Marshal(profile.WithoutPasswords())
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %v", err)
	}
	if err := kv.store.Set(ctx, ProfileKey, string(data)); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (kv *KVRepo) DeleteProfile(ctx context.Context) error {
	if err := kv.store.Remove(ctx, ProfileKey); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// GetIdentity reads currentUser, then user. Absent, unreadable or nameless
// records resolve to the guest identity.
func (kv *KVRepo) GetIdentity(ctx context.Context) (Identity, error) {
	for _, key := range []string{CurrentUserKey, UserKey} {
		raw, found, err := kv.store.Get(ctx, key)
		if err != nil {
			return Identity{}, fmt.Errorf("failed to read identity: %w", err)
		}
		if !found {
			continue
		}
		var id Identity
		if err := json.Unmarshal([]byte(raw), &id); err != nil || id.Name == "" {
			continue
		}
		return id, nil
	}
	return GuestIdentity(), nil
}

func (kv *KVRepo) ClearIdentity(ctx context.Context) error {
	for _, key := range []string{CurrentUserKey, UserKey} {
		if err := kv.store.Remove(ctx, key); err != nil {
			return fmt.Errorf("failed to clear identity: %w", err)
		}
	}
	return nil
}
