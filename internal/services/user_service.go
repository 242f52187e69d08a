package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/joshua-takyi/shelf/internal/helpers"
	"github.com/joshua-takyi/shelf/internal/models"
)

// AvatarUploader stores an avatar image with a media host and returns its URL.
type AvatarUploader interface {
	UploadAvatar(ctx context.Context, filename string, r io.Reader) (string, error)
}

type ProfileService struct {
	profileRepo  models.ProfileRepo
	identityRepo models.IdentityRepo
	avatars      AvatarUploader
	logger       *slog.Logger
}

// NewProfileService accepts a nil uploader; avatars are then kept inline as data URIs.
func NewProfileService(profileRepo models.ProfileRepo, identityRepo models.IdentityRepo, avatars AvatarUploader, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		profileRepo:  profileRepo,
		identityRepo: identityRepo,
		avatars:      avatars,
		logger:       logger,
	}
}

// Load returns the persisted profile, or a default one when none exists or
// the stored record cannot be read.
func (ps *ProfileService) Load(ctx context.Context) (models.UserProfile, error) {
	profile, err := ps.profileRepo.GetProfile(ctx)
	if errors.Is(err, models.ErrCorruptRecord) {
		ps.logger.Warn("Ignoring unreadable profile", "error", err)
		return models.DefaultProfile(), nil
	}
	if err != nil {
		return models.UserProfile{}, err
	}
	if profile == nil {
		return models.DefaultProfile(), nil
	}
	return *profile, nil
}

// Save validates candidate and persists it with both password fields cleared.
func (ps *ProfileService) Save(ctx context.Context, candidate models.UserProfile) error {
	if err := candidate.ValidateProfile(); err != nil {
		return err
	}
	if err := ps.profileRepo.SaveProfile(ctx, candidate.WithoutPasswords()); err != nil {
		return err
	}
	ps.logger.Info("Profile saved", "password_changed", candidate.PasswordNew != "")
	return nil
}

func (ps *ProfileService) Erase(ctx context.Context) error {
	if err := ps.profileRepo.DeleteProfile(ctx); err != nil {
		return err
	}
	ps.logger.Info("Profile erased")
	return nil
}

func (ps *ProfileService) Logout(ctx context.Context) error {
	if err := ps.identityRepo.ClearIdentity(ctx); err != nil {
		return err
	}
	ps.logger.Info("Identity cleared")
	return nil
}

// AvatarURI turns an uploaded image into the value stored in UserProfile.Avatar.
// The type and size checks apply whether or not a media host is configured.
func (ps *ProfileService) AvatarURI(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if _, err := helpers.ImageMediaType(contentType); err != nil {
		return "", err
	}
	data, err := helpers.ReadAvatar(r)
	if err != nil {
		return "", err
	}

	if ps.avatars == nil {
		return helpers.DataURI(contentType, data)
	}
	url, err := ps.avatars.UploadAvatar(ctx, filename, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	ps.logger.Info("Avatar uploaded", "filename", filename, "bytes", len(data))
	return url, nil
}
