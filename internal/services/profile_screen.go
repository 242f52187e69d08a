package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshua-takyi/shelf/internal/models"
)

// DeleteState tracks the two-step account deletion.
type DeleteState int

const (
	DeleteIdle DeleteState = iota
	DeleteArmed
)

func (s DeleteState) String() string {
	switch s {
	case DeleteIdle:
		return "idle"
	case DeleteArmed:
		return "armed"
	}
	return fmt.Sprintf("DeleteState(%d)", int(s))
}

func (s DeleteState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type DeleteOutcome string

const (
	DeleteConfirmationArmed DeleteOutcome = "armed"
	DeleteProfileErased     DeleteOutcome = "erased"
)

// ProfileScreen is one client's view of the profile editor: the draft being
// edited, the inline error line, and the delete confirmation.
type ProfileScreen struct {
	service      *ProfileService
	disarmOnExit bool

	Draft       models.UserProfile
	Error       string
	DeleteState DeleteState
	open        bool
}

type ProfileScreenView struct {
	Profile     models.UserProfile `json:"profile"`
	Error       string             `json:"error,omitempty"`
	DeleteState DeleteState        `json:"delete_state"`
}

func NewProfileScreen(service *ProfileService, disarmOnExit bool) *ProfileScreen {
	return &ProfileScreen{
		service:      service,
		disarmOnExit: disarmOnExit,
		Draft:        models.DefaultProfile(),
	}
}

func (s *ProfileScreen) View() ProfileScreenView {
	return ProfileScreenView{
		Profile:     s.Draft.Clone(),
		Error:       s.Error,
		DeleteState: s.DeleteState,
	}
}

// Enter loads the persisted profile into the draft when the screen is opened.
// Re-entering an already open screen keeps unsaved edits.
func (s *ProfileScreen) Enter(ctx context.Context) error {
	if s.open {
		return nil
	}
	profile, err := s.service.Load(ctx)
	if err != nil {
		return err
	}
	s.Draft = profile
	s.Error = ""
	s.open = true
	return nil
}

// Leave closes the screen. The delete confirmation survives unless the
// screen was configured to disarm on exit.
func (s *ProfileScreen) Leave() {
	s.open = false
	if s.disarmOnExit {
		s.DeleteState = DeleteIdle
	}
}

// Edit applies a form change and clears the inline error.
func (s *ProfileScreen) Edit(patch models.ProfilePatch) {
	s.Draft = models.MergeProfile(s.Draft, patch)
	s.Error = ""
}

func (s *ProfileScreen) SetAvatar(uri string) {
	s.Draft.Avatar = uri
	s.Error = ""
}

// Save validates and persists the draft. A validation failure is kept as the
// inline error and returned; the draft stays editable.
func (s *ProfileScreen) Save(ctx context.Context) error {
	err := s.service.Save(ctx, s.Draft)
	var perr *models.ProfileError
	if errors.As(err, &perr) {
		s.Error = perr.Message
		return err
	}
	if err != nil {
		return err
	}
	s.Draft = s.Draft.WithoutPasswords()
	s.Error = ""
	return nil
}

// Reset discards unsaved edits.
func (s *ProfileScreen) Reset(ctx context.Context) error {
	profile, err := s.service.Load(ctx)
	if err != nil {
		return err
	}
	s.Draft = profile
	s.Error = ""
	return nil
}

// Delete arms the confirmation on the first call and erases the stored
// profile on the second.
func (s *ProfileScreen) Delete(ctx context.Context) (DeleteOutcome, error) {
	switch s.DeleteState {
	case DeleteIdle:
		s.DeleteState = DeleteArmed
		return DeleteConfirmationArmed, nil
	case DeleteArmed:
		if err := s.service.Erase(ctx); err != nil {
			return "", err
		}
		s.DeleteState = DeleteIdle
		s.Draft = models.DefaultProfile()
		s.Error = ""
		return DeleteProfileErased, nil
	}
	return "", fmt.Errorf("unexpected delete state %v", s.DeleteState)
}

// Logout forgets the session identity and reloads the screen from storage.
func (s *ProfileScreen) Logout(ctx context.Context) error {
	if err := s.service.Logout(ctx); err != nil {
		return err
	}
	s.DeleteState = DeleteIdle
	s.open = false
	return s.Enter(ctx)
}
