package models

import "errors"

type ProfileErrorKind string

const (
	MissingField     ProfileErrorKind = "MissingField"
	InvalidFormat    ProfileErrorKind = "InvalidFormat"
	WeakPassword     ProfileErrorKind = "WeakPassword"
	PasswordMismatch ProfileErrorKind = "PasswordMismatch"
)

type ReviewErrorKind string

const (
	EmptyComment     ReviewErrorKind = "EmptyComment"
	NoRatingSelected ReviewErrorKind = "NoRatingSelected"
	InvalidRating    ReviewErrorKind = "InvalidRating"
)

var (
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrWeakPassword     = errors.New("weak password")
	ErrPasswordMismatch = errors.New("password mismatch")

	ErrEmptyComment     = errors.New("empty comment")
	ErrNoRatingSelected = errors.New("no rating selected")
	ErrInvalidRating    = errors.New("rating out of range")

	ErrItemNotFound  = errors.New("catalog item not found")
	ErrCorruptRecord = errors.New("corrupt stored record")
)

// ProfileError is the inline message shown on the profile screen when a save is rejected.
type ProfileError struct {
	Kind    ProfileErrorKind `json:"kind"`
	Field   string           `json:"field,omitempty"`
	Message string           `json:"message"`
}

func (e *ProfileError) Error() string {
	return e.Message
}

func (e *ProfileError) Unwrap() error {
	switch e.Kind {
	case MissingField:
		return ErrMissingField
	case InvalidFormat:
		return ErrInvalidFormat
	case WeakPassword:
		return ErrWeakPassword
	case PasswordMismatch:
		return ErrPasswordMismatch
	}
	return nil
}

// ReviewError blocks a review submission without touching the catalog.
type ReviewError struct {
	Kind    ReviewErrorKind `json:"kind"`
	Message string          `json:"message"`
}

func (e *ReviewError) Error() string {
	return e.Message
}

func (e *ReviewError) Unwrap() error {
	switch e.Kind {
	case EmptyComment:
		return ErrEmptyComment
	case NoRatingSelected:
		return ErrNoRatingSelected
	case InvalidRating:
		return ErrInvalidRating
	}
	return nil
}
