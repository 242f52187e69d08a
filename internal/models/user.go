package models

import (
	"errors"
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageFrench  Language = "fr"
)

const MinPasswordLength = 8

var (
	emailShapeRX  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneDigitsRX = regexp.MustCompile(`^[0-9]{10,15}$`)
)

// Validate is shared by every model that carries validate tags.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailShapeRX.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone_digits", func(fl validator.FieldLevel) bool {
		return phoneDigitsRX.MatchString(fl.Field().String())
	})
	return v
}

// UserProfile is the single editable account record.
// PasswordNew and PasswordConfirm are transient and are blanked before every write.
type UserProfile struct {
	Avatar          string            `json:"avatar"`
	Name            string            `json:"name" validate:"required"`
	Email           string            `json:"email" validate:"required,email_shape"`
	Phone           string            `json:"phone" validate:"required,phone_digits"`
	Address         string            `json:"address" validate:"required"`
	Gender          Gender            `json:"gender" validate:"required,oneof=male female other"`
	DOB             string            `json:"dob" validate:"required"`
	Language        Language          `json:"language" validate:"omitempty,oneof=en ar fr"`
	DarkMode        bool              `json:"darkMode"`
	Social          map[string]string `json:"social"`
	PasswordNew     string            `json:"passwordNew"`
	PasswordConfirm string            `json:"passwordConfirm"`
}

func DefaultProfile() UserProfile {
	return UserProfile{
		Language: LanguageEnglish,
		DarkMode: true,
		Social: map[string]string{
			"google":   "",
			"facebook": "",
		},
	}
}

func (p UserProfile) Clone() UserProfile {
	social := make(map[string]string, len(p.Social))
	for provider, link := range p.Social {
		social[provider] = link
	}
	p.Social = social
	return p
}

func (p UserProfile) WithoutPasswords() UserProfile {
	p = p.Clone()
	p.PasswordNew = ""
	p.PasswordConfirm = ""
	return p
}

var requiredFieldOrder = []string{"Name", "Email", "Phone", "Address", "Gender", "DOB"}

var formatMessages = map[string]string{
	"Email":    "Invalid email format.",
	"Phone":    "Phone number must be 10 to 15 digits.",
	"Gender":   "Gender must be one of male, female or other.",
	"Language": "Language must be one of en, ar or fr.",
}

// ValidateProfile checks required fields first, then field formats, then the
// password change. The first failing rule is reported.
func (p UserProfile) ValidateProfile() error {
	if err := Validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}

		failed := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			failed[fe.StructField()] = fe.Tag()
		}
		for _, field := range requiredFieldOrder {
			if failed[field] == "required" {
				return &ProfileError{Kind: MissingField, Field: jsonName(field), Message: "Please fill out all required fields."}
			}
		}
		for _, field := range []string{"Email", "Phone", "Gender", "Language"} {
			if _, ok := failed[field]; ok {
				return &ProfileError{Kind: InvalidFormat, Field: jsonName(field), Message: formatMessages[field]}
			}
		}
		return &ProfileError{Kind: InvalidFormat, Field: jsonName(verrs[0].StructField()), Message: verrs[0].Error()}
	}

	if p.PasswordNew != "" || p.PasswordConfirm != "" {
		if utf8.RuneCountInString(p.PasswordNew) < MinPasswordLength {
			return &ProfileError{Kind: WeakPassword, Field: "passwordNew", Message: "New password must be at least 8 characters."}
		}
		if p.PasswordNew != p.PasswordConfirm {
			return &ProfileError{Kind: PasswordMismatch, Field: "passwordConfirm", Message: "Passwords do not match."}
		}
	}
	return nil
}

var jsonNames = map[string]string{
	"Name":     "name",
	"Email":    "email",
	"Phone":    "phone",
	"Address":  "address",
	"Gender":   "gender",
	"DOB":      "dob",
	"Language": "language",
}

func jsonName(field string) string {
	if name, ok := jsonNames[field]; ok {
		return name
	}
	return field
}

// ProfilePatch is a partial form edit. Nil fields are left untouched and
// Social entries are merged per provider.
type ProfilePatch struct {
	Avatar          *string           `json:"avatar,omitempty"`
	Name            *string           `json:"name,omitempty"`
	Email           *string           `json:"email,omitempty"`
	Phone           *string           `json:"phone,omitempty"`
	Address         *string           `json:"address,omitempty"`
	Gender          *Gender           `json:"gender,omitempty"`
	DOB             *string           `json:"dob,omitempty"`
	Language        *Language         `json:"language,omitempty"`
	DarkMode        *bool             `json:"darkMode,omitempty"`
	Social          map[string]string `json:"social,omitempty"`
	PasswordNew     *string           `json:"passwordNew,omitempty"`
	PasswordConfirm *string           `json:"passwordConfirm,omitempty"`
}

func MergeProfile(base UserProfile, patch ProfilePatch) UserProfile {
	out := base.Clone()
	if patch.Avatar != nil {
		out.Avatar = *patch.Avatar
	}
	if patch.Name != nil {
		out.Name = *patch.Name
	}
	if patch.Email != nil {
		out.Email = *patch.Email
	}
	if patch.Phone != nil {
		out.Phone = *patch.Phone
	}
	if patch.Address != nil {
		out.Address = *patch.Address
	}
	if patch.Gender != nil {
		out.Gender = *patch.Gender
	}
	if patch.DOB != nil {
		out.DOB = *patch.DOB
	}
	if patch.Language != nil {
		out.Language = *patch.Language
	}
	if patch.DarkMode != nil {
		out.DarkMode = *patch.DarkMode
	}
	for provider, link := range patch.Social {
		out.Social[provider] = link
	}
	if patch.PasswordNew != nil {
		out.PasswordNew = *patch.PasswordNew
	}
	if patch.PasswordConfirm != nil {
		out.PasswordConfirm = *patch.PasswordConfirm
	}
	return out
}

// Identity is the optional lightweight session record stored under currentUser or user.
type Identity struct {
	Name string `json:"name"`
}

const GuestName = "Guest"

func GuestIdentity() Identity {
	return Identity{Name: GuestName}
}
