package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/flock/internal/client/validation"
)

// BirthdayLayout is the wire format of User.Birthday.
const BirthdayLayout = "2006-01-02"

// LoginRequest is the body of POST /api/v1/user/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" msg:"Invalid email address"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

// RegisterRequest is the body of POST /api/v1/user/register.
// MinistryID is sent only for ministry leaders.
type RegisterRequest struct {
	FirstName        string `json:"first_name" validate:"required" msg:"First name is required"`
	LastName         string `json:"last_name" validate:"required" msg:"Last name is required"`
	Email            string `json:"email" validate:"required,email" msg:"Invalid email address"`
	Password         string `json:"password" validate:"min=8" msg:"Password must be at least 8 characters"`
	Birthday         string `json:"birthday" validate:"required,datetime=2006-01-02" msg:"Birthday is required"`
	OutreachID       int64  `json:"outreach_id" validate:"min=1" msg:"Outreach ID is required"`
	PhoneNumber      string `json:"phone_number" validate:"required" msg:"Phone number is required"`
	CellLeaderID     *int64 `json:"cell_leader_id"`
	IsLeader         bool   `json:"is_leader"`
	IsPrimary        bool   `json:"is_primary"`
	IsPastor         bool   `json:"is_pastor"`
	IsMinistryLeader bool   `json:"is_ministry_leader"`
	MinistryID       *int64 `json:"ministry_id,omitempty" validate:"required_if=IsMinistryLeader true" msg:"Ministry ID is required"`
}

// RegisterForm is the registration form as typed: numeric IDs and the
// birthday are still text.
type RegisterForm struct {
	FirstName        string
	LastName         string
	Email            string
	Password         string
	Birthday         string
	OutreachID       string
	PhoneNumber      string
	CellLeaderID     string
	IsLeader         bool
	IsPrimary        bool
	IsPastor         bool
	IsMinistryLeader bool
	MinistryID       string
}

// ToRequest coerces the form into a RegisterRequest. Empty optional IDs
// become null and MinistryID is dropped for non ministry leaders. A
// non-numeric ID yields a *validation.Error; the remaining rules are checked
// later by validating the request itself.
func (f RegisterForm) ToRequest() (RegisterRequest, error) {
	req := RegisterRequest{
		FirstName:        strings.TrimSpace(f.FirstName),
		LastName:         strings.TrimSpace(f.LastName),
		Email:            strings.TrimSpace(f.Email),
		Password:         f.Password,
		Birthday:         strings.TrimSpace(f.Birthday),
		PhoneNumber:      strings.TrimSpace(f.PhoneNumber),
		IsLeader:         f.IsLeader,
		IsPrimary:        f.IsPrimary,
		IsPastor:         f.IsPastor,
		IsMinistryLeader: f.IsMinistryLeader,
	}

	if s := strings.TrimSpace(f.OutreachID); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return RegisterRequest{}, validation.NewError("outreach_id", "Outreach ID is required")
		}
		req.OutreachID = id
	}

	id, err := optionalID(f.CellLeaderID)
	if err != nil {
		return RegisterRequest{}, validation.NewError("cell_leader_id", "Cell leader ID must be a number")
	}
	req.CellLeaderID = id

	if f.IsMinistryLeader {
		id, err := optionalID(f.MinistryID)
		if err != nil {
			return RegisterRequest{}, validation.NewError("ministry_id", "Ministry ID is required")
		}
		req.MinistryID = id
	}

	return req, nil
}

func optionalID(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// FormatBirthday renders t in BirthdayLayout.
func FormatBirthday(t time.Time) string {
	return t.Format(BirthdayLayout)
}

// ProfileUpdate is the body of POST /api/v1/user/update-details. Only the
// fields a member may edit are included.
type ProfileUpdate struct {
	FirstName   string `json:"first_name" validate:"required" msg:"First name is required"`
	LastName    string `json:"last_name" validate:"required" msg:"Last name is required"`
	PhoneNumber string `json:"phone_number" validate:"required" msg:"Phone number is required"`
}

// ProfileUpdateFrom seeds an edit form with the current values of u.
func ProfileUpdateFrom(u *User) ProfileUpdate {
	if u == nil {
		return ProfileUpdate{}
	}
	return ProfileUpdate{FirstName: u.FirstName, LastName: u.LastName, PhoneNumber: u.PhoneNumber}
}

// ContactMessage is what the connect screen collects.
type ContactMessage struct {
	Name    string `json:"name" validate:"required" msg:"Name is required"`
	Email   string `json:"email" validate:"required,email" msg:"Invalid email address"`
	Message string `json:"message" validate:"required" msg:"Message is required"`
}
