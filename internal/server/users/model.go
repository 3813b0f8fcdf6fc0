package users

import "time"

// User is a stored account.
type User struct {
	ID               int64
	Email            string
	PasswordHash     []byte
	FirstName        string
	LastName         string
	PhoneNumber      string
	Birthday         string
	OutreachID       int64
	CellLeaderID     *int64
	IsLeader         bool
	IsPrimary        bool
	IsPastor         bool
	IsMinistryLeader bool
	MinistryID       *int64
	CreatedAt        time.Time
}

// Profile is the public view of a User sent to clients.
type Profile struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	Birthday     string `json:"birthday"`
	OutreachID   int64  `json:"outreach_id"`
	CellLeaderID *int64 `json:"cell_leader_id,omitempty"`
	MinistryID   *int64 `json:"ministry_id,omitempty"`
}

func (u *User) Profile() Profile {
	return Profile{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		Birthday:     u.Birthday,
		OutreachID:   u.OutreachID,
		CellLeaderID: u.CellLeaderID,
		MinistryID:   u.MinistryID,
	}
}

// Registration is what a new member submits.
type Registration struct {
	FirstName        string `json:"first_name" validate:"required"`
	LastName         string `json:"last_name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"min=8,max=72"`
	Birthday         string `json:"birthday" validate:"required,datetime=2006-01-02"`
	OutreachID       int64  `json:"outreach_id" validate:"min=1"`
	PhoneNumber      string `json:"phone_number" validate:"required"`
	CellLeaderID     *int64 `json:"cell_leader_id"`
	IsLeader         bool   `json:"is_leader"`
	IsPrimary        bool   `json:"is_primary"`
	IsPastor         bool   `json:"is_pastor"`
	IsMinistryLeader bool   `json:"is_ministry_leader"`
	MinistryID       *int64 `json:"ministry_id" validate:"required_if=IsMinistryLeader true"`
}

// Details are the profile fields a member may change.
type Details struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}
