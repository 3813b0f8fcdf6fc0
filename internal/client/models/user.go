// Package models defines the records exchanged with the church backend and
// the requests the client sends to it.
package models

// User is the profile record returned by the backend. Identity is assigned
// by the server; the client only edits names and phone number.
type User struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	Birthday     string `json:"birthday"`
	OutreachID   int64  `json:"outreach_id"`
	CellLeaderID *int64 `json:"cell_leader_id,omitempty"`
	MinistryID   *int64 `json:"ministry_id,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Clone returns a deep copy, so callers can't mutate a session's user
// through a shared pointer.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.CellLeaderID = cloneID(u.CellLeaderID)
	c.MinistryID = cloneID(u.MinistryID)
	return &c
}

func cloneID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
