package models

// Session pairs the bearer token with the user it belongs to. A Session
// without either half is never persisted or exposed.
type Session struct {
	Token string
	User  *User
}

// Complete reports whether both halves are present.
func (s *Session) Complete() bool {
	return s != nil && s.Token != "" && s.User != nil
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	return &Session{Token: s.Token, User: s.User.Clone()}
}
