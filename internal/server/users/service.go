package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/flock/internal/common"
	"github.com/dmitrijs2005/flock/internal/server/auth"
	"github.com/dmitrijs2005/flock/internal/server/config"
)

// Session is what login and registration hand back: a signed token and the
// account it belongs to.
type Session struct {
	Token string
	User  *User
}

type Service struct {
	repo                        Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	hashCost                    int
	now                         func() time.Time
}

type Option func(*Service)

// WithHashCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

func NewService(repo Repository, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.TokenTTL,
		hashCost:                    bcrypt.DefaultCost,
		now:                         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates the account and signs it in. A taken email yields
// common.ErrorAlreadyExists.
func (s *Service) Register(ctx context.Context, reg Registration) (*Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	ministryID := reg.MinistryID
	if !reg.IsMinistryLeader {
		ministryID = nil
	}

	user, err := s.repo.Create(ctx, &User{
		Email:            strings.TrimSpace(reg.Email),
		PasswordHash:     hash,
		FirstName:        reg.FirstName,
		LastName:         reg.LastName,
		PhoneNumber:      reg.PhoneNumber,
		Birthday:         reg.Birthday,
		OutreachID:       reg.OutreachID,
		CellLeaderID:     reg.CellLeaderID,
		IsLeader:         reg.IsLeader,
		IsPrimary:        reg.IsPrimary,
		IsPastor:         reg.IsPastor,
		IsMinistryLeader: reg.IsMinistryLeader,
		MinistryID:       ministryID,
		CreatedAt:        s.now(),
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(user)
}

// Login checks the password. Unknown emails and wrong passwords both
// yield common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.issue(user)
}

func (s *Service) issue(user *User) (*Session, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to the account it was issued for.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	id, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *Service) UpdateDetails(ctx context.Context, userID int64, d Details) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = d.FirstName
	user.LastName = d.LastName
	user.PhoneNumber = d.PhoneNumber

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
