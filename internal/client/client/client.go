package client

import (
	"context"

	"github.com/dmitrijs2005/flock/internal/client/models"
)

// Client is the backend API as seen by the rest of the client. Each call is
// a single round trip; nothing is retried.
type Client interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Session, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.Session, error)
	UpdateProfile(ctx context.Context, token string, req models.ProfileUpdate) (*models.User, error)
	ListOutreaches(ctx context.Context) ([]models.Outreach, error)
	ListMinistries(ctx context.Context) ([]models.Ministry, error)
	ListMedia(ctx context.Context) ([]models.MediaItem, error)
}
