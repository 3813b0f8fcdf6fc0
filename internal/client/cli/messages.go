package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/flock/internal/client/client"
	"github.com/dmitrijs2005/flock/internal/client/credentials"
	"github.com/dmitrijs2005/flock/internal/client/session"
	"github.com/dmitrijs2005/flock/internal/client/validation"
)

// describe turns an error into the text shown to the user.
func describe(err error) string {
	var (
		ve *validation.Error
		ae *client.AuthError
		se *credentials.StorageError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &ae):
		return ae.Message
	case errors.Is(err, context.Canceled):
		return "Cancelled"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, please try again later"
	case errors.Is(err, client.ErrInvalidResponse):
		return "Invalid response from server"
	case errors.As(err, &se):
		return "Could not save your session on this device"
	case errors.Is(err, session.ErrNotAuthenticated):
		return "Please log in first"
	}
	return err.Error()
}
