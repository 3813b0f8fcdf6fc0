package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/flock/internal/common"
	"github.com/dmitrijs2005/flock/internal/server/catalog"
	"github.com/dmitrijs2005/flock/internal/server/users"
	"github.com/dmitrijs2005/flock/internal/textx"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token string        `json:"token"`
	User  users.Profile `json:"user"`
}

type userResponse struct {
	User users.Profile `json:"user"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	sess, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Logged in", "user_id", sess.User.ID)
	writeJSON(w, http.StatusOK, sessionResponse{Token: sess.Token, User: sess.User.Profile()})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req users.Registration
	if !s.decode(w, r, &req) {
		return
	}
	req.FirstName = s.clean(req.FirstName)
	req.LastName = s.clean(req.LastName)
	req.PhoneNumber = s.clean(req.PhoneNumber)

	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if !s.catalog.HasOutreach(req.OutreachID) {
		writeError(w, http.StatusBadRequest, "Unknown outreach")
		return
	}

	sess, err := s.users.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", sess.User.ID)
	writeJSON(w, http.StatusCreated, sessionResponse{Token: sess.Token, User: sess.User.Profile()})
}

func (s *Server) updateDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing token")
		return
	}

	var req users.Details
	if !s.decode(w, r, &req) {
		return
	}
	req.FirstName = s.clean(req.FirstName)
	req.LastName = s.clean(req.LastName)
	req.PhoneNumber = s.clean(req.PhoneNumber)

	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	user, err := s.users.UpdateDetails(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: user.Profile()})
}

func (s *Server) listOutreaches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]catalog.Outreach{"outreaches": nonNil(s.catalog.Outreaches())})
}

func (s *Server) listMinistries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]catalog.Ministry{"ministries": nonNil(s.catalog.Ministries())})
}

func (s *Server) listMedia(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]catalog.MediaItem{"media": nonNil(s.catalog.Media())})
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// clean strips markup and control characters from free text before it is
// stored. The result is plain text, not HTML.
func (s *Server) clean(v string) string {
	return strings.TrimSpace(textx.Plain(s.sanitizer, v))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validationMessage names the first rejected field.
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return fmt.Sprintf("Invalid %s", ve[0].Field())
	}
	return "Invalid request"
}
