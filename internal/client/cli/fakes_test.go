package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/flock/internal/client/models"
	"github.com/dmitrijs2005/flock/internal/client/session"
	"github.com/dmitrijs2005/flock/internal/client/validation"
	"github.com/dmitrijs2005/flock/internal/logging"
)

// ---- output capture ----

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func joined(lines *[]string) string { return strings.Join(*lines, "\n") }

// ---- input stubs ----

// stubAnswers feeds text prompts from answers in order and the password
// from pw. Every prompt seen is recorded.
func stubAnswers(t *testing.T, pw string, answers ...string) *[]string {
	t.Helper()
	var prompts []string
	next := func(prompt string) (string, error) {
		prompts = append(prompts, prompt)
		if len(answers) == 0 {
			return "", io.EOF
		}
		v := answers[0]
		answers = answers[1:]
		return v, nil
	}

	origST, origTD, origYN, origPW, origML := getSimpleText, getTextWithDefault, getYesNo, getPassword, getMultiline
	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) { return next(prompt) }
	getTextWithDefault = func(_ *bufio.Reader, prompt, def string, _ io.Writer) (string, error) {
		v, err := next(prompt)
		if err == nil && v == "" {
			v = def
		}
		return v, err
	}
	getYesNo = func(_ *bufio.Reader, prompt string, _ io.Writer) (bool, error) {
		v, err := next(prompt)
		return v == "y", err
	}
	getPassword = func(_ *bufio.Reader, _ io.Writer) ([]byte, error) { return []byte(pw), nil }
	getMultiline = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) { return next(prompt) }
	t.Cleanup(func() {
		getSimpleText, getTextWithDefault, getYesNo, getPassword, getMultiline = origST, origTD, origYN, origPW, origML
	})
	return &prompts
}

// ---- fake session service ----

type fakeSessions struct {
	user *models.User

	loginErr    error
	registerErr error
	updateErr   error
	logoutErr   error
	// expireOnUpdate drops the user when UpdateProfile fails, like a 401.
	expireOnUpdate bool

	lastLogin    models.LoginRequest
	lastRegister models.RegisterRequest
	lastUpdate   models.ProfileUpdate
	logoutCalls  int
}

func (f *fakeSessions) State() session.State {
	if f.user == nil {
		return session.Anonymous
	}
	return session.Authenticated
}

func (f *fakeSessions) User() *models.User { return f.user.Clone() }

func (f *fakeSessions) Login(_ context.Context, req models.LoginRequest) error {
	f.lastLogin = req
	if f.loginErr != nil {
		return f.loginErr
	}
	f.user = sampleUser()
	return nil
}

func (f *fakeSessions) Register(_ context.Context, req models.RegisterRequest) error {
	f.lastRegister = req
	if f.registerErr != nil {
		return f.registerErr
	}
	f.user = &models.User{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email}
	return nil
}

func (f *fakeSessions) UpdateProfile(_ context.Context, upd models.ProfileUpdate) (*models.User, error) {
	f.lastUpdate = upd
	if f.updateErr != nil {
		if f.expireOnUpdate {
			f.user = nil
		}
		return nil, f.updateErr
	}
	f.user.FirstName, f.user.LastName, f.user.PhoneNumber = upd.FirstName, upd.LastName, upd.PhoneNumber
	return f.user.Clone(), nil
}

func (f *fakeSessions) Logout(context.Context) error {
	f.logoutCalls++
	f.user = nil
	return f.logoutErr
}

// ---- fake catalog ----

type fakeCatalog struct {
	outreaches []models.Outreach
	ministries []models.Ministry
	media      []models.MediaItem
}

func (f *fakeCatalog) Outreaches(context.Context) []models.Outreach { return f.outreaches }
func (f *fakeCatalog) Ministries(context.Context) []models.Ministry { return f.ministries }
func (f *fakeCatalog) Media(context.Context) []models.MediaItem     { return f.media }

// ---- fixtures ----

func sampleUser() *models.User {
	return &models.User{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		PhoneNumber: "+44 20 0000 0000",
		Birthday:    "1990-12-10",
		OutreachID:  3,
	}
}

func newTestApp(s *fakeSessions, c *fakeCatalog) *App {
	if c == nil {
		c = &fakeCatalog{}
	}
	return &App{
		sessions:  s,
		catalog:   c,
		validator: validation.New(),
		logger:    logging.Discard(),
		reader:    bufio.NewReader(strings.NewReader("")),
		out:       io.Discard,
	}
}
