package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/flock/internal/client/client"
	"github.com/dmitrijs2005/flock/internal/client/models"
	"github.com/dmitrijs2005/flock/internal/client/session"
)

// Input helpers are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getYesNo           = GetYesNo
	getPassword        = GetPassword
	getMultiline       = GetMultiline
)

// Login prompts for email and password and signs in. Validation problems
// are reported before anything is sent.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	err = a.sessions.Login(ctx, models.LoginRequest{Email: email, Password: string(password)})
	if err != nil {
		if errors.Is(err, client.ErrInvalidResponse) {
			printlnFn("Login failed: Invalid login response")
		} else {
			printlnFn("Login failed:", describe(err))
		}
		return err
	}

	printlnFn(fmt.Sprintf("Welcome, %s!", a.sessions.User().FullName()))
	return nil
}

// Register collects the registration form, coerces it and creates the
// account. Success signs the user in.
func (a *App) Register(ctx context.Context) error {
	form, err := a.readRegisterForm(ctx)
	if err != nil {
		return err
	}

	req, err := form.ToRequest()
	if err != nil {
		printlnFn("Registration failed:", describe(err))
		return err
	}

	if err := a.sessions.Register(ctx, req); err != nil {
		printlnFn("Registration failed:", describe(err))
		return err
	}

	printlnFn(fmt.Sprintf("Welcome to the family, %s!", a.sessions.User().FullName()))
	return nil
}

func (a *App) readRegisterForm(ctx context.Context) (models.RegisterForm, error) {
	var (
		f   models.RegisterForm
		err error
	)

	text := func(dst *string, prompt string) {
		if err == nil {
			*dst, err = getSimpleText(a.reader, prompt, a.out)
		}
	}
	yesNo := func(dst *bool, prompt string) {
		if err == nil {
			*dst, err = getYesNo(a.reader, prompt, a.out)
		}
	}

	text(&f.FirstName, "First name")
	text(&f.LastName, "Last name")
	text(&f.Email, "Email")
	if err == nil {
		var pw []byte
		pw, err = getPassword(a.reader, a.out)
		f.Password = string(pw)
		clear(pw)
	}
	text(&f.Birthday, "Birthday (YYYY-MM-DD)")
	text(&f.PhoneNumber, "Phone number")

	if err == nil {
		if outreaches := a.catalog.Outreaches(ctx); len(outreaches) > 0 {
			printlnFn("Outreaches:")
			for _, o := range outreaches {
				printlnFn(fmt.Sprintf("  %d  %s (%s)", o.ID, o.Name, o.City))
			}
		}
	}
	text(&f.OutreachID, "Outreach ID")
	text(&f.CellLeaderID, "Cell leader ID (optional)")
	yesNo(&f.IsLeader, "Are you a cell leader?")
	yesNo(&f.IsPrimary, "Are you a primary leader?")
	yesNo(&f.IsPastor, "Are you a pastor?")
	yesNo(&f.IsMinistryLeader, "Are you a ministry leader?")
	if f.IsMinistryLeader {
		text(&f.MinistryID, "Ministry ID")
	}

	return f, err
}

// Profile prints the signed-in user's record.
func (a *App) Profile(ctx context.Context) error {
	u := a.sessions.User()
	if u == nil {
		printlnFn(describe(session.ErrNotAuthenticated))
		return session.ErrNotAuthenticated
	}

	printlnFn(fmt.Sprintf("Name:         %s", u.FullName()))
	printlnFn(fmt.Sprintf("Email:        %s", u.Email))
	printlnFn(fmt.Sprintf("Phone:        %s", u.PhoneNumber))
	printlnFn(fmt.Sprintf("Birthday:     %s", u.Birthday))
	printlnFn(fmt.Sprintf("Outreach ID:  %d", u.OutreachID))
	printlnFn(fmt.Sprintf("Cell leader:  %s", optionalID(u.CellLeaderID)))
	if u.MinistryID != nil {
		printlnFn(fmt.Sprintf("Ministry ID:  %d", *u.MinistryID))
	}
	return nil
}

func optionalID(id *int64) string {
	if id == nil {
		return "N/A"
	}
	return strconv.FormatInt(*id, 10)
}

// EditProfile lets the user change first name, last name and phone
// number. Pressing Enter keeps the current value.
func (a *App) EditProfile(ctx context.Context) error {
	current := a.sessions.User()
	if current == nil {
		printlnFn(describe(session.ErrNotAuthenticated))
		return session.ErrNotAuthenticated
	}

	upd := models.ProfileUpdateFrom(current)
	var err error
	for _, f := range []struct {
		dst    *string
		prompt string
	}{
		{&upd.FirstName, "First name"},
		{&upd.LastName, "Last name"},
		{&upd.PhoneNumber, "Phone number"},
	} {
		if *f.dst, err = getTextWithDefault(a.reader, f.prompt, *f.dst, a.out); err != nil {
			return err
		}
		*f.dst = strings.TrimSpace(*f.dst)
	}

	if _, err := a.sessions.UpdateProfile(ctx, upd); err != nil {
		printlnFn("Update failed:", describe(err))
		if a.sessions.State() == session.Anonymous {
			printlnFn("Your session has expired. Please log in again.")
		}
		return err
	}

	printlnFn("Profile updated.")
	return nil
}

// Logout asks for confirmation and ends the session.
func (a *App) Logout(ctx context.Context) error {
	ok, err := getYesNo(a.reader, "Are you sure you want to log out?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Logout cancelled.")
		return nil
	}

	if err := a.sessions.Logout(ctx); err != nil {
		a.logger.Warn(ctx, "logout finished with errors", "error", err)
	}
	printlnFn("Logged out.")
	return nil
}
