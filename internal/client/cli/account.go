package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/usersapi/internal/client/client"
	"github.com/dmitrijs2005/usersapi/internal/common"
)

func formatProfile(p *client.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:        %s\n", p.ID)
	fmt.Fprintf(&b, "Name:      %s\n", p.Name)
	fmt.Fprintf(&b, "Email:     %s\n", p.Email)
	fmt.Fprintf(&b, "Role:      %s\n", p.UserType)
	fmt.Fprintf(&b, "Created:   %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "City:      %s\n", p.City)
	fmt.Fprintf(&b, "Country:   %s\n", p.Country)
	fmt.Fprintf(&b, "Telegram:  %s", p.TelegramID)
	return b.String()
}

func (a *App) Me(ctx context.Context) error {
	p, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	printlnFn(formatProfile(p))
	return nil
}

// UpdateProfile asks for each mutable field; empty answers keep the
// current value.
func (a *App) UpdateProfile(ctx context.Context) error {
	var u client.ProfileUpdate
	fields := []struct {
		prompt string
		dst    **string
	}{
		{"Name", &u.Name},
		{"City", &u.City},
		{"Country", &u.Country},
		{"Telegram id", &u.TelegramID},
	}

	changed := false
	for _, f := range fields {
		v, ok, err := getOptionalText(a.reader, f.prompt, os.Stdout)
		if err != nil {
			return err
		}
		if ok {
			v := v
			*f.dst = &v
			changed = true
		}
	}
	if !changed {
		printlnFn("Nothing to update")
		return nil
	}

	p, err := a.api.UpdateMe(ctx, u)
	if err != nil {
		return err
	}
	printlnFn(formatProfile(p))
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	actual, err := getPassword("Current password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(actual)

	next, err := getPassword("New password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	msg, err := a.api.ChangePassword(ctx, actual, next)
	if err != nil {
		return err
	}
	printlnFn(msg)
	return nil
}

// Deactivate asks for confirmation, then disables the account. The session
// ends with it.
func (a *App) Deactivate(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Type 'yes' to deactivate your account", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Canceled")
		return nil
	}

	msg, err := a.api.Deactivate(ctx)
	if err != nil {
		return err
	}
	a.setUserName("")
	printlnFn(msg)
	return nil
}
