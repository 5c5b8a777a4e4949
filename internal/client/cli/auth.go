package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/usersapi/internal/client/client"
	"github.com/dmitrijs2005/usersapi/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getOptionalText = GetOptionalText

// Register prompts for the sign-up fields and creates the account. The
// server always assigns the default role.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	p, err := a.api.Register(ctx, client.Signup{Name: name, Email: email, Password: string(password)})
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Account created: %s (%s), role %s", p.Email, p.ID, p.UserType))
	return nil
}

// Login prompts for credentials and keeps the issued token in memory.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, email, password); err != nil {
		return err
	}

	a.setUserName(email)
	printlnFn("Login successful")
	return nil
}

// Logout drops the in-memory token.
func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.setUserName("")
	printlnFn("Logged out")
	return nil
}
