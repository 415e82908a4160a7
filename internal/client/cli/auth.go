package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/agentchat/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, a password and its confirmation and
// creates the account. The user still has to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if _, err := a.accounts.SignUp(ctx, userName, string(password), string(confirm)); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return errors.New("username already exists")
		}
		return err
	}

	a.println("Account created, you can log in now")
	return nil
}

// Login prompts for credentials. Any failure is reported the same way.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.accounts.Verify(ctx, userName, string(password))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return errors.New("invalid username or password")
		}
		return err
	}

	a.userID = id
	a.userName = userName
	a.session = nil
	a.printf("Logged in as %s\n", userName)
	return nil
}

// Logout forgets the user and the open session.
func (a *App) Logout(ctx context.Context) error {
	a.userID = 0
	a.userName = ""
	a.session = nil
	a.println("Logged out")
	return nil
}
