package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/agentchat/internal/common"
	"github.com/dmitrijs2005/agentchat/internal/services"
)

// NewSession creates a session and opens it.
func (a *App) NewSession(ctx context.Context, title string) error {
	if !a.requireLogin() {
		return nil
	}

	id, err := a.chats.CreateSession(ctx, a.userID, services.SessionOptions{Title: title})
	if err != nil {
		return err
	}
	return a.open(ctx, id)
}

func (a *App) ListSessions(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	list, err := a.chats.ListSessions(ctx, a.userID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.printInfo("No sessions yet, use 'new' to start one")
		return nil
	}

	for _, cs := range list {
		marker := " "
		if a.session != nil && a.session.ID == cs.ID {
			marker = "*"
		}
		a.printf("%s %4d  %-30s %s\n", marker, cs.ID, cs.Title, cs.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// OpenSession switches to the session with the given id and prints its
// history.
func (a *App) OpenSession(ctx context.Context, arg string) error {
	if !a.requireLogin() {
		return nil
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("%w: session id must be a positive number", common.ErrorValidation)
	}
	if err := a.open(ctx, id); err != nil {
		return err
	}
	return a.History(ctx)
}

func (a *App) open(ctx context.Context, id int64) error {
	cs, err := a.chats.GetSession(ctx, a.userID, id)
	if err != nil {
		return err
	}
	a.session = cs
	a.printf("Opened session #%d %s\n", cs.ID, cs.Title)
	return nil
}

func (a *App) History(ctx context.Context) error {
	if !a.requireSession() {
		return nil
	}

	if a.session.SystemPrompt != "" {
		a.printInfo("system prompt: " + a.session.SystemPrompt)
	}

	list, err := a.chats.ListMessages(ctx, a.session.ID)
	if err != nil {
		return err
	}
	for _, m := range list {
		a.printMessage(m)
	}
	return nil
}

// SetPrompt replaces the system prompt of the open session. An empty text
// clears it.
func (a *App) SetPrompt(ctx context.Context, text string) error {
	if !a.requireSession() {
		return nil
	}

	if err := a.chats.UpdateSystemPrompt(ctx, a.session.ID, text); err != nil {
		return err
	}
	a.session.SystemPrompt = text
	a.println("System prompt updated")
	return nil
}

// SetImage changes the character image of the open session to one offered
// by the catalog.
func (a *App) SetImage(ctx context.Context, name string) error {
	if !a.requireSession() {
		return nil
	}

	names, err := a.catalog.List(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(names, name) {
		return fmt.Errorf("%w: unknown image %q", common.ErrorValidation, name)
	}

	if err := a.chats.UpdateCharacterImage(ctx, a.session.ID, name); err != nil {
		return err
	}
	a.session.CharacterImage = name
	a.println("Character image updated")
	return nil
}

func (a *App) Images(ctx context.Context) error {
	names, err := a.catalog.List(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		marker := " "
		if a.session != nil && a.session.CharacterImage == n {
			marker = "*"
		}
		a.printf("%s %s\n", marker, n)
	}
	return nil
}

// Say sends text to the model within the open session and prints the reply.
func (a *App) Say(ctx context.Context, text string) error {
	if !a.requireSession() {
		return nil
	}

	reply, err := a.chats.Send(ctx, a.userID, a.session.ID, a.model, strings.TrimSpace(text))
	if err != nil {
		return err
	}
	a.printMessage(*reply)
	return nil
}

