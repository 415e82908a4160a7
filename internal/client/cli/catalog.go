package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/agentchat/internal/common"
)

func (a *App) Models(ctx context.Context) error {
	for _, m := range a.models.Available(ctx) {
		marker := " "
		if m == a.model {
			marker = "*"
		}
		a.printf("%s %s\n", marker, m)
	}
	return nil
}

// SetModel picks the model used for the following messages. An empty name
// goes back to the default model.
func (a *App) SetModel(ctx context.Context, name string) error {
	a.model = a.models.Resolve(name)
	a.printf("Using model %s\n", a.model)
	return nil
}

func (a *App) MemoryGet(ctx context.Context, key string) error {
	if !a.requireLogin() {
		return nil
	}

	v, err := a.memory.Get(ctx, a.userID, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			a.printInfo(fmt.Sprintf("nothing stored under %q", key))
			return nil
		}
		return err
	}
	a.printf("%s = %s\n", key, v)
	return nil
}

func (a *App) MemorySet(ctx context.Context, key, value string) error {
	if !a.requireLogin() {
		return nil
	}

	if err := a.memory.Set(ctx, a.userID, key, value); err != nil {
		return err
	}
	a.println("Saved")
	return nil
}
