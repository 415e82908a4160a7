package cli

import (
	"fmt"

	"github.com/dmitrijs2005/agentchat/internal/inference"
	"github.com/dmitrijs2005/agentchat/internal/models"
	"github.com/fatih/color"
)

var (
	userColor      = color.New(color.FgCyan, color.Bold)
	assistantColor = color.New(color.FgGreen)
	systemColor    = color.New(color.FgYellow)
	errorColor     = color.New(color.FgRed)
	infoColor      = color.New(color.Faint)
)

func roleLabel(r models.Role) string {
	switch r {
	case models.RoleUser:
		return userColor.Sprint("you")
	case models.RoleAssistant:
		return assistantColor.Sprint("assistant")
	default:
		return systemColor.Sprint(r.String())
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printMessage(m models.Message) {
	a.printf("%s: %s\n", roleLabel(m.Role), m.Content)
}

func (a *App) printError(err error) {
	fmt.Fprintln(a.out, errorColor.Sprint("error: "+err.Error()))
	if hint := errorHint(err, a.model); hint != "" {
		fmt.Fprintln(a.out, infoColor.Sprint("hint: "+hint))
	}
}

// errorHint suggests a fix for inference failures the user can act on.
func errorHint(err error, model string) string {
	switch {
	case inference.IsNotRunning(err):
		return "start Ollama with `ollama serve`"
	case inference.IsModelNotFound(err):
		if model == "" {
			return "install the model with `ollama pull <model>`"
		}
		return fmt.Sprintf("install the model with `ollama pull %s`", model)
	case inference.IsInvalidResponse(err):
		return "check that the Ollama version is up to date"
	default:
		return ""
	}
}

func (a *App) printInfo(msg string) {
	fmt.Fprintln(a.out, infoColor.Sprint(msg))
}
