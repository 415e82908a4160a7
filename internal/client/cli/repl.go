package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printFn is a test seam for the prompt output.
var printFn = fmt.Print

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	hasSession() bool
	printError(err error)
	println(args ...any)

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	NewSession(ctx context.Context, title string) error
	ListSessions(ctx context.Context) error
	OpenSession(ctx context.Context, id string) error
	History(ctx context.Context) error
	SetPrompt(ctx context.Context, text string) error
	SetImage(ctx context.Context, name string) error
	Images(ctx context.Context) error
	Say(ctx context.Context, text string) error

	Models(ctx context.Context) error
	SetModel(ctx context.Context, name string) error
	MemoryGet(ctx context.Context, key string) error
	MemorySet(ctx context.Context, key, value string) error
}

const (
	helpLoggedOut = "Available commands: register, login, models, images, help, exit"
	helpLoggedIn  = "Available commands: new [title], list, open <id>, history, prompt <text>, image <name>, images, " +
		"models, model <name>, memory get <key>, memory set <key> <value>, logout, help, exit\n" +
		"Any other line is sent as a message to the open session."
)

// splitCommand returns the first word of line and the rest with inner
// spacing preserved.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	cmd, rest, _ := strings.Cut(line, " ")
	return cmd, strings.TrimSpace(rest)
}

// runREPL reads lines from reader, dispatches commands to a and reports
// their errors. Lines that are not commands go to the open session as chat
// messages. The loop exits on EOF, "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("agentchat %s> ", statusFn()))

		line, err := readLine(reader)
		if err != nil {
			return
		}

		cmd, rest := splitCommand(line)
		if cmd == "" {
			continue
		}

		var cmdErr error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				a.println(helpLoggedIn)
			} else {
				a.println(helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)

		case "new":
			cmdErr = a.NewSession(ctx, rest)
		case "l", "list":
			cmdErr = a.ListSessions(ctx)
		case "open":
			if rest == "" {
				a.println("Usage: open <id>")
				continue
			}
			cmdErr = a.OpenSession(ctx, rest)
		case "history":
			cmdErr = a.History(ctx)
		case "prompt":
			cmdErr = a.SetPrompt(ctx, rest)
		case "image":
			if rest == "" {
				a.println("Usage: image <name>")
				continue
			}
			cmdErr = a.SetImage(ctx, rest)
		case "images":
			cmdErr = a.Images(ctx)

		case "models":
			cmdErr = a.Models(ctx)
		case "model":
			cmdErr = a.SetModel(ctx, rest)

		case "memory":
			cmdErr = runMemory(ctx, a, rest)

		case "exit", "quit":
			a.println("Bye!")
			return

		default:
			if a.isLoggedIn() && a.hasSession() {
				cmdErr = a.Say(ctx, strings.TrimSpace(line))
			} else {
				a.println("Unknown command:", cmd)
			}
		}

		if cmdErr != nil {
			a.printError(cmdErr)
		}
	}
}

func runMemory(ctx context.Context, a execIface, args string) error {
	sub, rest := splitCommand(args)
	switch sub {
	case "get":
		if rest == "" {
			break
		}
		return a.MemoryGet(ctx, rest)
	case "set":
		key, value := splitCommand(rest)
		if key == "" {
			break
		}
		return a.MemorySet(ctx, key, value)
	}
	a.println("Usage: memory get <key> | memory set <key> <value>")
	return nil
}
