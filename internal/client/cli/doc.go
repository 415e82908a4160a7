// Package cli provides the interactive agentchat terminal client.
//
// The client opens the same store and inference backend as the server and
// runs a line-oriented REPL on top of the services package. Typical flow:
// register or log in, open or create a session, then type messages; every
// line that is not a command is sent to the model.
//
// Commands:
//   - register / login / logout
//   - new [title], list, open <id>, history
//   - prompt <text>, image <name>, images
//   - models, model <name>
//   - memory get <key>, memory set <key> <value>
//   - help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
