// Package services holds the business logic shared by the HTTP API and the
// terminal client: accounts, chat sessions and their turns against the
// inference backend, per-user memory and the model catalog.
//
// Every operation is its own unit of work. Nothing here wraps several
// store calls in one transaction; a chat turn in particular commits the
// user message before the model is asked and the reply afterwards.
package services
