// Package cli provides the interactive Tickit command-line client.
//
// It wires configuration, the local store, the CRUD services and the sync
// engine into a REPL. Local mutations nudge the sync scheduler, so changes
// reach the server shortly after they are made without blocking the prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
