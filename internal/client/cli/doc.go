// Package cli provides the interactive Wikied terminal client.
//
// It wires configuration, the persistent token store, the API client and the
// services, then runs a REPL for account, wiki and board commands. The wiki
// command opens the full-screen editor from package tui.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// input ends. See App and runREPL for details.
package cli
