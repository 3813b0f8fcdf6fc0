// Package cli provides the interactive flock terminal client.
//
// It wires configuration, the local session database, the API client, the
// session manager and route guard, and an interactive REPL standing in for
// the mobile app's screens. Typical flow: the guard restores a saved
// session or sends the user to the login screen, then the REPL executes
// commands until the user exits.
//
// Key features:
//   - Login / Register / Logout (with confirmation)
//   - Profile view and edit
//   - Outreach, ministry and media browsing, with media category filter
//   - A contact form
//
// Each command runs under its own context; Ctrl-C cancels the command in
// flight. The REPL is started via App.Run(ctx), which blocks until the user
// exits. See App and runREPL for details.
package cli
