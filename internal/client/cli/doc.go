// Package cli provides the interactive usersctl command-line client.
//
// It wires configuration, the API client and an interactive REPL. Typical
// flow: log in (or sign up), run account commands, log out. The session
// token lives only in memory for the lifetime of the process. A background
// watcher probes the server and reports online/offline transitions.
//
// Commands:
//   - signup / login / logout
//   - me, update, passwd, deactivate
//   - upload (multipart through the API), putfile (presigned PUT)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
