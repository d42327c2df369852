// Package cli is responsible for the command tree, parsing command-line
// arguments, validating user input, and handling process-level concerns like
// exit codes. It translates flags into the application's configuration and
// dispatches to the app package.
package cli
