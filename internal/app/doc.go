// Package app contains the core application logic. It defines the main App
// struct, its configuration, and one method per user-facing command,
// decoupled from any specific entrypoint like a CLI.
package app
