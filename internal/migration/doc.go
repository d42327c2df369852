// Package migration reads individual migration revision files and turns them
// into Records.
//
// Extraction is pattern based rather than grammar based: the parser looks for
// the `revision` and `down_revision` assignments, the module docstring and the
// `Create Date:` header that migration generators emit, and tolerates
// everything else in the file. A file that cannot yield a revision identifier,
// or whose parent declaration cannot be interpreted, produces a *ParseError so
// that the caller can skip it and keep scanning.
package migration
