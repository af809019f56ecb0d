// Package blog is a tutorial-style REST backend for a blogging platform:
// accounts, posts, comments, replies, and likes.
//
// The account subsystem is the only fully implemented surface. It covers
// registration with field-level validation, bcrypt credential hashing, JWT
// issuance and verification, and authenticated self-service account updates
// that re-authenticate the caller through their current password.
//
// Content endpoints (posts, comments, replies, likes) are wired routes with
// stub handlers that answer "not implemented"; their Bun models exist so the
// schema and author relation are in place as those features land.
package blog
