// Package auth issues and verifies JWT access/refresh tokens, hashes
// passwords and carries the authenticated identity through a request.
package auth
