// Package models provides data structures for the authentication service.
// This file contains the server-side login session.
package models

import (
	"time"
)

// Session is the server-side state behind the session cookie.
// A zero SubjectID means the session is anonymous.
type Session struct {
	// ID is the unique identifier carried in the signed cookie
	ID string `json:"id"`

	// SubjectID references the logged-in user, or 0
	SubjectID int64 `json:"subject_id"`

	// RedirectURL is where to send the user after the next successful login
	RedirectURL string `json:"redirect_url,omitempty"`

	// Flashes holds one-shot messages keyed by kind ("error", "message")
	Flashes map[string][]string `json:"flashes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSession creates an anonymous session that expires maxAge after now.
func NewSession(id string, now time.Time, maxAge time.Duration) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		LastSeen:  now,
		ExpiresAt: now.Add(maxAge),
	}
}

// IsExpired checks whether the session has expired at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Authenticated reports whether a subject is attached.
func (s *Session) Authenticated() bool {
	return s.SubjectID != 0
}

// Touch records activity and slides the expiry window.
func (s *Session) Touch(now time.Time, maxAge time.Duration) {
	s.LastSeen = now
	s.ExpiresAt = now.Add(maxAge)
}

// AddFlash appends a one-shot message of the given kind.
func (s *Session) AddFlash(kind, message string) {
	if s.Flashes == nil {
		s.Flashes = make(map[string][]string)
	}
	s.Flashes[kind] = append(s.Flashes[kind], message)
}

// TakeFlashes returns and removes all messages of the given kind.
func (s *Session) TakeFlashes(kind string) []string {
	messages := s.Flashes[kind]
	delete(s.Flashes, kind)
	return messages
}

// TakeRedirect returns and clears the pending redirect URL.
func (s *Session) TakeRedirect() string {
	target := s.RedirectURL
	s.RedirectURL = ""
	return target
}

// Clone returns a deep copy so callers never share flash slices.
func (s *Session) Clone() *Session {
	clone := *s
	if s.Flashes != nil {
		clone.Flashes = make(map[string][]string, len(s.Flashes))
		for kind, messages := range s.Flashes {
			clone.Flashes[kind] = append([]string(nil), messages...)
		}
	}
	return &clone
}
