package transcript

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store owns the session list and the active-session pointer. Every
// operation is synchronous and hands back an independent snapshot, so a
// caller observes either the pre- or post-mutation state, never a partial
// one. Lookups go by session id, not by any cached reference; a completion
// that arrives for a session deleted in the meantime simply fails to
// resolve and is dropped.
type Store struct {
	mu       sync.Mutex
	sessions []Session
	current  uuid.UUID
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Create allocates a fresh session with an empty transcript, appends it to
// the list, makes it current, and returns its snapshot.
func (s *Store) Create(title string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := Session{
		ID:        uuid.New(),
		Title:     title,
		Messages:  []Message{},
		CreatedAt: s.now(),
	}
	s.sessions = append(s.sessions, session)
	s.current = session.ID
	return session.clone()
}

// Select points the store at the session with the given id. An unknown id is
// silently ignored; a navigation miss must not break anything.
func (s *Store) Select(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) >= 0 {
		s.current = id
	}
}

// Current returns a snapshot of the active session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(s.current)
	if i < 0 {
		return Session{}, false
	}
	return s.sessions[i].clone(), true
}

// Get returns a snapshot of the session with the given id.
func (s *Store) Get(id uuid.UUID) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Session{}, false
	}
	return s.sessions[i].clone(), true
}

// Rename replaces the session title. No-op when the id is absent or the new
// title is empty.
func (s *Store) Rename(id uuid.UUID, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 || title == "" {
		return
	}
	s.sessions[i].Title = title
}

// Delete removes the session. When it was current, current becomes none —
// the user picks another session or starts fresh, never lands on an
// arbitrary neighbor.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
	if s.current == id {
		s.current = uuid.Nil
	}
}

// Append adds msg to the transcript of the session with the given id,
// resolved at call time, and returns the post-append snapshot. A missing id
// drops the append and reports false; this is the mechanism by which a
// deleted session discards an in-flight generation response.
func (s *Store) Append(id uuid.UUID, msg Message) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Session{}, false
	}
	s.sessions[i].Messages = append(s.sessions[i].Messages, msg)
	return s.sessions[i].clone(), true
}

// ReplaceAt overwrites the message at index. With truncateFollowingBotReply
// set, a bot message immediately after index is removed as well — the stale
// answer to the replaced prompt. Reports false when the id or index no
// longer resolves.
func (s *Store) ReplaceAt(id uuid.UUID, index int, msg Message, truncateFollowingBotReply bool) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Session{}, false
	}
	msgs := s.sessions[i].Messages
	if index < 0 || index >= len(msgs) {
		return Session{}, false
	}

	msgs[index] = msg
	if truncateFollowingBotReply && index+1 < len(msgs) && msgs[index+1].Sender == SenderBot {
		msgs = append(msgs[:index+1], msgs[index+2:]...)
	}
	s.sessions[i].Messages = msgs
	return s.sessions[i].clone(), true
}

// Sessions returns snapshots of every session in insertion order.
func (s *Store) Sessions() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Session, len(s.sessions))
	for i, session := range s.sessions {
		out[i] = session.clone()
	}
	return out
}

// Grouped buckets sessions by creation time for the sidebar, newest first
// within each bucket. Empty buckets are omitted.
func (s *Store) Grouped() []Group {
	s.mu.Lock()
	now := s.now()
	sessions := make([]Session, len(s.sessions))
	for i, session := range s.sessions {
		sessions[i] = session.clone()
	}
	s.mu.Unlock()

	byLabel := map[string][]Session{}
	for i := len(sessions) - 1; i >= 0; i-- {
		label := bucketFor(sessions[i].CreatedAt, now)
		byLabel[label] = append(byLabel[label], sessions[i])
	}

	var groups []Group
	for _, label := range []string{BucketToday, BucketPrevWeek, BucketOlder} {
		if bucketed := byLabel[label]; len(bucketed) > 0 {
			groups = append(groups, Group{Label: label, Sessions: bucketed})
		}
	}
	return groups
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id uuid.UUID) int {
	if id == uuid.Nil {
		return -1
	}
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}
