// Package editor coordinates edit-and-regenerate semantics for a single
// input box: at most one user message is under revision at any time.
package editor

import (
	"errors"
	"sync"

	"llama-chat-be/pkg/transcript"

	"github.com/google/uuid"
)

var (
	// ErrNotEditable is returned when the targeted message is not a user
	// message, or the target does not exist.
	ErrNotEditable = errors.New("message is not editable")

	// ErrStaleCursor is returned by Commit when the store evolved underneath
	// the cursor and the target can no longer be resolved.
	ErrStaleCursor = errors.New("edit target no longer exists")
)

// Cursor points at the user message under revision. It holds only the
// session id and index, never message data, so staleness is detectable.
type Cursor struct {
	SessionID uuid.UUID
	Index     int
}

// Commit reports the outcome of a commit: when Replaced is false the flow
// was Idle and the caller should treat the text as an ordinary new-message
// submission.
type Commit struct {
	SessionID uuid.UUID
	Index     int
	Replaced  bool
	Session   transcript.Session
}

// Flow is a two-state machine, Idle or Editing. Beginning a second edit
// resolves the first by cancelling it.
type Flow struct {
	mu     sync.Mutex
	store  *transcript.Store
	cursor *Cursor
	buffer string
}

func NewFlow(store *transcript.Store) *Flow {
	return &Flow{store: store}
}

// Begin moves Idle → Editing and stages the current text of the targeted
// message into the input buffer. An active cursor is cancelled first.
func (f *Flow) Begin(sessionID uuid.UUID, index int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	session, ok := f.store.Get(sessionID)
	if !ok || index < 0 || index >= len(session.Messages) {
		return "", ErrNotEditable
	}
	target := session.Messages[index]
	if target.Sender != transcript.SenderUser {
		return "", ErrNotEditable
	}

	f.cursor = &Cursor{SessionID: sessionID, Index: index}
	f.buffer = target.Text
	return f.buffer, nil
}

// Cancel moves Editing → Idle and clears the staged buffer. Safe while Idle.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursor = nil
	f.buffer = ""
}

// Editing reports the active cursor, if any.
func (f *Flow) Editing() (Cursor, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cursor == nil {
		return Cursor{}, false
	}
	return *f.cursor, true
}

// CommitText replaces the targeted message with newText, truncating a stale
// bot reply immediately after it, and moves back to Idle. While Idle the
// commit degrades to Replaced=false and the caller appends as usual - Idle
// has no replace semantics. A cursor whose target vanished clears itself
// and reports ErrStaleCursor.
func (f *Flow) CommitText(newText string) (Commit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cursor == nil {
		return Commit{Replaced: false}, nil
	}

	cursor := *f.cursor
	f.cursor = nil
	f.buffer = ""

	session, ok := f.store.ReplaceAt(cursor.SessionID, cursor.Index, transcript.NewUserText(newText), true)
	if !ok {
		return Commit{}, ErrStaleCursor
	}
	return Commit{
		SessionID: cursor.SessionID,
		Index:     cursor.Index,
		Replaced:  true,
		Session:   session,
	}, nil
}
