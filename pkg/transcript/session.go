package transcript

import (
	"time"

	"github.com/google/uuid"
)

// Session is one conversation thread: an ordered transcript plus metadata.
// The ID is assigned at creation and never changes or gets reused. Message
// order is the conversation itself; it is only appended to, or replaced in
// place during an edit.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

// clone returns an independent snapshot. Messages are treated as immutable
// values once stored, so copying the slice is sufficient.
func (s Session) clone() Session {
	out := s
	out.Messages = make([]Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	return out
}

const (
	maxTitleRunes   = 30
	titleTruncateAt = 27
)

// DeriveTitle produces a session title from the triggering input: the first
// 27 runes plus an ellipsis when the input runs past 30.
func DeriveTitle(input string) string {
	runes := []rune(input)
	if len(runes) > maxTitleRunes {
		return string(runes[:titleTruncateAt]) + "..."
	}
	return input
}

// Bucket labels used by the sidebar grouping.
const (
	BucketToday    = "Today"
	BucketPrevWeek = "Previous 7 days"
	BucketOlder    = "Older"
)

// Group is a time bucket of sessions for display.
type Group struct {
	Label    string    `json:"label"`
	Sessions []Session `json:"sessions"`
}

// bucketFor places a creation time relative to now: same calendar day is
// "Today", within the preceding seven days "Previous 7 days", the rest
// "Older".
func bucketFor(createdAt, now time.Time) string {
	y1, m1, d1 := createdAt.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return BucketToday
	}
	if createdAt.After(now.AddDate(0, 0, -7)) {
		return BucketPrevWeek
	}
	return BucketOlder
}
