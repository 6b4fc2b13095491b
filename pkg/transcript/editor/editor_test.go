package editor

import (
	"testing"

	"llama-chat-be/pkg/transcript"
)

func seedSession(t *testing.T, store *transcript.Store) transcript.Session {
	t.Helper()
	session := store.Create("chat")
	store.Append(session.ID, transcript.NewUserText("A"))
	store.Append(session.ID, transcript.NewBotReply("reply"))
	got, _ := store.Get(session.ID)
	return got
}

func TestBeginStagesCurrentText(t *testing.T) {
	store := transcript.NewStore()
	session := seedSession(t, store)
	flow := NewFlow(store)

	staged, err := flow.Begin(session.ID, 0)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if staged != "A" {
		t.Errorf("staged = %q, want A", staged)
	}
	if _, editing := flow.Editing(); !editing {
		t.Error("flow should be Editing after Begin")
	}
}

func TestBeginRejectsBotMessage(t *testing.T) {
	store := transcript.NewStore()
	session := seedSession(t, store)
	flow := NewFlow(store)

	if _, err := flow.Begin(session.ID, 1); err != ErrNotEditable {
		t.Errorf("editing a bot message: err = %v, want ErrNotEditable", err)
	}
	if _, err := flow.Begin(session.ID, 99); err != ErrNotEditable {
		t.Errorf("editing out of range: err = %v, want ErrNotEditable", err)
	}
}

func TestCommitReplacesAndTruncatesOnce(t *testing.T) {
	store := transcript.NewStore()
	session := seedSession(t, store)
	flow := NewFlow(store)

	flow.Begin(session.ID, 0)
	commit, err := flow.CommitText("A2")
	if err != nil {
		t.Fatalf("CommitText: %v", err)
	}
	if !commit.Replaced {
		t.Fatal("commit while Editing must replace")
	}
	if len(commit.Session.Messages) != 1 || commit.Session.Messages[0].Text != "A2" {
		t.Errorf("post-replace transcript = %+v, want exactly [user:A2]", commit.Session.Messages)
	}
	if _, editing := flow.Editing(); editing {
		t.Error("flow must return to Idle after commit")
	}
}

func TestCommitWhileIdleAppendsInstead(t *testing.T) {
	store := transcript.NewStore()
	seedSession(t, store)
	flow := NewFlow(store)

	commit, err := flow.CommitText("new message")
	if err != nil {
		t.Fatalf("CommitText: %v", err)
	}
	if commit.Replaced {
		t.Error("Idle has no replace semantics; commit must degrade to append")
	}
}

func TestCommitDetectsStaleCursor(t *testing.T) {
	store := transcript.NewStore()
	session := seedSession(t, store)
	flow := NewFlow(store)

	flow.Begin(session.ID, 0)
	store.Delete(session.ID)

	if _, err := flow.CommitText("A2"); err != ErrStaleCursor {
		t.Errorf("err = %v, want ErrStaleCursor", err)
	}
	if _, editing := flow.Editing(); editing {
		t.Error("stale cursor must clear itself")
	}
}

func TestSecondBeginResolvesFirst(t *testing.T) {
	store := transcript.NewStore()
	session := seedSession(t, store)
	store.Append(session.ID, transcript.NewUserText("B"))
	flow := NewFlow(store)

	flow.Begin(session.ID, 0)
	staged, err := flow.Begin(session.ID, 2)
	if err != nil {
		t.Fatalf("second Begin: %v", err)
	}
	if staged != "B" {
		t.Errorf("staged = %q, want B", staged)
	}

	cursor, _ := flow.Editing()
	if cursor.Index != 2 {
		t.Errorf("cursor index = %d, want 2 (single cursor discipline)", cursor.Index)
	}
}

func TestCancel(t *testing.T) {
	store := transcript.NewStore()
	session := seedSession(t, store)
	flow := NewFlow(store)

	flow.Begin(session.ID, 0)
	flow.Cancel()
	if _, editing := flow.Editing(); editing {
		t.Error("Cancel must return the flow to Idle")
	}

	got, _ := store.Get(session.ID)
	if len(got.Messages) != 2 {
		t.Error("Cancel must leave the transcript untouched")
	}
}
