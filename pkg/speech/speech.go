// Package speech models dictation as an optional capability: the runtime
// either has a recognizer or it does not, and the rest of the system only
// talks to the seam.
package speech

import (
	"context"
	"errors"
	"sync"
)

// ErrUnavailable is the capability-absent failure: no recognizer exists in
// this runtime. It is surfaced immediately, without any network step.
var ErrUnavailable = errors.New("speech recognition is not supported")

// Recognizer converts captured audio to text.
type Recognizer interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// Unavailable is the absent state of the capability; every call resolves
// synchronously to ErrUnavailable.
type Unavailable struct{}

var _ Recognizer = Unavailable{}

func (Unavailable) Transcribe(context.Context, string, []byte) (string, error) {
	return "", ErrUnavailable
}

// Dictation serializes access to the single shared listening resource.
// Starting while already listening stops the active session instead of
// opening a second one.
type Dictation struct {
	mu        sync.Mutex
	rec       Recognizer
	listening bool
}

func NewDictation(rec Recognizer) *Dictation {
	if rec == nil {
		rec = Unavailable{}
	}
	return &Dictation{rec: rec}
}

// Start toggles the listening state. It reports true when a new session
// began, false when an active one was stopped instead.
func (d *Dictation) Start() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.listening {
		d.listening = false
		return false
	}
	d.listening = true
	return true
}

// Listening reports whether a dictation session is active.
func (d *Dictation) Listening() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.listening
}

// Finish completes the active session with captured audio and returns the
// transcript. An empty transcript is a silent cancellation, not an error.
// A runtime failure resets the listening state and propagates.
func (d *Dictation) Finish(ctx context.Context, filename string, audio []byte) (string, error) {
	d.mu.Lock()
	rec := d.rec
	d.listening = false
	d.mu.Unlock()

	text, err := rec.Transcribe(ctx, filename, audio)
	if err != nil {
		return "", err
	}
	return text, nil
}
