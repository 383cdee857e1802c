package widget

import (
	"sync"

	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// PlaceholderText marks an in-flight request in the transcript.
const PlaceholderText = "..."

// Entry is one bubble in the transcript.
type Entry struct {
	ID          uuid.UUID
	Sender      Sender
	Text        string
	Placeholder bool
}

// Transcript is the visible chat log. Appends and removals are safe for
// concurrent use; readers get snapshots.
type Transcript struct {
	mu       sync.RWMutex
	entries  []Entry
	onChange func()
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// OnChange registers a callback invoked after every mutation, outside the lock.
func (t *Transcript) OnChange(fn func()) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

func (t *Transcript) Append(sender Sender, text string) Entry {
	return t.append(Entry{ID: uuid.New(), Sender: sender, Text: text})
}

func (t *Transcript) appendPlaceholder() Entry {
	return t.append(Entry{ID: uuid.New(), Sender: SenderBot, Text: PlaceholderText, Placeholder: true})
}

func (t *Transcript) append(e Entry) Entry {
	t.mu.Lock()
	t.entries = append(t.entries, e)
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
	return e
}

func (t *Transcript) Contains(id uuid.UUID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.indexOf(id) >= 0
}

// Remove deletes the entry with the given id. It reports false and does
// nothing when the entry is already gone.
func (t *Transcript) Remove(id uuid.UUID) bool {
	t.mu.Lock()
	i := t.indexOf(id)
	if i < 0 {
		t.mu.Unlock()
		return false
	}
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

func (t *Transcript) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Transcript) Clear() {
	t.mu.Lock()
	t.entries = nil
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (t *Transcript) indexOf(id uuid.UUID) int {
	for i, e := range t.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
