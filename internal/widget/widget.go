package widget

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"helpdesk-backend/internal/logx"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	// ErrBusy is returned while an earlier send is still waiting on the relay.
	ErrBusy = errors.New("a message is already in flight")
)

// Relay is anything that can turn a user message into a reply.
type Relay interface {
	Send(ctx context.Context, message string) (string, error)
}

// Widget drives one chat transcript against a relay. At most one request is
// in flight at a time; further sends are rejected until it resolves.
type Widget struct {
	transcript *Transcript
	relay      Relay

	mu       sync.Mutex
	inFlight bool
}

func New(relay Relay, transcript *Transcript) *Widget {
	if transcript == nil {
		transcript = NewTranscript()
	}
	return &Widget{
		transcript: transcript,
		relay:      relay,
	}
}

func (w *Widget) Transcript() *Transcript {
	return w.transcript
}

func (w *Widget) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// Pending is a submitted message whose reply has not been resolved yet.
type Pending struct {
	w           *Widget
	message     string
	placeholder uuid.UUID
	once        sync.Once
}

func (p *Pending) Message() string {
	return p.message
}

// Submit records the user's message and the placeholder bubble, and claims
// the in-flight slot. The relay is not contacted until Wait.
func (w *Widget) Submit(input string) (*Pending, error) {
	message := strings.TrimSpace(input)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	w.inFlight = true
	w.mu.Unlock()

	w.transcript.Append(SenderUser, message)
	ph := w.transcript.appendPlaceholder()

	return &Pending{w: w, message: message, placeholder: ph.ID}, nil
}

// Wait calls the relay and resolves the transcript: the placeholder is
// removed before the outcome is shown, then either the reply or an
// "Error: ..." bubble is appended. The returned error is the relay error,
// already rendered into the transcript. Calling Wait twice is a no-op.
func (p *Pending) Wait(ctx context.Context) error {
	var sendErr error
	p.once.Do(func() {
		defer p.w.release()

		reply, err := p.w.relay.Send(ctx, p.message)
		p.w.transcript.Remove(p.placeholder)

		if err != nil {
			logx.Log.Error().Err(err).Msg("Error sending message or processing response")
			p.w.transcript.Append(SenderBot, "Error: "+err.Error())
			sendErr = err
			return
		}
		p.w.transcript.Append(SenderBot, reply)
	})
	return sendErr
}

// Send is Submit followed by Wait.
func (w *Widget) Send(ctx context.Context, input string) error {
	p, err := w.Submit(input)
	if err != nil {
		return err
	}
	return p.Wait(ctx)
}

func (w *Widget) release() {
	w.mu.Lock()
	w.inFlight = false
	w.mu.Unlock()
}
