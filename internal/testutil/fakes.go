package testutil

import (
	"context"
	"sync"

	"activity_hub/internal/messaging"
	"activity_hub/internal/otp"
)

// Publisher records registration events.
type Publisher struct {
	mu sync.Mutex

	Events       []messaging.RegistrationEvent
	PublishError error
	Closed       bool
}

var _ messaging.Publisher = (*Publisher)(nil)

func (p *Publisher) PublishRegistration(_ context.Context, evt messaging.RegistrationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.PublishError != nil {
		return p.PublishError
	}
	p.Events = append(p.Events, evt)
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

// Published returns a copy of the recorded events.
func (p *Publisher) Published() []messaging.RegistrationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]messaging.RegistrationEvent(nil), p.Events...)
}

// Sender captures the last code sent to each phone.
type Sender struct {
	mu    sync.Mutex
	codes map[string]string

	SendError error
}

var _ otp.Sender = (*Sender)(nil)

func NewSender() *Sender {
	return &Sender{codes: make(map[string]string)}
}

func (s *Sender) Send(_ context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = code
	return s.SendError
}

func (s *Sender) LastCode(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[phone]
}
