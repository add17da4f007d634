// Package dispatch turns one user utterance into exactly one assistant reply.
//
// A dispatch moves through Idle → Sending → Idle. At most one dispatch is in
// flight per Controller; input that arrives while Sending is dropped.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"missionchat/internal/endpoint"
	"missionchat/internal/logging"
	"missionchat/internal/transcript"
)

// FallbackReply is used when the backend answers without a usable response field.
const FallbackReply = "I'm sorry, I couldn't process your request. Please try again."

// State is the dispatch state of a Controller.
type State int32

const (
	Idle State = iota
	Sending
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Endpoint is the part of the chat backend client the controller needs.
type Endpoint interface {
	Send(ctx context.Context, query string) (endpoint.Reply, error)
	BaseURL() string
}

// Option configures a Controller.
type Option func(*Controller)

// WithOnAccepted registers a hook called with the user message once a send is
// accepted, before the endpoint is contacted. Callers use it to clear their
// input buffer.
func WithOnAccepted(fn func(transcript.Message)) Option {
	return func(c *Controller) { c.onAccepted = fn }
}

// WithAudit routes dispatch lifecycle events to an audit trail.
func WithAudit(a *logging.AuditLogger) Option {
	return func(c *Controller) {
		if a != nil {
			c.audit = a
		}
	}
}

// Controller owns the pending state of a chat session.
type Controller struct {
	store      *transcript.Store
	ep         Endpoint
	state      atomic.Int32
	onAccepted func(transcript.Message)
	audit      *logging.AuditLogger
}

// New creates a controller appending to store and sending through ep.
func New(store *transcript.Store, ep Endpoint, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		ep:    ep,
		audit: logging.AuditWithSession(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current dispatch state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Pending reports whether a dispatch is in flight.
func (c *Controller) Pending() bool {
	return c.State() == Sending
}

// BaseURL returns the endpoint base URL shown in diagnostics.
func (c *Controller) BaseURL() string {
	return c.ep.BaseURL()
}

// SendUserMessage dispatches rawText and blocks until the reply is appended.
// It returns false, doing nothing, when the input is blank or a dispatch is
// already in flight.
func (c *Controller) SendUserMessage(ctx context.Context, rawText string) bool {
	d, ok := c.Begin(rawText)
	if !ok {
		return false
	}
	d.Run(ctx)
	return true
}

// Begin accepts rawText, appends the user message and moves to Sending.
// Every accepted Dispatch must be Run, or the controller stays Sending.
func (c *Controller) Begin(rawText string) (*Dispatch, bool) {
	log := logging.Get(logging.CategoryDispatch)

	text := strings.TrimSpace(rawText)
	if text == "" {
		c.audit.DispatchRejected("empty input")
		return nil, false
	}
	if !c.state.CompareAndSwap(int32(Idle), int32(Sending)) {
		log.Debug("input dropped: dispatch already pending")
		c.audit.DispatchRejected("dispatch pending")
		return nil, false
	}

	user := transcript.NewUserMessage(text)
	if err := c.store.Append(user); err != nil {
		c.release()
		log.Error("failed to append user message: %v", err)
		return nil, false
	}
	if c.onAccepted != nil {
		c.onAccepted(user)
	}

	logging.Dispatch("dispatch %s accepted (%d chars)", user.ID, len(text))
	c.audit.DispatchAccepted(user.ID, len(text))

	return &Dispatch{
		c:       c,
		User:    user,
		query:   rawText,
		started: time.Now(),
	}, true
}

func (c *Controller) release() {
	c.state.Store(int32(Idle))
}

// Dispatch is one accepted user message awaiting its reply.
type Dispatch struct {
	User transcript.Message

	c       *Controller
	query   string
	started time.Time
	once    sync.Once
	reply   transcript.Message
}

// Run contacts the endpoint, appends exactly one assistant message and returns
// the controller to Idle. Later calls return the same message without sending.
func (d *Dispatch) Run(ctx context.Context) transcript.Message {
	d.once.Do(func() {
		d.reply = d.c.complete(ctx, d)
	})
	return d.reply
}

func (c *Controller) complete(ctx context.Context, d *Dispatch) transcript.Message {
	defer c.release()
	log := logging.Get(logging.CategoryDispatch).With("dispatch", d.User.ID)

	text, err := c.call(ctx, d.query)
	if err != nil {
		log.Warn("send failed: %v", err)
		text = Diagnostic(c.ep.BaseURL(), err)
	}

	reply := transcript.NewAssistantMessage(text)
	if appendErr := c.store.Append(reply); appendErr != nil {
		log.Error("failed to append reply: %v", appendErr)
	}

	elapsed := time.Since(d.started)
	log.Info("finished in %s", elapsed)
	c.audit.DispatchFinished(d.User.ID, elapsed, err)
	return reply
}

// call invokes the endpoint, folding a missing response into FallbackReply
// and a panic into an error.
func (c *Controller) call(ctx context.Context, query string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chat endpoint panicked: %v", r)
		}
	}()

	reply, err := c.ep.Send(ctx, query)
	if err != nil {
		return "", err
	}
	if !reply.HasResponse() {
		return FallbackReply, nil
	}
	return reply.Text(), nil
}
