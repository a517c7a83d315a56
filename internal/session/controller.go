package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ai-docchat/internal/conversation"
	"ai-docchat/internal/pkg/logger"
	"ai-docchat/pkg/gateway"
)

// State is the lifecycle position of the session.
type State string

const (
	StateNoDocument State = "NO_DOCUMENT"
	StateUploading  State = "UPLOADING"
	StateReady      State = "READY"
	StateAsking     State = "ASKING"
)

const (
	UploadFallbackMessage = "Error uploading file. Please try again."
	AskFallbackMessage    = "Error processing your question. Please try again."

	DefaultAskTimeout = 60 * time.Second

	logModule = "SESSION"
)

var ErrGatewayPanic = errors.New("session: gateway panicked")

// Snapshot is a read-only projection of the controller for rendering.
type Snapshot struct {
	State        State
	Loading      bool
	FileUploaded bool
	Messages     []conversation.Message
	Pending      string
}

// Controller owns the session state and the conversation log, and is the only
// issuer of gateway calls. At most one call is outstanding at a time.
type Controller struct {
	mu           sync.Mutex
	state        State
	fileUploaded bool
	pending      string

	gateway    gateway.Gateway
	log        *conversation.Log
	logger     logger.ILogger
	notifier   Notifier
	askTimeout time.Duration
}

type Option func(*Controller)

func WithLogger(l logger.ILogger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithAskTimeout bounds every Ask call. Zero or negative keeps the default.
func WithAskTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.askTimeout = d
		}
	}
}

func NewController(gw gateway.Gateway, opts ...Option) *Controller {
	c := &Controller{
		state:      StateNoDocument,
		gateway:    gw,
		log:        conversation.NewLog(),
		logger:     logger.NewNopLogger(),
		notifier:   nopNotifier{},
		askTimeout: DefaultAskTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	return c
}

// SubmitUpload uploads doc and reseeds the log with the outcome.
// It reports whether the upload was started; a nil doc or a busy session is ignored.
func (c *Controller) SubmitUpload(ctx context.Context, doc *gateway.Document) bool {
	if doc == nil {
		return false
	}

	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		c.logger.Debug(logModule, "Upload dropped, session busy", map[string]interface{}{"file": doc.Name})
		return false
	}
	events := []Event{c.transitionLocked(StateUploading)}
	c.mu.Unlock()
	c.emit(events)

	c.logger.Info(logModule, "Uploading document", map[string]interface{}{
		"file": doc.Name,
		"size": doc.Size,
	})

	started := time.Now()
	_, err := call(func() (*gateway.UploadAck, error) {
		return c.gateway.Upload(ctx, doc)
	})

	var reply conversation.Message
	if err != nil {
		reply = conversation.AssistantMessage(uploadFailureText(err))
		c.logger.Error(logModule, "Upload failed", map[string]interface{}{
			"file":     doc.Name,
			"error":    err.Error(),
			"duration": time.Since(started).String(),
		})
	} else {
		reply = conversation.AssistantMessage(uploadSuccessText(doc.Name))
		c.logger.Info(logModule, "Upload succeeded", map[string]interface{}{
			"file":     doc.Name,
			"duration": time.Since(started).String(),
		})
	}

	c.mu.Lock()
	c.fileUploaded = err == nil
	// Assistant messages always validate.
	_ = c.log.ReplaceAll([]conversation.Message{reply})
	events = []Event{c.eventLocked(EventLogReplaced, &reply)}
	if err != nil {
		events = append(events, c.transitionLocked(StateNoDocument))
	} else {
		events = append(events, c.transitionLocked(StateReady))
	}
	c.mu.Unlock()
	c.emit(events)

	return true
}

// SubmitQuestion asks text about the uploaded document.
// Blank text, a busy session or a session without a document makes it a no-op.
func (c *Controller) SubmitQuestion(ctx context.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	c.mu.Lock()
	if c.busyLocked() || !c.fileUploaded {
		reason := "busy"
		if !c.fileUploaded {
			reason = "no document"
		}
		c.mu.Unlock()
		c.logger.Debug(logModule, "Question dropped", map[string]interface{}{"reason": reason})
		return false
	}
	question := conversation.UserMessage(text)
	_ = c.log.Append(question)
	c.pending = ""
	events := []Event{
		c.eventLocked(EventMessageAppended, &question),
		c.transitionLocked(StateAsking),
	}
	c.mu.Unlock()
	c.emit(events)

	c.logger.Info(logModule, "Asking question", map[string]interface{}{"length": len(text)})

	started := time.Now()
	askCtx, cancel := context.WithTimeout(ctx, c.askTimeout)
	answer, err := call(func() (*gateway.Answer, error) {
		return c.gateway.Ask(askCtx, text)
	})
	cancel()

	var reply conversation.Message
	if err != nil {
		reply = conversation.AssistantMessage(AskFallbackMessage)
		c.logger.Error(logModule, "Question failed", map[string]interface{}{
			"error":    err.Error(),
			"duration": time.Since(started).String(),
		})
	} else {
		reply = conversation.AssistantMessage(answer.Text)
		c.logger.Info(logModule, "Question answered", map[string]interface{}{
			"duration":      time.Since(started).String(),
			"answer_length": len(answer.Text),
		})
	}

	c.mu.Lock()
	_ = c.log.Append(reply)
	events = []Event{
		c.eventLocked(EventMessageAppended, &reply),
		c.transitionLocked(StateReady),
		c.eventLocked(EventScrollToLatest, nil),
	}
	c.mu.Unlock()
	c.emit(events)

	return true
}

// SetPending stores the text currently typed by the user.
func (c *Controller) SetPending(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = text
}

func (c *Controller) Pending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// SubmitPending submits the stored pending text as a question.
func (c *Controller) SubmitPending(ctx context.Context) bool {
	return c.SubmitQuestion(ctx, c.Pending())
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		State:        c.state,
		Loading:      c.busyLocked(),
		FileUploaded: c.fileUploaded,
		Messages:     c.log.Messages(),
		Pending:      c.pending,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busyLocked()
}

func (c *Controller) FileUploaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fileUploaded
}

func (c *Controller) Messages() []conversation.Message {
	return c.log.Messages()
}

func (c *Controller) busyLocked() bool {
	return c.state == StateUploading || c.state == StateAsking
}

func (c *Controller) transitionLocked(next State) Event {
	prev := c.state
	c.state = next
	e := c.eventLocked(EventStateChanged, nil)
	e.Previous = prev
	return e
}

func (c *Controller) eventLocked(t EventType, msg *conversation.Message) Event {
	return Event{
		Type:    t,
		State:   c.state,
		Message: msg,
		LogLen:  c.log.Len(),
		At:      time.Now(),
	}
}

// emit runs outside the lock so notifiers may call back into the controller.
func (c *Controller) emit(events []Event) {
	for _, e := range events {
		c.notifier.Notify(e)
	}
}

// call runs a gateway operation, turning a panic into an error so the session
// always settles.
func call[T any](fn func() (T, error)) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrGatewayPanic, r)
		}
	}()
	return fn()
}

func uploadSuccessText(name string) string {
	return fmt.Sprintf("File \"%s\" uploaded successfully! You can now ask questions about it.", name)
}

// uploadFailureText prefers the backend message, then the transport description.
func uploadFailureText(err error) string {
	var gwErr *gateway.Error
	if !errors.As(err, &gwErr) {
		return UploadFallbackMessage
	}
	if gwErr.Message != "" {
		return "Error uploading file: " + gwErr.Message
	}
	if desc := gwErr.Description(); desc != "" {
		return "Error uploading file: " + desc
	}
	return UploadFallbackMessage
}
