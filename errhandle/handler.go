// Package errhandle centralizes how terminal errors become user-visible
// signals. Call sites hand any error to a Handler and get back a
// deterministic {message, code} pair; display side effects go through a
// host-registered Notifier so the SDK stays free of UI coupling.
package errhandle

import (
	"github.com/lingnexus/platform-sdk/pkg/logger"
	"github.com/lingnexus/platform-sdk/transport"
)

// FallbackMessage is shown when an error carries no usable message.
const FallbackMessage = "operation failed, please try again later"

// Normalized is the uniform result of handling any error.
type Normalized struct {
	Message string
	Code    string
}

// Notifier receives user-facing error signals. Hosts plug in their own
// toast/notification implementation.
type Notifier interface {
	// Message shows a transient error message.
	Message(msg string)
	// Notify shows a titled notification for errors that deserve more
	// attention.
	Notify(title, msg string)
}

// NopNotifier discards all signals. It is the default.
type NopNotifier struct{}

func (NopNotifier) Message(string)        {}
func (NopNotifier) Notify(string, string) {}

// Option adjusts how a single error is handled.
type Option func(*settings)

type settings struct {
	showMessage      bool
	showNotification bool
	logToConsole     bool
}

// Silent suppresses the notifier message; the error is still logged and
// normalized. Used by optimistic mutation paths that surface the failure
// through store state instead.
func Silent() Option {
	return func(s *settings) { s.showMessage = false }
}

// WithNotification raises a titled notification in addition to the message.
func WithNotification() Option {
	return func(s *settings) { s.showNotification = true }
}

// NoLog disables logging for this error.
func NoLog() Option {
	return func(s *settings) { s.logToConsole = false }
}

// Handler routes errors to logs and notifiers.
type Handler struct {
	notifier Notifier
	log      *logger.Logger
}

// HandlerOption customizes a Handler.
type HandlerOption func(*Handler)

// WithNotifier sets the notification sink.
func WithNotifier(n Notifier) HandlerOption {
	return func(h *Handler) { h.notifier = n }
}

// WithLogger sets the handler logger.
func WithLogger(log *logger.Logger) HandlerOption {
	return func(h *Handler) { h.log = log }
}

// New creates a Handler.
func New(opts ...HandlerOption) *Handler {
	h := &Handler{
		notifier: NopNotifier{},
		log:      logger.NewDefault("errhandle"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle normalizes err and performs the configured side effects. It never
// panics and never returns an empty message.
func (h *Handler) Handle(err error, opts ...Option) Normalized {
	s := settings{showMessage: true, logToConsole: true}
	for _, opt := range opts {
		opt(&s)
	}

	n := normalize(err)

	if s.logToConsole {
		h.log.WithError(err).WithField("code", n.Code).Error(n.Message)
	}
	if s.showMessage {
		h.notifier.Message(n.Message)
	}
	if s.showNotification {
		h.notifier.Notify("operation failed", n.Message)
	}
	return n
}

// HandleAsync runs fn and converts a failure into a (zero, error) pair with
// the error already handled, so call sites can skip their own recovery.
func HandleAsync[T any](h *Handler, fn func() (T, error), opts ...Option) (T, error) {
	v, err := fn()
	if err != nil {
		h.Handle(err, opts...)
		var zero T
		return zero, err
	}
	return v, nil
}

// normalize extracts the best available message and code. Precedence:
// API error payload, then the error's own text, then the generic fallback.
func normalize(err error) Normalized {
	if err == nil {
		return Normalized{Message: FallbackMessage, Code: transport.CodeUnknown}
	}
	if apiErr, ok := transport.AsAPIError(err); ok {
		msg := apiErr.Message
		if msg == "" {
			msg = FallbackMessage
		}
		code := apiErr.Code
		if code == "" {
			code = transport.CodeUnknown
		}
		return Normalized{Message: msg, Code: code}
	}
	if msg := err.Error(); msg != "" {
		return Normalized{Message: msg, Code: transport.CodeUnknown}
	}
	return Normalized{Message: FallbackMessage, Code: transport.CodeUnknown}
}
