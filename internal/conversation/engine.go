package conversation

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/consultabot/internal/appointments"
	"github.com/wolfman30/consultabot/internal/audit"
	"github.com/wolfman30/consultabot/internal/observability/metrics"
	"github.com/wolfman30/consultabot/internal/scheduling"
	"github.com/wolfman30/consultabot/internal/session"
	"github.com/wolfman30/consultabot/internal/validation"
	"github.com/wolfman30/consultabot/pkg/logging"
)

// Prompter is the line-oriented channel the conversation talks through.
type Prompter interface {
	// Ask shows prompt and blocks until the user answers.
	Ask(ctx context.Context, prompt string) (string, error)
	// Say shows a message that needs no answer.
	Say(ctx context.Context, message string) error
}

// AuditLogger receives one event per conversation pass.
type AuditLogger interface {
	LogEvent(ctx context.Context, event audit.Event) error
}

// State is a step of the booking conversation.
type State string

const (
	StateStart             State = "start"
	StateIdentityCheck     State = "identity_check"
	StateCollectName       State = "collect_name"
	StateCollectNationalID State = "collect_national_id"
	StateSelectDate        State = "select_date"
	StateConfirm           State = "confirm"
	StateBooked            State = "booked"
	StateFailed            State = "failed"
	StateRestart           State = "restart"
)

// Outcome describes how a Run ended.
type Outcome struct {
	State  State
	Record *appointments.Record
	// Attempts counts passes through the flow, including restarts.
	Attempts int
	// Fault is the ledger error when State is StateFailed.
	Fault error
}

// Engine drives the booking conversation for one user at a time.
type Engine struct {
	prompter     Prompter
	sessions     session.Registry
	ledger       appointments.Ledger
	now          func() time.Time
	loc          *time.Location
	proposalDays int
	tokens       ConfirmationTokens
	messages     Messages
	logger       *logging.Logger
	metrics      *metrics.BookingMetrics
	audit        AuditLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the source of "now" used for the future-date check.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the zone requested dates are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithProposalDays sets how many consecutive dates are offered.
func WithProposalDays(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.proposalDays = n
		}
	}
}

// WithConfirmationTokens sets the yes/no words.
func WithConfirmationTokens(tokens ConfirmationTokens) Option {
	return func(e *Engine) {
		if strings.TrimSpace(tokens.Yes) != "" && strings.TrimSpace(tokens.No) != "" {
			e.tokens = tokens
		}
	}
}

// WithMessages replaces the message catalogue.
func WithMessages(m Messages) Option {
	return func(e *Engine) {
		e.messages = m
	}
}

// WithLogger sets the structured logger. Without it the engine logs JSON to
// stderr, keeping stdout free for the conversation.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics enables Prometheus counters.
func WithMetrics(m *metrics.BookingMetrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithAudit records each pass outcome in the audit trail.
func WithAudit(a AuditLogger) Option {
	return func(e *Engine) {
		e.audit = a
	}
}

// NewEngine builds an engine around the channel, session registry and ledger.
func NewEngine(prompter Prompter, sessions session.Registry, ledger appointments.Ledger, opts ...Option) *Engine {
	if prompter == nil {
		panic("conversation: prompter required")
	}
	if sessions == nil {
		panic("conversation: session registry required")
	}
	if ledger == nil {
		panic("conversation: ledger required")
	}
	e := &Engine{
		prompter:     prompter,
		sessions:     sessions,
		ledger:       ledger,
		now:          time.Now,
		loc:          time.Local,
		proposalDays: scheduling.DefaultProposalDays,
		tokens:       DefaultConfirmationTokens(),
		messages:     DefaultMessages(),
		logger:       logging.NewWithWriter("info", os.Stderr),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// VerifyPhone asks for a phone number until one passes validation.
func (e *Engine) VerifyPhone(ctx context.Context) (string, error) {
	return askUntil(ctx, e, e.messages.AskPhone, func(answer string) (string, *Rejection) {
		phone := strings.TrimSpace(answer)
		if !validation.ValidatePhone(phone) {
			return "", reject(RejectPhoneFormat, answer)
		}
		return phone, nil
	})
}

// Run holds the conversation for userID until an appointment is booked or
// the ledger refuses it. Rejecting the details restarts the flow for the same
// user; fields collected earlier are not asked again. A non-nil error means
// the channel failed or ctx was cancelled.
func (e *Engine) Run(ctx context.Context, userID string) (*Outcome, error) {
	for attempt := 1; ; attempt++ {
		rec, err := e.collect(ctx, userID)
		if err != nil {
			return nil, err
		}

		e.enter(userID, StateConfirm)
		answer, err := e.confirm(ctx, rec)
		if err != nil {
			return nil, err
		}
		if answer == ConfirmationNo {
			e.enter(userID, StateRestart)
			e.metrics.ObserveOutcome(string(StateRestart))
			e.logAudit(ctx, audit.Event{EventType: audit.EventRestarted, UserID: userID, AppointmentID: rec.ID})
			continue
		}

		if err := e.ledger.Append(ctx, rec); err != nil {
			e.enter(userID, StateFailed)
			e.logger.Error("booking failed", "user_id", userID, "attempt", attempt, "error", err)
			e.metrics.ObserveOutcome(string(StateFailed))
			e.logAudit(ctx, audit.Event{EventType: audit.EventAppendFailed, UserID: userID, AppointmentID: rec.ID, Detail: err.Error()})
			if sayErr := e.say(ctx, e.messages.AppendFailed); sayErr != nil {
				return nil, sayErr
			}
			return &Outcome{State: StateFailed, Record: rec, Attempts: attempt, Fault: err}, nil
		}

		e.enter(userID, StateBooked)
		e.logger.Info("booking completed", "user_id", userID, "appointment_id", rec.ID, "attempt", attempt)
		e.metrics.ObserveOutcome(string(StateBooked))
		e.logAudit(ctx, audit.Event{EventType: audit.EventBooked, UserID: userID, AppointmentID: rec.ID})
		if err := e.say(ctx, e.messages.Booked); err != nil {
			return nil, err
		}
		return &Outcome{State: StateBooked, Record: rec, Attempts: attempt}, nil
	}
}

// collect runs Start through SelectDate and returns the pending record.
func (e *Engine) collect(ctx context.Context, userID string) (*appointments.Record, error) {
	e.enter(userID, StateStart)
	sess, err := e.sessions.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := e.say(ctx, e.messages.Welcome); err != nil {
		return nil, err
	}

	e.enter(userID, StateIdentityCheck)
	name := sess.Name
	if !sess.HasName() {
		e.enter(userID, StateCollectName)
		name, err = askUntil(ctx, e, e.messages.AskName, func(answer string) (string, *Rejection) {
			trimmed := strings.TrimSpace(answer)
			if trimmed == "" {
				return "", reject(RejectEmptyName, answer)
			}
			return trimmed, nil
		})
		if err != nil {
			return nil, err
		}
		if err := e.sessions.SetField(ctx, userID, session.FieldName, name); err != nil {
			return nil, err
		}
	}

	nationalID := sess.NationalID
	if !sess.HasNationalID() {
		e.enter(userID, StateCollectNationalID)
		nationalID, err = askUntil(ctx, e, e.messages.AskNationalID, func(answer string) (string, *Rejection) {
			id := strings.TrimSpace(answer)
			if !validation.ValidateNationalID(id) {
				return "", reject(RejectNationalIDFormat, answer)
			}
			return id, nil
		})
		if err != nil {
			return nil, err
		}
		if err := e.sessions.SetField(ctx, userID, session.FieldNationalID, nationalID); err != nil {
			return nil, err
		}
	}

	e.enter(userID, StateSelectDate)
	selected, err := e.selectDate(ctx, name)
	if err != nil {
		return nil, err
	}
	return appointments.NewRecord(userID, name, nationalID, selected, e.now()), nil
}

func (e *Engine) selectDate(ctx context.Context, name string) (time.Time, error) {
	if err := e.say(ctx, fmt.Sprintf(e.messages.GreetingFmt, name)); err != nil {
		return time.Time{}, err
	}

	requested, err := askUntil(ctx, e, e.messages.AskDate, func(answer string) (time.Time, *Rejection) {
		d, err := scheduling.ParseDate(answer, e.loc)
		if err != nil {
			return time.Time{}, reject(RejectDateFormat, answer)
		}
		if !scheduling.IsFuture(d, e.now()) {
			return time.Time{}, reject(RejectPastDate, answer)
		}
		return d, nil
	})
	if err != nil {
		return time.Time{}, err
	}

	dates := scheduling.ProposeDates(requested, e.proposalDays)
	if err := e.say(ctx, e.messages.AvailableDates); err != nil {
		return time.Time{}, err
	}
	for i, d := range dates {
		if err := e.say(ctx, fmt.Sprintf(e.messages.DateOptionFmt, i+1, scheduling.FormatDate(d))); err != nil {
			return time.Time{}, err
		}
	}

	idx, err := askUntil(ctx, e, e.messages.AskChoice, func(answer string) (int, *Rejection) {
		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err != nil || n < 1 || n > len(dates) {
			return 0, reject(RejectChoice, answer)
		}
		return n - 1, nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return dates[idx], nil
}

// confirm shows the four captured fields and waits for a recognized token.
func (e *Engine) confirm(ctx context.Context, rec *appointments.Record) (Confirmation, error) {
	lines := []string{
		e.messages.ConfirmHeader,
		fmt.Sprintf(e.messages.ConfirmNameFmt, rec.Name),
		fmt.Sprintf(e.messages.ConfirmNationalIDFmt, rec.NationalID),
		fmt.Sprintf(e.messages.ConfirmPhoneFmt, rec.UserID),
		fmt.Sprintf(e.messages.ConfirmDateFmt, scheduling.FormatDate(rec.ScheduledFor)),
	}
	for _, line := range lines {
		if err := e.say(ctx, line); err != nil {
			return ConfirmationNo, err
		}
	}

	prompt := fmt.Sprintf(e.messages.AskConfirmationFmt, e.tokens.Yes, e.tokens.No)
	return askUntil(ctx, e, prompt, func(answer string) (Confirmation, *Rejection) {
		c, ok := ParseConfirmation(answer, e.tokens)
		if !ok {
			return ConfirmationNo, reject(RejectConfirmationFormat, answer)
		}
		return c, nil
	})
}

// askUntil repeats prompt until parse accepts the answer. Rejections are
// reported to the user; only channel failures end the loop early.
func askUntil[T any](ctx context.Context, e *Engine, prompt string, parse func(string) (T, *Rejection)) (T, error) {
	var zero T
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		answer, err := e.prompter.Ask(ctx, prompt)
		if err != nil {
			return zero, fmt.Errorf("conversation: read answer: %w", err)
		}
		value, rej := parse(answer)
		if rej == nil {
			return value, nil
		}
		e.metrics.ObserveRejection(string(rej.Kind))
		e.logger.Debug("answer rejected", "kind", rej.Kind)
		if err := e.say(ctx, e.rejectionMessage(rej)); err != nil {
			return zero, err
		}
	}
}

func (e *Engine) say(ctx context.Context, message string) error {
	if message == "" {
		return nil
	}
	if err := e.prompter.Say(ctx, message); err != nil {
		return fmt.Errorf("conversation: write message: %w", err)
	}
	return nil
}

func (e *Engine) enter(userID string, state State) {
	e.logger.Debug("conversation state", "user_id", userID, "state", state)
}

func (e *Engine) logAudit(ctx context.Context, event audit.Event) {
	if e.audit == nil {
		return
	}
	if err := e.audit.LogEvent(ctx, event); err != nil {
		e.logger.Warn("audit event not recorded", "event_type", event.EventType, "user_id", event.UserID, "error", err)
	}
}
