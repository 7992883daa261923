package whatsapp

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/halilibrahimsaltas/W2T-Relay/internal/browser"
	"github.com/halilibrahimsaltas/W2T-Relay/internal/domain"
)

// State is the monitor's lifecycle phase. Transitions happen only inside
// Run, never from the outside.
type State int

const (
	StateDisconnected State = iota
	StateAwaitingSession
	StateInitialScan
	StatePolling
)

const (
	// popupSettleDelay gives the user time to dismiss post-login popups,
	// matching the manual step after scanning the QR code.
	popupSettleDelay = 10 * time.Second

	// defaultGraceWindow is how long the monitor keeps watching for
	// newly-arrived unread indicators after a processed burst, sampled
	// every defaultGraceSample.
	defaultGraceWindow = 10 * time.Second
	defaultGraceSample = time.Second
)

// LinkHandler processes one extracted link end to end. Implementations must
// not panic; a link's failure must never abort its siblings.
type LinkHandler interface {
	HandleLink(ctx context.Context, link, sender, rawText string)
}

// Monitor drives the polling loop over the channel list.
type Monitor struct {
	session browser.Session
	handler LinkHandler
	log     logrus.FieldLogger

	sessionTimeout time.Duration
	pollInterval   time.Duration
	messageWindow  int
	maxRowRetries  int
	idleChannel    string
	graceWindow    time.Duration
	graceSample    time.Duration

	state State
	// idleParked is true once the active channel has been switched to the
	// idle channel for the current idle streak, so consecutive empty ticks
	// do not switch again.
	idleParked bool
}

// Options configures a Monitor.
type Options struct {
	SessionTimeout time.Duration
	PollInterval   time.Duration
	// MessageWindow is how many of the most recent rows are classified
	// per channel visit.
	MessageWindow int
	MaxRowRetries int
	// IdleChannel is focused when no unread channels remain. Empty disables
	// parking.
	IdleChannel string
	// GraceWindow and GraceSample control how long a processed burst is
	// watched for stragglers.
	GraceWindow time.Duration
	GraceSample time.Duration
}

// NewMonitor creates a channel monitor bound to a browser session.
func NewMonitor(session browser.Session, handler LinkHandler, opts Options, logger logrus.FieldLogger) *Monitor {
	if opts.SessionTimeout <= 0 {
		opts.SessionTimeout = 60 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if opts.MessageWindow <= 0 {
		opts.MessageWindow = 3
	}
	if opts.MaxRowRetries <= 0 {
		opts.MaxRowRetries = 2
	}
	if opts.GraceWindow <= 0 {
		opts.GraceWindow = defaultGraceWindow
	}
	if opts.GraceSample <= 0 {
		opts.GraceSample = defaultGraceSample
	}
	return &Monitor{
		session:        session,
		handler:        handler,
		log:            logger.WithField("component", "monitor"),
		sessionTimeout: opts.SessionTimeout,
		pollInterval:   opts.PollInterval,
		messageWindow:  opts.MessageWindow,
		maxRowRetries:  opts.MaxRowRetries,
		idleChannel:    opts.IdleChannel,
		graceWindow:    opts.GraceWindow,
		graceSample:    opts.GraceSample,
		state:          StateDisconnected,
	}
}

func (m *Monitor) page() browser.Page {
	return m.session.Page()
}

// State returns the monitor's current lifecycle phase.
func (m *Monitor) State() State {
	return m.state
}

// Run blocks until ctx is cancelled or session startup fails. A failed
// session landmark wait is fatal: the initial login is a human-in-the-loop
// step and silently retrying it would spin forever. Everything after that
// point is isolated per tick.
func (m *Monitor) Run(ctx context.Context) error {
	m.state = StateAwaitingSession
	if err := m.awaitSession(); err != nil {
		m.state = StateDisconnected
		return err
	}
	m.log.Info("WhatsApp Web session ready")

	// Leave time for the user to clear any post-login popups.
	if !sleepCtx(ctx, popupSettleDelay) {
		return ctx.Err()
	}
	if err := m.openChannelsTab(); err != nil {
		m.log.WithError(err).Error("Failed to open channels tab, will retry per tick")
	}

	m.state = StateInitialScan
	m.initialFullScan(ctx)

	m.state = StatePolling
	for {
		select {
		case <-ctx.Done():
			m.state = StateDisconnected
			return ctx.Err()
		default:
		}

		if err := m.tick(ctx); err != nil {
			m.log.WithError(err).Error("Poll tick failed")
		}
		if !sleepCtx(ctx, m.pollInterval) {
			m.state = StateDisconnected
			return ctx.Err()
		}
	}
}

// awaitSession waits for the logged-in landmark, bounded by the session
// timeout.
func (m *Monitor) awaitSession() error {
	if _, err := m.page().WaitElement(selChannelsTab, m.sessionTimeout); err != nil {
		return fmt.Errorf("whatsapp session not ready within %s: %w", m.sessionTimeout, err)
	}
	return nil
}

// initialFullScan visits every listed channel once, regardless of unread
// state. Executed exactly once per process lifetime.
func (m *Monitor) initialFullScan(ctx context.Context) {
	channels, err := m.listChannels()
	if err != nil {
		m.log.WithError(err).Error("Initial scan could not enumerate channels")
		return
	}
	m.log.WithField("channels", len(channels)).Info("Initial full scan starting")

	for _, ch := range channels {
		if ctx.Err() != nil {
			return
		}
		m.processChannel(ctx, ch.name)
	}
	m.log.Info("Initial full scan complete")
}

// tick runs one poll: enumerate channels, process the unread ones, then hold
// a grace window for stragglers. With nothing unread, the active channel is
// parked on the idle channel exactly once per idle streak.
func (m *Monitor) tick(ctx context.Context) error {
	unread, err := m.unreadChannels()
	if err != nil {
		// The channel list can disappear when the UI navigates away; try to
		// get back before giving up on this tick.
		if openErr := m.openChannelsTab(); openErr != nil {
			return err
		}
		if unread, err = m.unreadChannels(); err != nil {
			return err
		}
	}

	if len(unread) == 0 {
		m.parkIdle()
		return nil
	}
	m.idleParked = false

	m.processUnread(ctx, unread)
	m.holdForBurst(ctx)
	return nil
}

func (m *Monitor) unreadChannels() ([]string, error) {
	channels, err := m.listChannels()
	if err != nil {
		return nil, err
	}
	var unread []string
	for _, ch := range channels {
		if ch.unread {
			unread = append(unread, ch.name)
		}
	}
	return unread, nil
}

func (m *Monitor) processUnread(ctx context.Context, names []string) {
	for _, name := range names {
		if ctx.Err() != nil {
			return
		}
		m.processChannel(ctx, name)
	}
}

// holdForBurst keeps watching for new unread indicators after a processed
// batch. Each fresh arrival is processed and extends the window.
func (m *Monitor) holdForBurst(ctx context.Context) {
	deadline := time.Now().Add(m.graceWindow)
	for time.Now().Before(deadline) {
		if !sleepCtx(ctx, m.graceSample) {
			return
		}
		unread, err := m.unreadChannels()
		if err != nil {
			m.log.WithError(err).Warn("Grace window enumeration failed")
			return
		}
		if len(unread) > 0 {
			m.processUnread(ctx, unread)
			deadline = time.Now().Add(m.graceWindow)
		}
	}
}

// parkIdle switches focus to the idle channel so no arbitrary channel is
// left marked as read by a lingering focus.
func (m *Monitor) parkIdle() {
	if m.idleParked || m.idleChannel == "" {
		m.idleParked = true
		return
	}
	if err := m.openChannel(m.idleChannel); err != nil {
		m.log.WithError(err).WithField("channel", m.idleChannel).Warn("Failed to park on idle channel")
		return
	}
	m.log.WithField("channel", m.idleChannel).Debug("Parked on idle channel")
	m.idleParked = true
}

// processChannel opens a channel and runs the classifier over its most
// recent rows, handing qualifying links to the pipeline. Errors are
// contained to this channel.
func (m *Monitor) processChannel(ctx context.Context, name string) {
	log := m.log.WithField("channel", name)

	if err := m.openChannel(name); err != nil {
		log.WithError(err).Error("Failed to open channel")
		return
	}
	log.Info("Processing channel")

	messages := m.readRecentMessages()
	for _, msg := range messages {
		if ctx.Err() != nil {
			return
		}
		if msg.Type != domain.MessageText || msg.Text == "" {
			continue
		}
		sender := msg.Sender
		if sender == "" {
			sender = name
		}
		links := ExtractLinks(msg.Text)
		if len(links) == 0 {
			continue
		}
		log.WithField("links", len(links)).Info("Links extracted from message")
		for _, link := range links {
			m.handler.HandleLink(ctx, link, sender, msg.Text)
		}
	}
}

// readRecentMessages reads the last messageWindow rows of the open channel.
// Each row is retried individually on stale references; a row that keeps
// failing is skipped without giving up on the channel.
func (m *Monitor) readRecentMessages() []domain.RawMessage {
	rows, err := m.page().Elements(selMessageRow)
	if err != nil {
		m.log.WithError(err).Error("Failed to list message rows")
		return nil
	}

	start := len(rows) - m.messageWindow
	if start < 0 {
		start = 0
	}

	var messages []domain.RawMessage
	for i := start; i < len(rows); i++ {
		idx := i
		msg, err := browser.Retry(1+m.maxRowRetries, func() (domain.RawMessage, error) {
			// Re-resolve the row list on every attempt; the handle that went
			// stale is useless, its position is not.
			current, err := m.page().Elements(selMessageRow)
			if err != nil {
				return domain.RawMessage{}, err
			}
			if idx >= len(current) {
				return domain.RawMessage{}, fmt.Errorf("row %d: %w", idx, browser.ErrNotFound)
			}
			return readRow(current[idx])
		})
		if err != nil {
			m.log.WithError(err).WithField("row", idx).Warn("Skipping unreadable message row")
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

// sleepCtx sleeps for d unless ctx is cancelled first. Reports whether the
// full duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
