package whatsapp

import (
	"fmt"
	"time"

	"github.com/halilibrahimsaltas/W2T-Relay/internal/browser"
)

const (
	channelListTimeout  = 15 * time.Second
	conversationTimeout = 3 * time.Second
)

// fallbackChannelName is used when a channel row's title cannot be read.
const fallbackChannelName = "Bilinmeyen Kanal"

// channelEntry is one row of the channel list as seen on a single
// resolution pass. The element handle is not reused across passes.
type channelEntry struct {
	name   string
	unread bool
}

// openChannelsTab clicks through to the channels view and waits for the
// channel list to render.
func (m *Monitor) openChannelsTab() error {
	m.closePopups()

	tab, err := m.page().WaitElement(selChannelsTab, channelListTimeout)
	if err != nil {
		return fmt.Errorf("channels tab not available: %w", err)
	}
	if err := tab.Click(); err != nil {
		return fmt.Errorf("failed to open channels tab: %w", err)
	}
	if _, err := m.page().WaitElement(selChannelList, channelListTimeout); err != nil {
		return fmt.Errorf("channel list did not render: %w", err)
	}
	m.log.Info("Channels tab opened")
	return nil
}

// closePopups dismisses the "Devam" dialog WhatsApp shows after login.
// Best effort: a missing popup is not an error.
func (m *Monitor) closePopups() {
	buttons, err := m.page().Elements(selDialogButton)
	if err != nil {
		return
	}
	for _, btn := range buttons {
		text, err := btn.Text()
		if err != nil {
			continue
		}
		if text == "Devam" {
			if err := btn.Click(); err == nil {
				m.log.Info("Dismissed post-login popup")
			}
			return
		}
	}
}

// listChannels enumerates the channel list, resolving fresh handles.
// Rows whose title cannot be read still appear, under a fallback name.
func (m *Monitor) listChannels() ([]channelEntry, error) {
	rows, err := m.page().Elements(selChannelItem)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}

	entries := make([]channelEntry, 0, len(rows))
	for _, row := range rows {
		entry := channelEntry{name: channelName(row)}
		entry.unread, _ = row.Has(selUnreadBadge)
		entries = append(entries, entry)
	}
	return entries, nil
}

func channelName(row browser.Element) string {
	title, err := row.Element(selChannelTitle)
	if err != nil {
		return fallbackChannelName
	}
	name, err := title.Attribute("title")
	if err != nil || name == "" {
		return fallbackChannelName
	}
	return name
}

// openChannel focuses the named channel. The row is re-resolved from the
// current list on every attempt because handles go stale between ticks.
func (m *Monitor) openChannel(name string) error {
	_, err := browser.Retry(1+m.maxRowRetries, func() (struct{}, error) {
		rows, err := m.page().Elements(selChannelItem)
		if err != nil {
			return struct{}{}, err
		}
		for _, row := range rows {
			if channelName(row) != name {
				continue
			}
			if err := row.ScrollIntoView(); err != nil {
				return struct{}{}, err
			}
			if err := row.Click(); err != nil {
				return struct{}{}, err
			}
			if _, err := m.page().WaitElement(selConversation, conversationTimeout); err != nil {
				return struct{}{}, err
			}
			return struct{}{}, nil
		}
		return struct{}{}, fmt.Errorf("channel %q: %w", name, browser.ErrNotFound)
	})
	return err
}
