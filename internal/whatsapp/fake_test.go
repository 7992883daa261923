package whatsapp

import (
	"fmt"
	"time"

	"github.com/halilibrahimsaltas/W2T-Relay/internal/browser"
)

// fakeElement is a scriptable DOM element for tests.
type fakeElement struct {
	text     string
	attrs    map[string]string
	children map[string][]browser.Element
	clicks   int
	onClick  func()

	// stale makes the next n lookups fail with ErrStale, simulating a
	// handle invalidated by a re-render.
	stale int
}

func (e *fakeElement) goneStale() bool {
	if e.stale > 0 {
		e.stale--
		return true
	}
	return false
}

func (e *fakeElement) Text() (string, error) { return e.text, nil }

func (e *fakeElement) Attribute(name string) (string, error) {
	return e.attrs[name], nil
}

func (e *fakeElement) Click() error {
	e.clicks++
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeElement) ScrollIntoView() error { return nil }

func (e *fakeElement) Element(selector string) (browser.Element, error) {
	els := e.children[selector]
	if len(els) == 0 {
		return nil, fmt.Errorf("%s: %w", selector, browser.ErrNotFound)
	}
	return els[0], nil
}

func (e *fakeElement) Elements(selector string) ([]browser.Element, error) {
	return e.children[selector], nil
}

func (e *fakeElement) Has(selector string) (bool, error) {
	if e.goneStale() {
		return false, browser.ErrStale
	}
	return len(e.children[selector]) > 0, nil
}

// fakePage serves elements from a selector map.
type fakePage struct {
	elements map[string][]browser.Element
	url      string
}

func (p *fakePage) Navigate(url string) error { p.url = url; return nil }
func (p *fakePage) URL() (string, error)      { return p.url, nil }

func (p *fakePage) WaitLoad(timeout time.Duration) error { return nil }

func (p *fakePage) WaitElement(selector string, timeout time.Duration) (browser.Element, error) {
	return p.Element(selector)
}

func (p *fakePage) Element(selector string) (browser.Element, error) {
	els := p.elements[selector]
	if len(els) == 0 {
		return nil, fmt.Errorf("%s: %w", selector, browser.ErrNotFound)
	}
	return els[0], nil
}

func (p *fakePage) Elements(selector string) ([]browser.Element, error) {
	return p.elements[selector], nil
}

type fakeSession struct {
	page *fakePage
}

func (s *fakeSession) Page() browser.Page { return s.page }

func (s *fakeSession) OpenTab(url string) (browser.Tab, error) {
	return nil, fmt.Errorf("fake session cannot open tabs")
}

func (s *fakeSession) TabCount() (int, error) { return 1, nil }
func (s *fakeSession) Close() error           { return nil }

// channelRow builds a channel list row. Clicking the row clears its unread
// badge, mirroring how opening a channel marks it read.
func channelRow(name string, unread bool) *fakeElement {
	row := &fakeElement{
		children: map[string][]browser.Element{
			selChannelTitle: {&fakeElement{attrs: map[string]string{"title": name}}},
		},
	}
	if unread {
		badge := &fakeElement{}
		row.children[selUnreadBadge] = []browser.Element{badge}
		row.onClick = func() {
			delete(row.children, selUnreadBadge)
		}
	}
	return row
}

// textRow builds a message row carrying plain text and sender metadata.
func textRow(text, prePlainText string) *fakeElement {
	row := &fakeElement{
		children: map[string][]browser.Element{
			selTextMessage: {&fakeElement{text: text}},
		},
	}
	if prePlainText != "" {
		row.children[selSenderMeta] = []browser.Element{
			&fakeElement{attrs: map[string]string{"data-pre-plain-text": prePlainText}},
		}
	}
	return row
}
