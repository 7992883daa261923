package scrape

import (
	"fmt"
	"time"

	"github.com/halilibrahimsaltas/W2T-Relay/internal/browser"
)

type fakeElement struct {
	text  string
	attrs map[string]string
}

func (e *fakeElement) Text() (string, error)                 { return e.text, nil }
func (e *fakeElement) Attribute(name string) (string, error) { return e.attrs[name], nil }
func (e *fakeElement) Click() error                          { return nil }
func (e *fakeElement) ScrollIntoView() error                 { return nil }
func (e *fakeElement) Has(selector string) (bool, error)     { return false, nil }

func (e *fakeElement) Element(selector string) (browser.Element, error) {
	return nil, browser.ErrNotFound
}

func (e *fakeElement) Elements(selector string) ([]browser.Element, error) {
	return nil, nil
}

// fakeTab is a product page whose elements are keyed by selector.
type fakeTab struct {
	url      string
	elements map[string]*fakeElement
	loadErr  error
	closed   bool
}

func (t *fakeTab) Navigate(url string) error { t.url = url; return nil }
func (t *fakeTab) URL() (string, error)      { return t.url, nil }

func (t *fakeTab) WaitLoad(timeout time.Duration) error { return t.loadErr }

func (t *fakeTab) WaitElement(selector string, timeout time.Duration) (browser.Element, error) {
	return t.Element(selector)
}

func (t *fakeTab) Element(selector string) (browser.Element, error) {
	if el, ok := t.elements[selector]; ok {
		return el, nil
	}
	return nil, fmt.Errorf("%s: %w", selector, browser.ErrNotFound)
}

func (t *fakeTab) Elements(selector string) ([]browser.Element, error) {
	if el, ok := t.elements[selector]; ok {
		return []browser.Element{el}, nil
	}
	return nil, nil
}

func (t *fakeTab) Close() error { t.closed = true; return nil }

// fakeSession hands out one preconfigured tab, simulating the redirect by
// presetting the tab's URL.
type fakeSession struct {
	tab *fakeTab
}

func (s *fakeSession) Page() browser.Page { return &fakeTab{} }

func (s *fakeSession) OpenTab(url string) (browser.Tab, error) {
	return s.tab, nil
}

func (s *fakeSession) TabCount() (int, error) {
	if s.tab.closed {
		return 1, nil
	}
	return 2, nil
}

func (s *fakeSession) Close() error { return nil }
