package browser

import (
	"errors"
	"time"
)

// The UI re-renders concurrently with polling, so element handles are
// ephemeral. Callers must be prepared to re-resolve on ErrStale.
var (
	// ErrNotFound means no element matched the selector.
	ErrNotFound = errors.New("element not found")

	// ErrStale means an element handle was invalidated by a re-render or
	// navigation and must be re-resolved before use.
	ErrStale = errors.New("stale element reference")
)

// Element is a handle to a single DOM element.
type Element interface {
	Text() (string, error)
	// Attribute returns the attribute value, or "" when absent.
	Attribute(name string) (string, error)
	Click() error
	ScrollIntoView() error
	Element(selector string) (Element, error)
	Elements(selector string) ([]Element, error)
	Has(selector string) (bool, error)
}

// Page is one browsing context (tab).
type Page interface {
	Navigate(url string) error
	URL() (string, error)
	WaitLoad(timeout time.Duration) error
	// WaitElement blocks until the selector matches or the timeout expires.
	WaitElement(selector string, timeout time.Duration) (Element, error)
	// Element resolves immediately, returning ErrNotFound when absent.
	Element(selector string) (Element, error)
	Elements(selector string) ([]Element, error)
}

// Tab is a secondary page opened for isolated navigation.
type Tab interface {
	Page
	Close() error
}

// Session is the single browser session shared by the whole process.
// The primary page hosts the chat UI; scraping happens in short-lived tabs.
type Session interface {
	Page() Page
	OpenTab(url string) (Tab, error)
	// TabCount reports how many pages the session currently holds.
	TabCount() (int, error)
	Close() error
}
