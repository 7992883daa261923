package browser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// RodSession implements Session on top of the rod library.
type RodSession struct {
	browser *rod.Browser
	page    *rod.Page
	log     logrus.FieldLogger
}

// NewRodSession launches a visible Chrome instance and opens startURL in the
// primary page. The browser runs headful because the initial login is a
// human-in-the-loop step (scanning a QR code).
func NewRodSession(startURL string, logger logrus.FieldLogger) (*RodSession, error) {
	log := logger.WithField("component", "browser")

	path, exists := launcher.LookPath()
	if !exists {
		log.Error("Cannot find browser executable for rod")
		return nil, errors.New("rod browser dependency not found")
	}

	l := launcher.New().
		Bin(path).
		Headless(false).
		Leakless(false).
		Set("start-maximized").
		Set("window-size", "1920,1080").
		Set("window-position", "0,0").
		Set("disable-notifications").
		Set("disable-popup-blocking").
		Set("disable-infobars").
		Set("disable-extensions").
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled").
		Set("user-agent", userAgent)

	u, err := l.Launch()
	if err != nil {
		log.WithError(err).Error("Failed to launch browser")
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		log.WithError(err).Error("Failed to connect to rod browser")
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: startURL})
	if err != nil {
		_ = b.Close()
		log.WithError(err).Error("Failed to open primary page")
		return nil, fmt.Errorf("failed to open page %s: %w", startURL, err)
	}

	log.WithField("url", startURL).Info("Browser session started")
	return &RodSession{browser: b, page: page, log: log}, nil
}

func (s *RodSession) Page() Page {
	return &rodPage{page: s.page}
}

// OpenTab creates a fresh browsing context and navigates it to url, so that
// scraping cannot disturb the chat UI in the primary page.
func (s *RodSession) OpenTab(url string) (Tab, error) {
	p, err := s.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, mapErr(err)
	}
	return &rodTab{rodPage{page: p}}, nil
}

func (s *RodSession) TabCount() (int, error) {
	pages, err := s.browser.Pages()
	if err != nil {
		return 0, mapErr(err)
	}
	return len(pages), nil
}

func (s *RodSession) Close() error {
	s.log.Info("Closing browser session")
	return s.browser.Close()
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Navigate(url string) error {
	return mapErr(p.page.Navigate(url))
}

func (p *rodPage) URL() (string, error) {
	info, err := p.page.Info()
	if err != nil {
		return "", mapErr(err)
	}
	return info.URL, nil
}

func (p *rodPage) WaitLoad(timeout time.Duration) error {
	return mapErr(p.page.Timeout(timeout).WaitLoad())
}

func (p *rodPage) WaitElement(selector string, timeout time.Duration) (Element, error) {
	el, err := p.page.Timeout(timeout).Element(selector)
	if err != nil {
		return nil, mapErr(err)
	}
	return &rodElement{el: el}, nil
}

func (p *rodPage) Element(selector string) (Element, error) {
	el, err := p.page.Sleeper(rod.NotFoundSleeper).Element(selector)
	if err != nil {
		return nil, mapErr(err)
	}
	return &rodElement{el: el}, nil
}

func (p *rodPage) Elements(selector string) ([]Element, error) {
	els, err := p.page.Elements(selector)
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapElements(els), nil
}

type rodTab struct {
	rodPage
}

func (t *rodTab) Close() error {
	return mapErr(t.page.Close())
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text() (string, error) {
	text, err := e.el.Text()
	if err != nil {
		return "", mapErr(err)
	}
	return strings.TrimSpace(text), nil
}

func (e *rodElement) Attribute(name string) (string, error) {
	attr, err := e.el.Attribute(name)
	if err != nil {
		return "", mapErr(err)
	}
	if attr == nil {
		return "", nil
	}
	return *attr, nil
}

// Click falls back to a script click when the regular input event is
// rejected (overlays, partially visible rows).
func (e *rodElement) Click() error {
	err := e.el.Click(proto.InputMouseButtonLeft, 1)
	if err == nil {
		return nil
	}
	if _, evalErr := e.el.Eval(`() => this.click()`); evalErr != nil {
		return mapErr(err)
	}
	return nil
}

func (e *rodElement) ScrollIntoView() error {
	return mapErr(e.el.ScrollIntoView())
}

func (e *rodElement) Element(selector string) (Element, error) {
	el, err := e.el.Sleeper(rod.NotFoundSleeper).Element(selector)
	if err != nil {
		return nil, mapErr(err)
	}
	return &rodElement{el: el}, nil
}

func (e *rodElement) Elements(selector string) ([]Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, mapErr(err)
	}
	return wrapElements(els), nil
}

func (e *rodElement) Has(selector string) (bool, error) {
	has, _, err := e.el.Has(selector)
	if err != nil {
		return false, mapErr(err)
	}
	return has, nil
}

func wrapElements(els rod.Elements) []Element {
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out
}

// Fragments of CDP error messages that mean an element handle no longer
// points at a live DOM node.
var staleMarkers = []string{
	"Cannot find context with specified id",
	"Node with given id does not exist",
	"Object id doesn't reference a Node",
	"Inspected target navigated or closed",
	"detached from document",
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "cannot find element") || strings.Contains(msg, "element not found") {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	for _, marker := range staleMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", ErrStale, err)
		}
	}
	return err
}
