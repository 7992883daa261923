package whatsapp

import (
	"strings"

	"github.com/halilibrahimsaltas/W2T-Relay/internal/browser"
	"github.com/halilibrahimsaltas/W2T-Relay/internal/domain"
)

// typeMarkers is the priority-ordered set of presence checks that classify a
// message row. The first matching marker wins.
var typeMarkers = []struct {
	selector string
	typ      domain.MessageType
}{
	{selTextMessage, domain.MessageText},
	{selImageThumb, domain.MessageImage},
	{selSticker, domain.MessageSticker},
	{selDocumentThumb, domain.MessageDocument},
	{selAudioPlayer, domain.MessageVoice},
}

// classifyRow determines the message type of a single row.
func classifyRow(row browser.Element) (domain.MessageType, error) {
	for _, marker := range typeMarkers {
		has, err := row.Has(marker.selector)
		if err != nil {
			return domain.MessageUnknown, err
		}
		if has {
			return marker.typ, nil
		}
	}
	return domain.MessageUnknown, nil
}

// readRow classifies one row and, for text messages, reads its content and
// sender metadata.
func readRow(row browser.Element) (domain.RawMessage, error) {
	typ, err := classifyRow(row)
	if err != nil {
		return domain.RawMessage{}, err
	}
	msg := domain.RawMessage{Type: typ}
	if typ != domain.MessageText {
		return msg, nil
	}

	textEl, err := row.Element(selTextMessage)
	if err != nil {
		return domain.RawMessage{}, err
	}
	msg.Text, err = textEl.Text()
	if err != nil {
		return domain.RawMessage{}, err
	}

	msg.Sender = readSender(row)
	return msg, nil
}

// readSender extracts the sender name from the row's pre-plain-text
// metadata. Returns "" when the row carries none; the caller falls back to
// the channel display name.
func readSender(row browser.Element) string {
	metaEl, err := row.Element(selSenderMeta)
	if err != nil {
		return ""
	}
	meta, err := metaEl.Attribute("data-pre-plain-text")
	if err != nil {
		return ""
	}
	return parseSender(meta)
}

// parseSender parses "[15, 2/11/2025] Amazon Indirimleri - OZEL FIRSATLAR:"
// into the sender name between the bracketed meta and the trailing colon.
func parseSender(meta string) string {
	i := strings.Index(meta, "]")
	if i < 0 {
		return ""
	}
	name := strings.TrimSpace(meta[i+1:])
	name = strings.TrimSuffix(name, ":")
	return strings.TrimSpace(name)
}
