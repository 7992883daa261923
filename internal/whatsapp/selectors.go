package whatsapp

// CSS selectors for the WhatsApp Web UI (Turkish locale). UI handles resolved
// through these are ephemeral and must be re-resolved after any re-render.
const (
	// selChannelsTab is the landmark confirming a logged-in session.
	selChannelsTab = "button[aria-label='Kanallar']"

	selChannelList = "div[aria-label='Kanal Listesi']"
	selChannelItem = "div[aria-label='Kanal Listesi'] div[role='listitem']"

	// selChannelTitle carries the channel display name in its title attribute.
	selChannelTitle = "span[title]"

	// selUnreadBadge marks a channel row with unseen messages.
	selUnreadBadge = "span[aria-label*='okunmamış']"

	// selConversation confirms a channel's message view has opened.
	selConversation = "div[role='application']"

	selMessageRow = "div[role='row']"

	selTextMessage   = "span.selectable-text"
	selImageThumb    = "img[data-testid='image-thumb']"
	selSticker       = "img[data-testid='sticker']"
	selDocumentThumb = "div[data-testid='document-thumb']"
	selAudioPlayer   = "div[data-testid='audio-player']"

	// selSenderMeta carries "[<meta>] <Sender>:" in data-pre-plain-text.
	selSenderMeta = "div[data-pre-plain-text]"

	selDialogButton = "div[role='dialog'] button"
)
