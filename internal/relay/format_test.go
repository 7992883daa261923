package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halilibrahimsaltas/W2T-Relay/internal/domain"
)

func TestStoreName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.hepsiburada.com/p/1", "Hepsiburada"},
		{"https://www.amazon.com.tr/dp/X", "Amazon"},
		{"https://amzn.eu/d/a", "Amazon"},
		{"https://www.trendyol.com/p/1", "Trendyol"},
		{"https://urun.n11.com/p/1", "N11"},
		{"https://www.boyner.com.tr/p/1", "Boyner"},
		{"https://www.mediamarkt.com.tr/p/1", "MediaMarkt"},
		{"https://getir.com/x", "Getir"},
		{"https://www.karaca.com/p/1", "Karaca"},
		{"https://www.gratis.com/p/1", "Gratis"},
		{"https://www.example.com/p/1", "Diğer"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, StoreName(tt.url))
		})
	}
}

func TestCleanPrice(t *testing.T) {
	tests := []struct{ in, out string }{
		{"₺1.299,90", "1.299,90"},
		{"449 TL", "449"},
		{"1.299,", "1.299"},
		{"  ₺ 99,50 ", "99,50"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, cleanPrice(tt.in))
	}
}

func TestBuildMessage_WithImage(t *testing.T) {
	info := domain.ProductInfo{
		Name:     "Philips Airfryer XXL",
		Price:    "₺4.299,00",
		ImageURL: "https://img.example/air.jpg",
		PageURL:  "https://www.amazon.com.tr/dp/XYZ",
	}
	msg := BuildMessage(info, "https://sh.gelirortaklari.com/t/1")

	assert.Equal(t, "https://img.example/air.jpg", msg.PhotoURL, "image yields photo+caption")
	assert.Contains(t, msg.Caption, "<b>Philips Airfryer XXL</b>")
	assert.Contains(t, msg.Caption, "💳 ₺ 4.299,00")
	assert.Contains(t, msg.Caption, "🛍 Amazon")
	assert.Contains(t, msg.Caption, `<a href="https://sh.gelirortaklari.com/t/1">FIRSATA GİT</a>`)
	assert.Contains(t, msg.Caption, "#işbirliği")
}

func TestBuildMessage_TextOnlyWithoutImage(t *testing.T) {
	info := domain.ProductInfo{
		Name:    "Dyson V15",
		Price:   "24.999,00",
		PageURL: "https://www.trendyol.com/p/42",
	}
	msg := BuildMessage(info, "https://ty.gl/x")

	assert.Empty(t, msg.PhotoURL)
	assert.Contains(t, msg.Caption, "🛍 Trendyol")
}

func TestBuildMessage_PromoLine(t *testing.T) {
	info := domain.ProductInfo{
		Name:      "Duracell AA",
		Price:     "200,00",
		PromoText: "3 al 2 öde",
		PageURL:   "https://www.amazon.com.tr/dp/A",
	}
	msg := BuildMessage(info, "https://sh.gelirortaklari.com/t/2")
	assert.Contains(t, msg.Caption, "🎁 3 al 2 öde")
}

func TestBuildMessage_EmptyPriceOmitsPriceLine(t *testing.T) {
	info := domain.ProductInfo{
		Name:    "Gizemli Ürün",
		Price:   "  ",
		PageURL: "https://www.n11.com/p/1",
	}
	msg := BuildMessage(info, "https://example.com")
	assert.NotContains(t, msg.Caption, "💳")
}
