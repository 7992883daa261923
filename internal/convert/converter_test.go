package convert

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestConverter(apiURL, hbURL string) *Converter {
	return NewConverter(Options{
		APIBaseURL:            apiURL,
		APIKey:                "test-key",
		HepsiburadaShareURL:   hbURL,
		HepsiburadaCampaignID: "HBCV0000333333",
	}, testLogger())
}

func TestConvert_AlreadyConvertedIsIdempotent(t *testing.T) {
	c := newTestConverter("http://unused.invalid", "")
	for _, url := range []string{
		"https://sh.gelirortaklari.com/abc123",
		"https://ty.gl/xyz",
		"https://hb.gelirortaklari/short",
	} {
		assert.Equal(t, url, c.Convert(context.Background(), url))
	}
}

func TestConvert_GenericPath(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"api_key":     q.Get("api_key"),
			"Target":      q.Get("Target"),
			"Method":      q.Get("Method"),
			"offer_id":    q.Get("offer_id"),
			"params[url]": q.Get("params[url]"),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]any{
				"data": map[string]any{
					"click_url": "https://sh.gelirortaklari.com/track/abc",
				},
			},
		})
	}))
	defer srv.Close()

	c := newTestConverter(srv.URL, "")
	got := c.Convert(context.Background(), "https://www.trendyol.com/p/42?utm_source=wa&size=m")

	assert.Equal(t, "https://sh.gelirortaklari.com/track/abc", got)
	assert.Equal(t, "test-key", gotQuery["api_key"])
	assert.Equal(t, "Affiliate_Offer", gotQuery["Target"])
	assert.Equal(t, "generateTrackingLink", gotQuery["Method"])
	assert.Equal(t, "6719", gotQuery["offer_id"])
	assert.Equal(t, "https://www.trendyol.com/p/42?size=m", gotQuery["params[url]"],
		"tracking params must be stripped before submission")
}

func TestConvert_PrefersShortURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]any{
				"data": map[string]any{
					"click_url": "https://long.example/click?id=1",
					"short_url": "https://sh.gelirortaklari.com/s/1",
				},
			},
		})
	}))
	defer srv.Close()

	c := newTestConverter(srv.URL, "")
	got := c.Convert(context.Background(), "https://www.n11.com/p/7")
	assert.Equal(t, "https://sh.gelirortaklari.com/s/1", got)
}

func TestConvert_ServerErrorFallsBackToOriginal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestConverter(srv.URL, "")
	original := "https://www.amazon.com.tr/dp/XYZ"
	assert.Equal(t, original, c.Convert(context.Background(), original))
}

func TestConvert_MalformedResponseFallsBackToOriginal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":{"data":{}}}`))
	}))
	defer srv.Close()

	c := newTestConverter(srv.URL, "")
	original := "https://www.karaca.com/urun/1"
	assert.Equal(t, original, c.Convert(context.Background(), original))
}

func TestConvert_UnmappedStorefrontReturnsOriginal(t *testing.T) {
	c := newTestConverter("http://unused.invalid", "")
	original := "https://www.example.com/product/1"
	assert.Equal(t, original, c.Convert(context.Background(), original))
}

func TestConvert_UnreachableAPIFallsBackToOriginal(t *testing.T) {
	c := newTestConverter("http://127.0.0.1:1", "")
	original := "https://www.trendyol.com/p/42"
	assert.Equal(t, original, c.Convert(context.Background(), original))
}

func TestConvert_HepsiburadaSharePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/share-url", r.URL.Path)

		var req shareRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://www.hepsiburada.com/p/123", req.WebURL)
		assert.Equal(t, "HBCV0000333333", req.Title)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"result": map[string]any{"shareUrl": "https://hb.gelirortaklari/s/9"},
		})
	}))
	defer srv.Close()

	c := newTestConverter("http://unused.invalid", srv.URL)
	got := c.Convert(context.Background(), "https://www.hepsiburada.com/p/123")
	assert.Equal(t, "https://hb.gelirortaklari/s/9", got)
}

func TestConvert_HepsiburadaFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestConverter("http://unused.invalid", srv.URL)
	original := "https://www.hepsiburada.com/p/123"
	assert.Equal(t, original, c.Convert(context.Background(), original))
}
