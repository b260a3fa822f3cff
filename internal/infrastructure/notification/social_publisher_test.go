package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/swiftbasket/backend/internal/domain/notification"
	infraconfig "github.com/swiftbasket/backend/internal/infrastructure/config"
)

func newSocialTestConfig(baseURL string) *infraconfig.SocialConfig {
	return &infraconfig.SocialConfig{
		Enabled:        true,
		BaseURL:        baseURL,
		ConsumerKey:    "test-consumer-key",
		ConsumerSecret: "test-consumer-secret",
		AccessToken:    "test-access-token",
		AccessSecret:   "test-access-secret",
		Timeout:        5 * time.Second,
	}
}

func TestNewOAuth1SocialPublisher_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewOAuth1SocialPublisher(nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing consumer credentials returns error", func(t *testing.T) {
		cfg := newSocialTestConfig("")
		cfg.ConsumerKey = ""
		_, err := NewOAuth1SocialPublisher(cfg, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "consumer key/secret are required")
	})

	t.Run("missing access credentials returns error", func(t *testing.T) {
		cfg := newSocialTestConfig("")
		cfg.AccessSecret = ""
		_, err := NewOAuth1SocialPublisher(cfg, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access token/secret are required")
	})

	t.Run("valid config creates publisher", func(t *testing.T) {
		publisher, err := NewOAuth1SocialPublisher(newSocialTestConfig("https://api.example.com"), zaptest.NewLogger(t))
		require.NoError(t, err)
		require.NotNil(t, publisher)
		assert.Equal(t, "https://api.example.com", publisher.baseURL)
	})

	t.Run("default base URL is the X API", func(t *testing.T) {
		publisher, err := NewOAuth1SocialPublisher(newSocialTestConfig(""), nil)
		require.NoError(t, err)
		assert.Equal(t, "https://api.twitter.com", publisher.baseURL)
	})

	t.Run("trailing slash is trimmed from base URL", func(t *testing.T) {
		publisher, err := NewOAuth1SocialPublisher(newSocialTestConfig("https://api.example.com/"), nil)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", publisher.baseURL)
	})
}

func TestOAuth1SocialPublisher_Publish(t *testing.T) {
	t.Run("posts signed JSON to the create-post endpoint", func(t *testing.T) {
		var (
			gotMethod      string
			gotPath        string
			gotContentType string
			gotAuth        string
			gotBody        map[string]string
		)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			gotContentType = r.Header.Get("Content-Type")
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"data":{"id":"1450306","text":"New on SwiftBasket"}}`))
		}))
		defer server.Close()

		publisher, err := NewOAuth1SocialPublisher(newSocialTestConfig(server.URL), zaptest.NewLogger(t))
		require.NoError(t, err)

		err = publisher.Publish(context.Background(), "New on SwiftBasket")
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "/2/tweets", gotPath)
		assert.Equal(t, "application/json", gotContentType)
		assert.True(t, strings.HasPrefix(gotAuth, "OAuth "))
		assert.Contains(t, gotAuth, `oauth_consumer_key="test-consumer-key"`)
		assert.Contains(t, gotAuth, `oauth_token="test-access-token"`)
		assert.Contains(t, gotAuth, "oauth_signature=")
		assert.Equal(t, "New on SwiftBasket", gotBody["text"])
	})

	t.Run("trims text to the platform rune limit", func(t *testing.T) {
		var gotBody map[string]string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"data":{"id":"1","text":""}}`))
		}))
		defer server.Close()

		publisher, err := NewOAuth1SocialPublisher(newSocialTestConfig(server.URL), nil)
		require.NoError(t, err)

		// Multibyte runes prove the limit counts runes, not bytes
		long := strings.Repeat("é", 300)
		err = publisher.Publish(context.Background(), long)
		require.NoError(t, err)

		assert.Equal(t, 280, utf8.RuneCountInString(gotBody["text"]))
		assert.Equal(t, strings.Repeat("é", 280), gotBody["text"])
	})

	t.Run("short text is passed through unchanged", func(t *testing.T) {
		var gotBody map[string]string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"data":{"id":"1","text":""}}`))
		}))
		defer server.Close()

		publisher, err := NewOAuth1SocialPublisher(newSocialTestConfig(server.URL), nil)
		require.NoError(t, err)

		text := "🛍️ New on SwiftBasket!\nStore Name: Thandi's Threads"
		require.NoError(t, publisher.Publish(context.Background(), text))
		assert.Equal(t, text, gotBody["text"])
	})

	t.Run("empty text returns error without a request", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
		}))
		defer server.Close()

		publisher, err := NewOAuth1SocialPublisher(newSocialTestConfig(server.URL), nil)
		require.NoError(t, err)

		err = publisher.Publish(context.Background(), "   ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "post text is required")
		assert.Equal(t, 0, requests)
	})

	t.Run("API rejection wraps ErrPublishFailed with problem detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"title":"Forbidden","detail":"Your account is suspended."}`))
		}))
		defer server.Close()

		publisher, err := NewOAuth1SocialPublisher(newSocialTestConfig(server.URL), zaptest.NewLogger(t))
		require.NoError(t, err)

		err = publisher.Publish(context.Background(), "hello")
		require.Error(t, err)
		assert.ErrorIs(t, err, notification.ErrPublishFailed)
		assert.Contains(t, err.Error(), "Forbidden")
		assert.Contains(t, err.Error(), "suspended")
	})

	t.Run("non-JSON error response wraps ErrPublishFailed with status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("upstream exploded"))
		}))
		defer server.Close()

		publisher, err := NewOAuth1SocialPublisher(newSocialTestConfig(server.URL), nil)
		require.NoError(t, err)

		err = publisher.Publish(context.Background(), "hello")
		require.Error(t, err)
		assert.ErrorIs(t, err, notification.ErrPublishFailed)
		assert.Contains(t, err.Error(), "HTTP 500")
	})

	t.Run("unreachable API wraps ErrPublishFailed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		publisher, err := NewOAuth1SocialPublisher(newSocialTestConfig(server.URL), nil)
		require.NoError(t, err)

		err = publisher.Publish(context.Background(), "hello")
		require.Error(t, err)
		assert.ErrorIs(t, err, notification.ErrPublishFailed)
	})
}

func TestTrimToRunes(t *testing.T) {
	assert.Equal(t, "abc", trimToRunes("abc", 5))
	assert.Equal(t, "abc", trimToRunes("abc", 3))
	assert.Equal(t, "ab", trimToRunes("abc", 2))
	assert.Equal(t, "éé", trimToRunes("ééé", 2))
	assert.Equal(t, "", trimToRunes("", 10))
}
