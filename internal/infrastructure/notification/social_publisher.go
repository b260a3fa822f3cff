package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dghubble/oauth1"
	"go.uber.org/zap"

	"github.com/swiftbasket/backend/internal/domain/notification"
	infraconfig "github.com/swiftbasket/backend/internal/infrastructure/config"
)

const (
	defaultSocialAPIBaseURL = "https://api.twitter.com"
	socialCreatePostPath    = "/2/tweets"

	// maxPostRunes is the platform limit for a single post. Longer text
	// is trimmed rather than rejected so an oversized product description
	// never blocks the announcement.
	maxPostRunes = 280
)

// Ensure OAuth1SocialPublisher implements SocialPublisher
var _ notification.SocialPublisher = (*OAuth1SocialPublisher)(nil)

// OAuth1SocialPublisher publishes posts through the X API v2 create-post
// endpoint, signing each request with an OAuth 1.0a user context.
type OAuth1SocialPublisher struct {
	config     *infraconfig.SocialConfig
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOAuth1SocialPublisher creates a new social publisher from configuration.
// The HTTP client carries the OAuth1 signing transport, so every request
// through it is authenticated.
func NewOAuth1SocialPublisher(cfg *infraconfig.SocialConfig, logger *zap.Logger) (*OAuth1SocialPublisher, error) {
	if cfg == nil {
		return nil, errors.New("social configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultSocialAPIBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	oauthConfig := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)
	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = timeout

	return &OAuth1SocialPublisher{
		config:     cfg,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Publish creates a single post with the given text. Transport failures and
// API rejections are wrapped in ErrPublishFailed.
func (p *OAuth1SocialPublisher) Publish(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("social: post text is required")
	}

	body := map[string]string{"text": trimToRunes(text, maxPostRunes)}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("social: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+socialCreatePostPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("social: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", notification.ErrPublishFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("social: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp socialErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Title != "" {
			p.logger.Warn("social post rejected",
				zap.Int("status", resp.StatusCode),
				zap.String("title", errResp.Title),
				zap.String("detail", errResp.Detail))
			return fmt.Errorf("%w: %s - %s", notification.ErrPublishFailed, errResp.Title, errResp.Detail)
		}
		p.logger.Warn("social post rejected", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: HTTP %d", notification.ErrPublishFailed, resp.StatusCode)
	}

	var respData socialCreatePostResponse
	if err := json.Unmarshal(respBody, &respData); err == nil && respData.Data.ID != "" {
		p.logger.Debug("social post published", zap.String("post_id", respData.Data.ID))
	}

	return nil
}

// socialCreatePostResponse is the X API v2 create-post success envelope
type socialCreatePostResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// socialErrorResponse is the X API v2 problem document
type socialErrorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// trimToRunes truncates s to at most n runes
func trimToRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
