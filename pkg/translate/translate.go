// Package translate provides Japanese-to-English translation for card
// example sentences.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Translator turns a Japanese sentence into English.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

const defaultEndpoint = "https://api-free.deepl.com/v2/translate"

// DeepL calls the DeepL REST API.
type DeepL struct {
	authKey  string
	endpoint string
	client   *http.Client
}

// NewDeepL builds a client for the free-tier endpoint. The endpoint can be
// overridden for the pro tier or tests.
func NewDeepL(authKey string, opts ...DeepLOption) *DeepL {
	d := &DeepL{
		authKey:  authKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type DeepLOption func(*DeepL)

func WithEndpoint(endpoint string) DeepLOption {
	return func(d *DeepL) { d.endpoint = endpoint }
}

func WithHTTPClient(client *http.Client) DeepLOption {
	return func(d *DeepL) { d.client = client }
}

// Translate sends text to DeepL and returns the English translation.
func (d *DeepL) Translate(ctx context.Context, text string) (string, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("source_lang", "JA")
	form.Set("target_lang", "EN")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.authKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepl returned status: %s", resp.Status)
	}

	var body struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode deepl response: %w", err)
	}
	if len(body.Translations) == 0 {
		return "", fmt.Errorf("deepl returned no translations")
	}
	return body.Translations[0].Text, nil
}

// None is a Translator that translates nothing, for running without an API
// key.
type None struct{}

func (None) Translate(ctx context.Context, text string) (string, error) {
	return "", nil
}
