package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Result is the English rendering of a transcript plus the language the
// service detected.
type Result struct {
	Text           string
	DetectedLang   string
	LangConfidence float64
}

// Translator normalizes transcript language to English.
type Translator interface {
	Translate(ctx context.Context, text string) (Result, error)
}

// Client calls a LibreTranslate-compatible service over HTTP. Source language
// is auto-detected per call; a failed call is not retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a translation client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type translateRequest struct {
	Query  string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	TranslatedText   string `json:"translatedText"`
	DetectedLanguage struct {
		Language   string  `json:"language"`
		Confidence float64 `json:"confidence"`
	} `json:"detectedLanguage"`
	Error string `json:"error"`
}

// Translate renders text into English.
func (c *Client) Translate(ctx context.Context, text string) (Result, error) {
	payload, err := json.Marshal(translateRequest{
		Query:  text,
		Source: "auto",
		Target: "en",
		Format: "text",
	})
	if err != nil {
		return Result{}, fmt.Errorf("encode translate request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read translate response: %w", err)
	}
	var parsed translateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, fmt.Errorf("decode translate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := parsed.Error
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return Result{}, fmt.Errorf("translate service: status %d: %s", resp.StatusCode, msg)
	}
	return Result{
		Text:           parsed.TranslatedText,
		DetectedLang:   parsed.DetectedLanguage.Language,
		LangConfidence: parsed.DetectedLanguage.Confidence,
	}, nil
}
