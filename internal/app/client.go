// Package app is the field-collection application layer: an API client plus
// the session, synchronization, mode, and photo-staging controllers that a
// frontend binds its widgets to.
package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dponte/coletamap/internal/domain"
	"github.com/dponte/coletamap/internal/events"
	"github.com/dponte/coletamap/internal/forms"
)

// APIError is a non-2xx response decoded into the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// FriendlyMessage returns the localized text to surface for this error.
// Known taxonomy entries keep their specific wording; everything else
// collapses to a generic message.
func (e *APIError) FriendlyMessage() string {
	switch e.Code {
	case "email_exists":
		return "Este email já está cadastrado"
	case "invalid_credentials":
		return "Email ou senha incorretos"
	case "validation", "photo_too_large":
		return e.Message
	default:
		return "Ocorreu um erro. Tente novamente."
	}
}

// Session is an authenticated identity as returned by login and register.
type Session struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

type SessionUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// PhotoOutcome mirrors the server's per-file upload report.
type PhotoOutcome struct {
	Name  string                `json:"name"`
	Photo *domain.PropertyPhoto `json:"photo,omitempty"`
	Err   string                `json:"error,omitempty"`
}

// Client talks to the coletamap server. The bearer token is settable at any
// time and guarded for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Register(ctx context.Context, email, password, fullName string) (*Session, error) {
	var session Session
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.SetToken(session.Token)
	return &session, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.SetToken(session.Token)
	return &session, nil
}

// Me probes the current session. Any failure means "no session": the caller
// treats an expired token and a network fault identically.
func (c *Client) Me(ctx context.Context) (*SessionUser, error) {
	var user SessionUser
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListProperties(ctx context.Context) ([]*domain.Property, error) {
	var properties []*domain.Property
	if err := c.doJSON(ctx, http.MethodGet, "/api/properties", nil, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (c *Client) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	var property domain.Property
	if err := c.doJSON(ctx, http.MethodGet, "/api/properties/"+id, nil, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (c *Client) CreateProperty(ctx context.Context, payload *forms.PropertyPayload) (*domain.Property, error) {
	var property domain.Property
	if err := c.doJSON(ctx, http.MethodPost, "/api/properties", payload, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (c *Client) UpdateProperty(ctx context.Context, id string, payload *forms.PropertyPayload) (*domain.Property, error) {
	var property domain.Property
	if err := c.doJSON(ctx, http.MethodPut, "/api/properties/"+id, payload, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (c *Client) DeleteProperty(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/properties/"+id, nil, nil)
}

func (c *Client) ListPhotos(ctx context.Context, propertyID string) ([]*domain.PropertyPhoto, error) {
	var photos []*domain.PropertyPhoto
	if err := c.doJSON(ctx, http.MethodGet, "/api/properties/"+propertyID+"/photos", nil, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func (c *Client) DeletePhoto(ctx context.Context, photoID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/photos/"+photoID, nil, nil)
}

// Upload is one file queued for a multipart photo upload.
type Upload struct {
	Name   string
	Reader io.Reader
}

// UploadPhotos sends the files as one multipart request and returns the
// server's per-file outcomes.
func (c *Client) UploadPhotos(ctx context.Context, propertyID string, uploads []Upload) ([]PhotoOutcome, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, up := range uploads {
		part, err := mw.CreateFormFile("photos", up.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to build multipart body: %w", err)
		}
		if _, err := io.Copy(part, up.Reader); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", up.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/properties/"+propertyID+"/photos", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload photos: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var result struct {
		Outcomes []PhotoOutcome `json:"outcomes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return result.Outcomes, nil
}

func (c *Client) MapToken(ctx context.Context) (string, error) {
	var cfg struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/map-config", nil, &cfg); err != nil {
		return "", err
	}
	return cfg.Token, nil
}

// Events opens the server-sent change feed and delivers decoded changes on
// the returned channel until ctx is canceled or the connection drops. The
// channel is closed on teardown.
func (c *Client) Events(ctx context.Context) (<-chan events.Change, error) {
	endpoint := c.baseURL + "/api/events?access_token=" + url.QueryEscape(c.Token())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	// A dedicated client without a timeout: the stream stays open.
	streamClient := &http.Client{}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to open event stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}

	changes := make(chan events.Change, 16)
	go func() {
		defer close(changes)
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			data, ok := strings.CutPrefix(line, "data: ")
			if !ok {
				continue
			}
			var change events.Change
			if err := json.Unmarshal([]byte(data), &change); err != nil {
				c.logger.Warn("malformed change event", "error", err)
				continue
			}
			select {
			case changes <- change:
			case <-ctx.Done():
				return
			}
		}
	}()
	return changes, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Code: "internal"}
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Error
	}
	return apiErr
}
