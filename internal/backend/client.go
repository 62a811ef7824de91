package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"gallerist/internal/assets"
	"gallerist/internal/config"
	"gallerist/internal/logging"
	"gallerist/internal/services"
)

const (
	userAgent    = "gallerist/0.1"
	maxErrorBody = 2048
	component    = "backend"
)

// Client talks to the asset service.
type Client struct {
	base             *url.URL
	listPath         string
	createClientPath string
	confirmCartPath  string
	http             *http.Client
	logger           *slog.Logger
}

// CreateClientResult is the decoded create-client response.
type CreateClientResult struct {
	Message string   `json:"message"`
	Files   []string `json:"files"`
	// Folder is the client folder the service created, when it reports one.
	Folder string `json:"folder,omitempty"`
}

// ConfirmCartResult is the decoded confirm-cart response. The service only
// guarantees Copied; Success is nil unless it reports the flag.
type ConfirmCartResult struct {
	Success *bool    `json:"success,omitempty"`
	Email   string   `json:"email,omitempty"`
	Copied  []string `json:"copied"`
}

type createClientRequest struct {
	Client string   `json:"client"`
	Files  []string `json:"files"`
}

type confirmCartRequest struct {
	Email string   `json:"email"`
	Files []string `json:"files"`
}

type errorBody struct {
	Error string `json:"error"`
}

// New builds a client from the backend configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "parse base url", "", err)
	}
	timeout := cfg.RequestTimeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:             base,
		listPath:         cfg.Backend.ListPath,
		createClientPath: cfg.Backend.CreateClientPath,
		confirmCartPath:  cfg.Backend.ConfirmCartPath,
		http:             &http.Client{Timeout: timeout},
		logger:           logging.NewComponentLogger(logger, component),
	}, nil
}

// ListAssets fetches the complete asset listing.
func (c *Client) ListAssets(ctx context.Context) ([]assets.Record, error) {
	var records []assets.Record
	if err := c.do(ctx, "list assets", http.MethodGet, c.listPath, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CreateClientFolder asks the service to move files into a client folder and
// returns the canonical server paths of the moved files.
func (c *Client) CreateClientFolder(ctx context.Context, client string, files []string) (CreateClientResult, error) {
	var result CreateClientResult
	req := createClientRequest{Client: client, Files: files}
	if err := c.do(ctx, "create client folder", http.MethodPost, c.createClientPath, req, &result); err != nil {
		return CreateClientResult{}, err
	}
	return result, nil
}

// ConfirmCart submits the cart for delivery to email.
func (c *Client) ConfirmCart(ctx context.Context, email string, files []string) (ConfirmCartResult, error) {
	var result ConfirmCartResult
	req := confirmCartRequest{Email: email, Files: files}
	if err := c.do(ctx, "confirm cart", http.MethodPost, c.confirmCartPath, req, &result); err != nil {
		return ConfirmCartResult{}, err
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) error {
	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
		ctx = services.WithRequestID(ctx, requestID)
	}
	logger := logging.WithContext(ctx, c.logger)

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return services.Wrap(services.ErrValidation, component, operation, "encode request", err)
		}
		payload = bytes.NewReader(encoded)
	}

	endpoint := c.base.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), payload)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, component, operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("backend request failed", logging.String("operation", operation), logging.Error(err))
		return services.Wrap(services.ErrTransport, component, operation, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return services.Wrap(services.ErrTransport, component, operation, "read response", err)
	}
	logger.Debug("backend request completed",
		logging.String("operation", operation),
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(started)),
	)

	if msg := errorMessage(raw); msg != "" {
		return services.Wrap(services.ErrBackend, component, operation, msg, nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(raw[:min(len(raw), maxErrorBody)]))
		msg := fmt.Sprintf("asset service returned %d", resp.StatusCode)
		if snippet != "" {
			msg += ": " + snippet
		}
		return services.Wrap(services.ErrBackend, component, operation, msg, nil)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return services.Wrap(services.ErrBackend, component, operation, "invalid response from asset service", err)
	}
	return nil
}

// errorMessage extracts {"error": "..."} from a response body.
func errorMessage(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var body errorBody
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Error)
}
