// Package pages publishes generated landing pages to the external hosting
// service. Rendering is the host's job; this client ships the page config.
package pages

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/agents"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/retry"
)

// DefaultTimeout is the maximum time to wait for the hosting service.
const DefaultTimeout = 30 * time.Second

// Config holds hosting service settings.
type Config struct {
	// Endpoint is the hosting service API base URL.
	Endpoint string

	// Token authenticates deploy requests.
	Token string

	// PublicBaseURL is where deployed pages are served from.
	PublicBaseURL string
}

// Deployer ships landing page configs to the hosting service.
type Deployer struct {
	cfg        Config
	httpClient *http.Client
	retryCfg   *retry.Config
	logger     *zap.Logger
}

// NewDeployer creates a hosting service client.
func NewDeployer(cfg Config, logger *zap.Logger) *Deployer {
	return &Deployer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		retryCfg:   retry.DefaultConfig(),
		logger:     logger.Named("pages"),
	}
}

var _ agents.PageDeployer = (*Deployer)(nil)

type deployRequest struct {
	ProjectID uuid.UUID          `json:"project_id"`
	Page      models.LandingPage `json:"page"`
}

type deployResponse struct {
	URL string `json:"url"`
}

// Deploy implements agents.PageDeployer. Transient hosting failures are
// retried with backoff; the returned URL is where the page is live.
func (d *Deployer) Deploy(ctx context.Context, projectID uuid.UUID, slug string, page models.LandingPage) (string, error) {
	endpoint, err := url.JoinPath(d.cfg.Endpoint, "pages", slug)
	if err != nil {
		return "", fmt.Errorf("build deploy URL: %w", err)
	}

	body, err := json.Marshal(deployRequest{ProjectID: projectID, Page: page})
	if err != nil {
		return "", fmt.Errorf("encode page config: %w", err)
	}

	var resp deployResponse
	err = retry.DoIfRetryable(ctx, d.retryCfg, func() error {
		var putErr error
		resp, putErr = d.put(ctx, endpoint, body)
		return putErr
	})
	if err != nil {
		return "", err
	}

	liveURL := resp.URL
	if liveURL == "" {
		liveURL, err = url.JoinPath(d.cfg.PublicBaseURL, slug)
		if err != nil {
			return "", fmt.Errorf("build public URL: %w", err)
		}
	}

	d.logger.Info("Deployed landing page",
		zap.String("project_id", projectID.String()),
		zap.String("slug", slug),
		zap.String("url", liveURL))

	return liveURL, nil
}

func (d *Deployer) put(ctx context.Context, endpoint string, body []byte) (deployResponse, error) {
	var out deployResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("create deploy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if d.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+d.cfg.Token)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("call hosting service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("read hosting response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return out, fmt.Errorf("hosting service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, &out); err != nil {
		return out, fmt.Errorf("decode hosting response: %w", err)
	}
	return out, nil
}
