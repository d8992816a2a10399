package gatekeeper

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/refbook/refbook/internal/domain/user"
	basecache "github.com/refbook/refbook/internal/platform/cache"
	"github.com/refbook/refbook/internal/platform/logging"
	"github.com/refbook/refbook/internal/platform/resilience"
	"github.com/refbook/refbook/internal/usecase"
)

// Client verifies bearer tokens against the gatekeeper account service.
// Calls are guarded by a circuit breaker so a dead account service does
// not hold every request hostage for a full timeout.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	breaker       *resilience.CircuitBreaker
	cache         *basecache.Store
	logger        *logging.Logger
}

type Config struct {
	BaseURL        string
	IntrospectPath string
	TokenCacheTTL  time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

func NewClient(httpClient *http.Client, cfg Config, logger *logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	var breaker *resilience.CircuitBreaker
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	if breakerCfg.Enabled {
		breaker = resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq)
	}

	var store *basecache.Store
	if cfg.TokenCacheTTL > 0 {
		store = basecache.NewStore(cfg.TokenCacheTTL)
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(cfg.BaseURL, cfg.IntrospectPath),
		breaker:       breaker,
		cache:         store,
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := ""
	if c.cache != nil {
		cacheKey = "principal:" + hashToken(token)
		if cached, ok := c.cache.Get(ctx, cacheKey); ok {
			if principal, ok := cached.(user.Principal); ok {
				return principal, nil
			}
		}
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			if c.logger != nil {
				c.logger.WarnContext(ctx, "gatekeeper introspection rejected by circuit breaker",
					"breaker_state", string(c.breaker.State()),
				)
			}
			return user.Principal{}, fmt.Errorf("%w: gatekeeper circuit open", usecase.ErrDependencyUnavailable)
		}
	}

	principal, err := c.introspect(ctx, token)
	if c.breaker != nil {
		// Denied and inactive tokens are answers, not outages.
		if err != nil && !crerr.Is(err, usecase.ErrUnauthorized) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err == nil && c.cache != nil {
		c.cache.Set(ctx, cacheKey, principal)
	}
	return principal, err
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	payload := introspectRequest{Token: token}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "marshal introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "create introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.DebugContext(ctx, "calling gatekeeper introspection",
			"request_preview", redactedRequestPreview(c.introspectURL),
		)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "read introspect response")
	}

	if resp.StatusCode != http.StatusOK {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "gatekeeper introspection non-200",
				"status_code", resp.StatusCode,
			)
		}
		return user.Principal{}, fmt.Errorf("%w: gatekeeper introspection failed with status %d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	}

	var decoded introspectResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, crerr.Wrap(err, "unmarshal introspect response")
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID:        decoded.UserID,
		Email:         decoded.Email,
		Role:          decoded.Role,
		AdminClubIDs:  decoded.AdminClubIDs,
		MemberClubIDs: decoded.MemberClubIDs,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active        bool     `json:"active"`
	UserID        string   `json:"user_id"`
	Email         string   `json:"email"`
	Role          string   `json:"role"`
	AdminClubIDs  []string `json:"admin_club_ids"`
	MemberClubIDs []string `json:"member_club_ids"`
}

// redactedRequestPreview renders a copy-pasteable curl line with the
// bearer token masked, for debug logs only.
func redactedRequestPreview(introspectURL string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(introspectURL)
	appendPart("-H")
	appendPart("'Content-Type: application/json'")
	appendPart("-d")
	appendPart(`'{"token":"***"}'`)

	return buf.String()
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return baseURL + path
}
