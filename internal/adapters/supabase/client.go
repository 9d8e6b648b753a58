package supabase

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"real_estate/internal/adapters/observability"
	"real_estate/internal/domain"
)

const maxAttempts = 4

var (
	ErrNotFound     = errors.New("supabase: not found")
	ErrUnauthorized = errors.New("supabase: unauthorized")
	ErrForbidden    = errors.New("supabase: forbidden")
)

// Client talks to the auth admin API with the service role key.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, serviceKey string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if serviceKey == "" {
		return nil, fmt.Errorf("supabase service key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second},
		key:  serviceKey,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type createUserReq struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	EmailConfirm bool           `json:"email_confirm"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

type userResp struct {
	ID string `json:"id"`
}

// CreateUser registers a confirmed identity and returns its id.
func (c *Client) CreateUser(ctx context.Context, email, password string, meta map[string]any) (string, error) {
	var out userResp
	body := createUserReq{Email: email, Password: password, EmailConfirm: true, UserMetadata: meta}
	if err := c.do(ctx, "create_user", http.MethodPost, "/auth/v1/admin/users", body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.New("supabase: empty user id in response")
	}
	return out.ID, nil
}

// DeleteUser removes an identity. A missing user is not an error.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	err := c.do(ctx, "delete_user", http.MethodDelete, "/auth/v1/admin/users/"+id, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// do sends one API call with client-side rate limiting and retries on 429
// and transient 5xx, honoring Retry-After when provided.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	start := time.Now()
	status := 0
	defer func() { observability.ObserveExternal("supabase", op, status, time.Since(start)) }()

	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		payload = b
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("apikey", c.key)
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("Accept", "application/json")
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		status = resp.StatusCode
		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			defer resp.Body.Close()
			if out == nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				return nil
			}
			return json.NewDecoder(resp.Body).Decode(out)

		case http.StatusNoContent:
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusUnprocessableEntity, http.StatusBadRequest:
			msg := apiMessage(resp.Body)
			resp.Body.Close()
			return domain.Invalid("%s", msg)

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("supabase: remote %d", resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("supabase: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return lastErr
}

// apiMessage pulls the human readable message out of a GoTrue error body.
func apiMessage(r io.Reader) string {
	var e struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
		Error   string `json:"error_description"`
	}
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	if json.Unmarshal(b, &e) == nil {
		for _, s := range []string{e.Msg, e.Message, e.Error} {
			if s != "" {
				return s
			}
		}
	}
	if s := strings.TrimSpace(string(b)); s != "" {
		return s
	}
	return "request rejected by auth service"
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
