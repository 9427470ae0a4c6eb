package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"studytime/internal/models"
	"studytime/internal/services"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const defaultTimeout = 10 * time.Second

// Client talks to the studytime HTTP API as a single signed-in user.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type errorBody struct {
	Error string `json:"error"`
}

// errorFor maps a non-2xx response back onto the model sentinels.
func errorFor(status int, body []byte) error {
	var eb errorBody
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		msg = eb.Error
	}

	var sentinel error
	switch status {
	case http.StatusUnauthorized:
		sentinel = models.ErrUnauthenticated
	case http.StatusBadRequest:
		sentinel = models.ErrValidation
	case http.StatusNotFound:
		sentinel = models.ErrNotFound
	case http.StatusConflict:
		sentinel = models.ErrConflict
		if strings.HasPrefix(msg, models.ErrInvalidState.Error()) {
			sentinel = models.ErrInvalidState
		}
	default:
		return fmt.Errorf("server responded %d: %s", status, msg)
	}
	if msg == sentinel.Error() {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, strings.TrimPrefix(msg, sentinel.Error()+": "))
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFor(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func sessionPath(id int64, action string) string {
	return "/api/sessions/" + strconv.FormatInt(id, 10) + "/" + action
}

func (c *Client) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/api/register", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login signs in and keeps the token for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	var tok services.AuthToken
	if err := c.do(ctx, http.MethodPost, "/api/login", services.LoginInput{Username: username, Password: password}, &tok); err != nil {
		return nil, err
	}
	c.SetToken(tok.Token)
	return tok.User, nil
}

func (c *Client) User(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/user", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Subjects(ctx context.Context) ([]*models.Subject, error) {
	var subjects []*models.Subject
	if err := c.do(ctx, http.MethodGet, "/api/subjects", nil, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (c *Client) CreateSubject(ctx context.Context, in services.CreateSubjectInput) (*models.Subject, error) {
	var s models.Subject
	if err := c.do(ctx, http.MethodPost, "/api/subjects", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) StartSession(ctx context.Context, subjectID int64, t models.SessionType, priorDuration *int64) (*models.Session, error) {
	in := services.StartSessionInput{SubjectID: subjectID, Type: t, PriorDuration: priorDuration}
	var s models.Session
	if err := c.do(ctx, http.MethodPost, "/api/sessions/start", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) EndSession(ctx context.Context, sessionID, duration int64) (*models.Session, error) {
	var s models.Session
	if err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "end"), map[string]int64{"duration": duration}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) TagBreak(ctx context.Context, sessionID int64, tag string) (*models.Session, error) {
	var s models.Session
	if err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "tag"), map[string]string{"breakTag": tag}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) ActiveSessions(ctx context.Context) ([]*models.Session, error) {
	var sessions []*models.Session
	if err := c.do(ctx, http.MethodGet, "/api/sessions/active", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) Reconcile(ctx context.Context, sessionID, elapsed, gap int64) (*models.Reconciliation, error) {
	var rec models.Reconciliation
	body := map[string]int64{"elapsed": elapsed, "gap": gap}
	if err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "reconcile"), body, &rec); err != nil {
		return nil, err
	}
	if rec.Resumed == nil {
		return nil, errors.New("reconcile response without a resumed session")
	}
	return &rec, nil
}

func (c *Client) Leaderboard(ctx context.Context, timeframe string) ([]*models.LeaderboardEntry, error) {
	path := "/api/leaderboard"
	if timeframe != "" {
		path += "?timeframe=" + url.QueryEscape(timeframe)
	}
	var entries []*models.LeaderboardEntry
	if err := c.do(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
