package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client calls the school management API on behalf of a logged-in student.
type Client struct {
	BaseURL    string
	AuthURL    string
	GraphQLURL string
	HTTP       *http.Client
}

// New creates a client with configurable timeout.
func New(baseURL, authURL, graphqlURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL:    baseURL,
		AuthURL:    authURL,
		GraphQLURL: graphqlURL,
		HTTP:       &http.Client{Timeout: timeout},
	}
}

// LoginResult carries the bearer token and, when the server sent one, the user.
type LoginResult struct {
	Token string
	User  *User
}

// Login authenticates against the REST auth endpoint. The portal always sends
// the fixed student role; the token is accepted from either {token} or
// {data:{token}} response shapes.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
		"role":     "student",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.AuthURL, bytes.NewReader(body))
	if err != nil {
		return LoginResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		observe("login", "error")
		return LoginResult{}, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		observe("login", "error")
		return LoginResult{}, fmt.Errorf("auth response read failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		observe("login", "rejected")
		return LoginResult{}, &AuthError{Message: serverMessage(raw)}
	}

	var out struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
		Data  struct {
			Token string `json:"token"`
			User  *User  `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		observe("login", "error")
		return LoginResult{}, fmt.Errorf("auth response decode failed: %w", err)
	}

	token := out.Token
	user := out.User
	if token == "" {
		token = out.Data.Token
		user = out.Data.User
	}
	if token == "" {
		observe("login", "rejected")
		return LoginResult{}, &AuthError{Message: "no token in server response"}
	}
	observe("login", "ok")
	return LoginResult{Token: token, User: user}, nil
}

// Profile fetches the student master record.
func (c *Client) Profile(ctx context.Context, token string) (Profile, error) {
	raw, err := c.get(ctx, token, "/profile")
	if err != nil {
		return Profile{}, err
	}
	var p Profile
	if err := json.Unmarshal(normalizeObject(raw), &p); err != nil {
		return Profile{}, fmt.Errorf("profile decode failed: %w", err)
	}
	return p, nil
}

// Schedule fetches all timetable slots for the student's class.
func (c *Client) Schedule(ctx context.Context, token string) ([]ScheduleEntry, error) {
	raw, err := c.get(ctx, token, "/schedule")
	if err != nil {
		return nil, err
	}
	return decodeList[ScheduleEntry](raw, "schedule", "schedules"), nil
}

// Attendance fetches the student's attendance history.
func (c *Client) Attendance(ctx context.Context, token string) ([]AttendanceRecord, error) {
	raw, err := c.get(ctx, token, "/attendance")
	if err != nil {
		return nil, err
	}
	return decodeList[AttendanceRecord](raw, "attendance"), nil
}

// Grades fetches the student's assessment scores.
func (c *Client) Grades(ctx context.Context, token string) ([]GradeRecord, error) {
	raw, err := c.get(ctx, token, "/grades")
	if err != nil {
		return nil, err
	}
	return decodeList[GradeRecord](raw, "grades"), nil
}

// Bills fetches the student's invoices.
func (c *Client) Bills(ctx context.Context, token string) ([]Bill, error) {
	raw, err := c.get(ctx, token, "/bills")
	if err != nil {
		return nil, err
	}
	return decodeList[Bill](raw, "bills"), nil
}

// Loans fetches the student's library borrowing records.
func (c *Client) Loans(ctx context.Context, token string) ([]Loan, error) {
	raw, err := c.get(ctx, token, "/library/loans")
	if err != nil {
		return nil, err
	}
	return decodeList[Loan](raw, "loans"), nil
}

// Books searches the library catalog; an empty query lists everything.
func (c *Client) Books(ctx context.Context, token, search string) ([]Book, error) {
	path := "/library/books"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	raw, err := c.get(ctx, token, path)
	if err != nil {
		return nil, err
	}
	return decodeList[Book](raw, "books"), nil
}

// get performs a bearer-authenticated GET. A 401 maps to ErrUnauthorized so the
// caller can tear down the session; other non-2xx statuses are plain errors.
func (c *Client) get(ctx context.Context, token, path string) ([]byte, error) {
	endpoint := path
	if i := strings.Index(endpoint, "?"); i >= 0 {
		endpoint = endpoint[:i]
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		observe(endpoint, "error")
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		observe(endpoint, "unauthorized")
		return nil, ErrUnauthorized
	}
	if resp.StatusCode >= 300 {
		observe(endpoint, "error")
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("upstream error %s: %s", resp.Status, string(raw))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		observe(endpoint, "error")
		return nil, fmt.Errorf("upstream response read failed: %w", err)
	}
	observe(endpoint, "ok")
	return raw, nil
}

// serverMessage pulls the human-readable message out of an error body.
func serverMessage(raw []byte) string {
	var out struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return ""
	}
	if out.Message != "" {
		return out.Message
	}
	return out.Error
}
