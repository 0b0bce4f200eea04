package api

import (
	"KVideo/internal/auth"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	fsrepo "KVideo/internal/cli/repo/fs"
)

// doJSON выполняет запрос с JSON‑телом (или без) и возвращает ответ и тело.
// Если token непустой, он передаётся как auth‑cookie.
func doJSON(ctx context.Context, method, url string, payload any, token string) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	return resp, respBody, nil
}

// GetJSON sends a GET request with the auth cookie.
func GetJSON(ctx context.Context, url, token string) (*http.Response, []byte, error) {
	return doJSON(ctx, http.MethodGet, url, nil, token)
}

// PostJSON sends a JSON POST request. If token is non-empty, it is passed as auth cookie.
func PostJSON(ctx context.Context, url string, payload any, token string) (*http.Response, []byte, error) {
	return doJSON(ctx, http.MethodPost, url, payload, token)
}

// PutJSON sends a JSON PUT request with the auth cookie.
func PutJSON(ctx context.Context, url string, payload any, token string) (*http.Response, []byte, error) {
	return doJSON(ctx, http.MethodPut, url, payload, token)
}

// DeleteJSON sends a DELETE request with the auth cookie.
func DeleteJSON(ctx context.Context, url, token string) (*http.Response, []byte, error) {
	return doJSON(ctx, http.MethodDelete, url, nil, token)
}

// PersistAuthFromResponse извлекает auth cookie из ответа и сохраняет её через файловое хранилище.
func PersistAuthFromResponse(resp *http.Response) error {
	store := fsrepo.AuthFSStore{}
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName && c.Value != "" {
			return store.Save(c.Value)
		}
	}
	return fmt.Errorf("no auth cookie in response")
}
