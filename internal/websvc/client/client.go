// Package client talks to the card API on behalf of the web frontend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/avvvet/poketracker/internal/cardsvc/models"
)

// ErrRequestFailed wraps every non-2xx answer; callers treat them alike.
var ErrRequestFailed = errors.New("card api request failed")

// StatusError carries the status and server message of a failed call.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *StatusError) Unwrap() error { return ErrRequestFailed }

// CardForm is the JSON body sent on create and update. Nil fields are omitted.
type CardForm struct {
	Name      *string `json:"name,omitempty"`
	Set       *string `json:"set,omitempty"`
	Number    *string `json:"number,omitempty"`
	Rarity    *string `json:"rarity,omitempty"`
	Condition *string `json:"condition,omitempty"`
	Value     *string `json:"value,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	ImageURL  *string `json:"imageUrl,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

const cardsPath = "/api/pokemon-cards"

func (c *Client) ListCards(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	if err := c.do(ctx, http.MethodGet, cardsPath, nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Client) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	var card models.Card
	if err := c.do(ctx, http.MethodGet, cardPath(id), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) CreateCard(ctx context.Context, form CardForm) (*models.Card, error) {
	var card models.Card
	if err := c.do(ctx, http.MethodPost, cardsPath, form, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) UpdateCard(ctx context.Context, id int64, form CardForm) (*models.Card, error) {
	var card models.Card
	if err := c.do(ctx, http.MethodPut, cardPath(id), form, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) DeleteCard(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, cardPath(id), nil, nil)
}

func cardPath(id int64) string {
	return cardsPath + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Message: e.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrRequestFailed, method, path, err)
	}
	return nil
}
