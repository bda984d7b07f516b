package directus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nickppf/nickppf-api/internal/entity"
)

const collectionOrders = "orders"

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// FileURL monta o link público de um arquivo do Directus.
func (c *Client) FileURL(fileID string) string {
	return fmt.Sprintf("%s/assets/%s", c.baseURL, url.PathEscape(fileID))
}

// Items lê /items/{collection} e decodifica o campo "data" em out.
func (c *Client) Items(ctx context.Context, collection string, query url.Values, out any) error {
	return c.getData(ctx, "/items/"+url.PathEscape(collection), query, out)
}

func (c *Client) Item(ctx context.Context, collection, id string, out any) error {
	return c.getData(ctx, "/items/"+url.PathEscape(collection)+"/"+url.PathEscape(id), nil, out)
}

// Count usa aggregate[count]=*. Dependendo da versão o Directus devolve número ou string.
func (c *Client) Count(ctx context.Context, collection string) (int, error) {
	q := url.Values{}
	q.Set("aggregate[count]", "*")

	var rows []struct {
		Count json.RawMessage `json:"count"`
	}
	if err := c.Items(ctx, collection, q, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := strconv.Atoi(idString(rows[0].Count))
	if err != nil {
		return 0, fmt.Errorf("directus: invalid count for %s: %w", collection, err)
	}
	return n, nil
}

func (c *Client) FindClientByEmail(ctx context.Context, email string) (*entity.Client, error) {
	q := url.Values{}
	q.Set("filter[email][_eq]", email)
	q.Set("limit", "1")

	var users []userRecord
	if err := c.getData(ctx, "/users", q, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}

	u := users[0]
	client := &entity.Client{ID: u.ID, Email: u.Email, FirstName: u.FirstName, Phone: u.Phone}
	if role, ok := u.Role.(string); ok {
		client.RoleID = role
	}
	return client, nil
}

func (c *Client) FindRoleIDByName(ctx context.Context, name string) (string, error) {
	q := url.Values{}
	q.Set("filter[name][_eq]", name)
	q.Set("limit", "1")

	var roles []roleRecord
	if err := c.getData(ctx, "/roles", q, &roles); err != nil {
		return "", err
	}
	if len(roles) == 0 {
		return "", nil
	}
	return roles[0].ID, nil
}

func (c *Client) CreateClient(ctx context.Context, client *entity.Client) (string, error) {
	return c.create(ctx, "/users", createUserRequest{
		Email:     client.Email,
		FirstName: client.FirstName,
		Phone:     client.Phone,
		Role:      client.RoleID,
	})
}

func (c *Client) CreateOrder(ctx context.Context, order *entity.Order) (string, error) {
	return c.create(ctx, "/items/"+collectionOrders, order)
}

// Ping usa /server/ping, que não exige token.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/server/ping", nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("directus: ping status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) create(ctx context.Context, path string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("directus: marshal payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("directus: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", parseAPIError(resp.StatusCode, respBody)
	}

	var created idResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", fmt.Errorf("directus: decode response: %w", err)
	}
	id := idString(created.Data.ID)
	if id == "" || id == "null" {
		return "", fmt.Errorf("directus: %s returned no id", path)
	}
	return id, nil
}

func (c *Client) getData(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("directus: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, body)
	}

	var envelope dataResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("directus: decode %s: %w", path, err)
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("directus: decode %s data: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("directus: build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directus: %s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "NickPPF/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
