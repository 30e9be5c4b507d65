package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type task struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	DueDate   *string `json:"due_date"`
	Priority  string  `json:"priority"`
	Category  *string `json:"category"`
	Completed bool    `json:"completed"`
}

// apiClient talks to the planner JSON API with a bearer token.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) do(method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("planner unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %s", method, path, e.Error)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) login(username, password string) error {
	var res struct {
		Token string `json:"token"`
	}
	if err := c.do(http.MethodPost, "/login", map[string]string{"username": username, "password": password}, &res); err != nil {
		return err
	}
	c.token = res.Token
	return nil
}

func (c *apiClient) tasks() ([]task, error) {
	var tasks []task
	err := c.do(http.MethodGet, "/api/tasks", nil, &tasks)
	return tasks, err
}

func (c *apiClient) dueCount() (int, error) {
	var res struct {
		Count int `json:"count"`
	}
	err := c.do(http.MethodGet, "/notification_count", nil, &res)
	return res.Count, err
}

func (c *apiClient) setCompleted(id string, completed bool) error {
	return c.do(http.MethodPut, "/api/tasks/"+id, map[string]bool{"completed": completed}, nil)
}

func (c *apiClient) deleteTask(id string) error {
	return c.do(http.MethodDelete, "/api/tasks/"+id, nil, nil)
}
