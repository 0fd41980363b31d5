package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// APIClient talks to a running matchup companion server.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api",
		httpClient: &http.Client{
			// sync-all fetches the whole feed server side
			Timeout: 5 * time.Minute,
		},
	}
}

type AuthResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	UserID       string   `json:"userId"`
	UserName     string   `json:"userName"`
	Roles        []string `json:"roles"`
}

type SyncResponse struct {
	Message         string `json:"message"`
	Version         string `json:"version,omitempty"`
	Language        string `json:"language"`
	ChampionsSynced int    `json:"championsSynced"`
	RunesSynced     int    `json:"runesSynced"`
	ItemsSynced     int    `json:"itemsSynced"`
}

type named struct {
	Name string `json:"name"`
}

type Matchup struct {
	ID             int     `json:"id"`
	PlayerChampion named   `json:"playerChampion"`
	EnemyChampion  named   `json:"enemyChampion"`
	Role           named   `json:"role"`
	Difficulty     string  `json:"difficulty"`
	GeneralAdvice  *string `json:"generalAdvice"`
	Tips           []struct {
		Category string `json:"category"`
		Content  string `json:"content"`
		Priority int    `json:"priority"`
	} `json:"tips"`
}

// Login stores the access token for later calls.
func (c *APIClient) Login(email, password string) (*AuthResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var result AuthResponse
	if err := c.do(http.MethodPost, "/auth/login", body, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	c.token = result.Token
	return &result, nil
}

// Sync triggers one of the riotsync endpoints. what is champions, runes,
// items or all.
func (c *APIClient) Sync(what, language string) (*SyncResponse, error) {
	path := "/riotsync/sync-" + what
	if language != "" {
		path += "?language=" + url.QueryEscape(language)
	}

	var result SyncResponse
	if err := c.do(http.MethodPost, path, nil, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("sync %s: %w", what, err)
	}
	return &result, nil
}

func (c *APIClient) FindMatchup(playerChampionID, enemyChampionID, roleID int) (*Matchup, error) {
	q := url.Values{}
	q.Set("playerChampionId", strconv.Itoa(playerChampionID))
	q.Set("enemyChampionId", strconv.Itoa(enemyChampionID))
	q.Set("roleId", strconv.Itoa(roleID))

	var result Matchup
	if err := c.do(http.MethodGet, "/matchups/search?"+q.Encode(), nil, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("find matchup: %w", err)
	}
	return &result, nil
}

func (c *APIClient) do(method, path string, body interface{}, wantStatus int, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
