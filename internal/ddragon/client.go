// Package ddragon reads Riot's Data Dragon static content feed.
package ddragon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

const DefaultBaseURL = "https://ddragon.leagueoflegends.com"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type Image struct {
	Full string `json:"full"`
}

type ChampionSummary struct {
	ID    string   `json:"id"`  // "Aatrox"
	Key   string   `json:"key"` // "266"
	Name  string   `json:"name"`
	Title string   `json:"title"`
	Blurb string   `json:"blurb"`
	Tags  []string `json:"tags"`
	Image Image    `json:"image"`
}

type championIndex struct {
	Data map[string]ChampionSummary `json:"data"`
}

type Spell struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image Image  `json:"image"`
}

type ChampionDetail struct {
	ID     string  `json:"id"`
	Spells []Spell `json:"spells"`
}

type championDetailDoc struct {
	Data map[string]ChampionDetail `json:"data"`
}

type RuneData struct {
	ID        int    `json:"id"`
	Key       string `json:"key"`
	Icon      string `json:"icon"`
	Name      string `json:"name"`
	ShortDesc string `json:"shortDesc"`
}

type RuneSlot struct {
	Runes []RuneData `json:"runes"`
}

type RuneTree struct {
	ID    int        `json:"id"`
	Key   string     `json:"key"`
	Icon  string     `json:"icon"`
	Name  string     `json:"name"`
	Slots []RuneSlot `json:"slots"`
}

type ItemGold struct {
	Total       int  `json:"total"`
	Purchasable bool `json:"purchasable"`
}

type ItemData struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       Image           `json:"image"`
	Gold        ItemGold        `json:"gold"`
	Tags        []string        `json:"tags"`
	From        []string        `json:"from"`
	Into        []string        `json:"into"`
	Maps        map[string]bool `json:"maps"`
	Depth       int             `json:"depth"`
}

type itemIndex struct {
	Data map[string]ItemData `json:"data"`
}

// Versions returns the published versions, newest first.
func (c *Client) Versions(ctx context.Context) ([]string, error) {
	var versions []string
	if err := c.getJSON(ctx, c.baseURL+"/api/versions.json", &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// Champions returns the champion index sorted by champion id so callers
// see a stable order.
func (c *Client) Champions(ctx context.Context, version, language string) ([]ChampionSummary, error) {
	var doc championIndex
	url := fmt.Sprintf("%s/cdn/%s/data/%s/champion.json", c.baseURL, version, language)
	if err := c.getJSON(ctx, url, &doc); err != nil {
		return nil, err
	}

	champions := make([]ChampionSummary, 0, len(doc.Data))
	for _, champ := range doc.Data {
		champions = append(champions, champ)
	}
	sort.Slice(champions, func(i, j int) bool { return champions[i].ID < champions[j].ID })
	return champions, nil
}

func (c *Client) ChampionDetail(ctx context.Context, version, language, championID string) (*ChampionDetail, error) {
	var doc championDetailDoc
	url := fmt.Sprintf("%s/cdn/%s/data/%s/champion/%s.json", c.baseURL, version, language, championID)
	if err := c.getJSON(ctx, url, &doc); err != nil {
		return nil, err
	}

	detail, ok := doc.Data[championID]
	if !ok {
		return nil, fmt.Errorf("champion %s missing from detail document", championID)
	}
	return &detail, nil
}

func (c *Client) RuneTrees(ctx context.Context, version, language string) ([]RuneTree, error) {
	var trees []RuneTree
	url := fmt.Sprintf("%s/cdn/%s/data/%s/runesReforged.json", c.baseURL, version, language)
	if err := c.getJSON(ctx, url, &trees); err != nil {
		return nil, err
	}
	return trees, nil
}

func (c *Client) Items(ctx context.Context, version, language string) (map[string]ItemData, error) {
	var doc itemIndex
	url := fmt.Sprintf("%s/cdn/%s/data/%s/item.json", c.baseURL, version, language)
	if err := c.getJSON(ctx, url, &doc); err != nil {
		return nil, err
	}
	return doc.Data, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (c *Client) ChampionImageURL(version, file string) string {
	return fmt.Sprintf("%s/cdn/%s/img/champion/%s", c.baseURL, version, file)
}

func (c *Client) SpellImageURL(version, file string) string {
	return fmt.Sprintf("%s/cdn/%s/img/spell/%s", c.baseURL, version, file)
}

func (c *Client) ItemImageURL(version, file string) string {
	return fmt.Sprintf("%s/cdn/%s/img/item/%s", c.baseURL, version, file)
}

// RuneIconURL resolves a rune icon path such as
// "perk-images/Styles/Precision/PressTheAttack/PressTheAttack.png".
func (c *Client) RuneIconURL(iconPath string) string {
	return fmt.Sprintf("%s/cdn/img/%s", c.baseURL, iconPath)
}

func (c *Client) RuneTreeIconURL(treeID int, treeName string) string {
	return fmt.Sprintf("%s/cdn/img/perk-images/Styles/%d_%s.png", c.baseURL, treeID, treeName)
}
