package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dom/matchup-companion/internal/ddragon"
)

// FakeDataDragon serves a small, mutable Data Dragon feed.
type FakeDataDragon struct {
	Server *httptest.Server

	mu          sync.Mutex
	versions    []string
	champions   map[string]ddragon.ChampionSummary
	details     map[string]ddragon.ChampionDetail
	runeTrees   []ddragon.RuneTree
	items       map[string]ddragon.ItemData
	failures    map[string]int // path suffix -> status code
	versionHits atomic.Int32
	languages   []string
}

func NewFakeDataDragon(t *testing.T) *FakeDataDragon {
	t.Helper()

	f := &FakeDataDragon{
		versions:  []string{"14.2.1", "14.1.1"},
		champions: map[string]ddragon.ChampionSummary{},
		details:   map[string]ddragon.ChampionDetail{},
		items:     map[string]ddragon.ItemData{},
		failures:  map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeDataDragon) URL() string {
	return f.Server.URL
}

func (f *FakeDataDragon) SetVersions(versions ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions = versions
}

// AddChampion registers a champion in the index. When spells is not empty
// a detail document is served for it as well.
func (f *FakeDataDragon) AddChampion(c ddragon.ChampionSummary, spells ...ddragon.Spell) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.champions[c.ID] = c
	if len(spells) > 0 {
		f.details[c.ID] = ddragon.ChampionDetail{ID: c.ID, Spells: spells}
	}
}

func (f *FakeDataDragon) SetRuneTrees(trees []ddragon.RuneTree) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runeTrees = trees
}

func (f *FakeDataDragon) AddItem(riotID string, item ddragon.ItemData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[riotID] = item
}

// Fail makes every request whose path ends with suffix answer status. A
// zero status clears the failure.
func (f *FakeDataDragon) Fail(suffix string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.failures, suffix)
		return
	}
	f.failures[suffix] = status
}

// VersionHits counts versions.json requests, failed ones included.
func (f *FakeDataDragon) VersionHits() int {
	return int(f.versionHits.Load())
}

// Languages returns the language segment of every data request served.
func (f *FakeDataDragon) Languages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.languages...)
}

func (f *FakeDataDragon) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	if path == "/api/versions.json" {
		f.versionHits.Add(1)
	}
	for suffix, status := range f.failures {
		if strings.HasSuffix(path, suffix) {
			http.Error(w, "unavailable", status)
			return
		}
	}

	if path == "/api/versions.json" {
		writeFeed(w, f.versions)
		return
	}

	// /cdn/{version}/data/{lang}/...
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) < 5 || parts[0] != "cdn" || parts[2] != "data" {
		http.NotFound(w, r)
		return
	}
	f.languages = append(f.languages, parts[3])

	switch {
	case len(parts) == 5 && parts[4] == "champion.json":
		writeFeed(w, map[string]interface{}{"type": "champion", "version": parts[1], "data": f.champions})
	case len(parts) == 6 && parts[4] == "champion":
		id := strings.TrimSuffix(parts[5], ".json")
		detail, ok := f.details[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeFeed(w, map[string]interface{}{"data": map[string]ddragon.ChampionDetail{id: detail}})
	case len(parts) == 5 && parts[4] == "runesReforged.json":
		writeFeed(w, f.runeTrees)
	case len(parts) == 5 && parts[4] == "item.json":
		writeFeed(w, map[string]interface{}{"type": "item", "version": parts[1], "data": f.items})
	default:
		http.NotFound(w, r)
	}
}

func writeFeed(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Stock fills the feed with two champions, two rune trees and a handful of
// items covering the skip rules.
func (f *FakeDataDragon) Stock() {
	f.AddChampion(
		ddragon.ChampionSummary{ID: "Aatrox", Key: "266", Name: "Aatrox", Title: "the Darkin Blade", Tags: []string{"Fighter", "Tank"}, Image: ddragon.Image{Full: "Aatrox.png"}},
		ddragon.Spell{ID: "AatroxQ", Name: "The Darkin Blade", Image: ddragon.Image{Full: "AatroxQ.png"}},
		ddragon.Spell{ID: "AatroxW", Name: "Infernal Chains", Image: ddragon.Image{Full: "AatroxW.png"}},
		ddragon.Spell{ID: "AatroxE", Name: "Umbral Dash", Image: ddragon.Image{Full: "AatroxE.png"}},
		ddragon.Spell{ID: "AatroxR", Name: "World Ender", Image: ddragon.Image{Full: "AatroxR.png"}},
	)
	// No detail document: abilities stay empty.
	f.AddChampion(ddragon.ChampionSummary{ID: "Ahri", Key: "103", Name: "Ahri", Title: "the Nine-Tailed Fox", Tags: []string{"Mage", "Assassin"}, Image: ddragon.Image{Full: "Ahri.png"}})

	f.SetRuneTrees(SampleRuneTrees())

	f.AddItem("1055", ddragon.ItemData{Name: "Doran's Blade", Image: ddragon.Image{Full: "1055.png"}, Gold: ddragon.ItemGold{Total: 450, Purchasable: true}, Maps: map[string]bool{"11": true}, Tags: []string{"Damage"}})
	f.AddItem("3031", ddragon.ItemData{Name: "<rarityLegendary>Infinity Edge</rarityLegendary>", Image: ddragon.Image{Full: "3031.png"}, Gold: ddragon.ItemGold{Total: 3400, Purchasable: true}, Depth: 3, From: []string{"1038", "1018"}})
	f.AddItem("3006", ddragon.ItemData{Name: "Berserker's Greaves", Gold: ddragon.ItemGold{Total: 1100, Purchasable: true}, Maps: map[string]bool{"11": false, "12": true}})
	f.AddItem("skin_item", ddragon.ItemData{Name: "Not an item"})
}

// SampleRuneTrees is a trimmed Precision tree and Domination tree.
func SampleRuneTrees() []ddragon.RuneTree {
	return []ddragon.RuneTree{
		{
			ID: 8000, Key: "Precision", Name: "Precision", Icon: "perk-images/Styles/7201_Precision.png",
			Slots: []ddragon.RuneSlot{
				{Runes: []ddragon.RuneData{
					{ID: 8005, Key: "PressTheAttack", Name: "Press the Attack", Icon: "perk-images/Styles/Precision/PressTheAttack/PressTheAttack.png", ShortDesc: "Hitting an enemy champion 3 times deals bonus damage."},
					{ID: 8010, Key: "Conqueror", Name: "Conqueror", Icon: "perk-images/Styles/Precision/Conqueror/Conqueror.png", ShortDesc: "Gain stacking adaptive force."},
				}},
				{Runes: []ddragon.RuneData{
					{ID: 9111, Key: "Triumph", Name: "Triumph", Icon: "perk-images/Styles/Precision/Triumph.png", ShortDesc: "Takedowns restore health."},
				}},
				{Runes: []ddragon.RuneData{
					{ID: 9104, Key: "LegendAlacrity", Name: "Legend: Alacrity", Icon: "perk-images/Styles/Precision/LegendAlacrity/LegendAlacrity.png", ShortDesc: "Gain attack speed."},
				}},
				{Runes: []ddragon.RuneData{
					{ID: 8299, Key: "LastStand", Name: "Last Stand", Icon: "perk-images/Styles/Sorcery/LastStand/LastStand.png", ShortDesc: "Deal more damage at low health."},
				}},
			},
		},
		{
			ID: 8100, Key: "Domination", Name: "Domination", Icon: "perk-images/Styles/7200_Domination.png",
			Slots: []ddragon.RuneSlot{
				{Runes: []ddragon.RuneData{
					{ID: 8112, Key: "Electrocute", Name: "Electrocute", Icon: "perk-images/Styles/Domination/Electrocute/Electrocute.png", ShortDesc: "Burst damage after 3 hits."},
				}},
				{Runes: []ddragon.RuneData{
					{ID: 8126, Key: "CheapShot", Name: "Cheap Shot", Icon: "perk-images/Styles/Domination/CheapShot/CheapShot.png", ShortDesc: "Bonus true damage on impaired enemies."},
				}},
			},
		},
	}
}
