package ddragon

import (
	"html"
	"regexp"
	"strings"
)

// SummonersRiftMapID is the Data Dragon map key of Summoner's Rift.
const SummonersRiftMapID = "11"

// CompletedItemDepth is the build depth at which an item counts as a
// finished (legendary) item.
const CompletedItemDepth = 3

// FlatRune is a rune with the position of its tree and slot resolved.
type FlatRune struct {
	RuneData
	TreeID    int
	TreeName  string
	SlotIndex int
}

// FlattenRunes walks trees, then slots, then runes. SlotIndex is the
// slot's position inside its tree, so keystones get 0.
func FlattenRunes(trees []RuneTree) []FlatRune {
	var out []FlatRune
	for _, tree := range trees {
		for slotIndex, slot := range tree.Slots {
			for _, r := range slot.Runes {
				out = append(out, FlatRune{
					RuneData:  r,
					TreeID:    tree.ID,
					TreeName:  tree.Name,
					SlotIndex: slotIndex,
				})
			}
		}
	}
	return out
}

// AvailableOnSummonersRift is false only when the feed explicitly marks
// the item as unavailable on map 11. Items without map data are kept.
func (d ItemData) AvailableOnSummonersRift() bool {
	available, ok := d.Maps[SummonersRiftMapID]
	return !ok || available
}

func (d ItemData) IsCompleted() bool {
	return d.Depth >= CompletedItemDepth
}

var markupTag = regexp.MustCompile(`<[^>]*>`)

// StripMarkup removes HTML-like tags and decodes entities.
func StripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(markupTag.ReplaceAllString(s, "")))
}
