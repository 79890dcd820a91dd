// Package hotspot groups waste posts by the area part of their location.
package hotspot

import (
	"sort"
	"strings"

	"GREENPATH_BACK-END/internal/models"
)

// UnknownArea is used for posts whose location has no area text
const UnknownArea = "Unknown location"

// Hotspot is one area with the posts reported there
type Hotspot struct {
	Area  string
	Count int
	Items []models.WastePost
}

// AreaOf returns the location text before the first comma
func AreaOf(location string) string {
	area, _, _ := strings.Cut(location, ",")
	area = strings.TrimSpace(area)
	if area == "" {
		return UnknownArea
	}
	return area
}

// Group aggregates posts into hotspots sorted by count, largest first.
// Equal counts keep the order in which the area first appeared in posts.
func Group(posts []models.WastePost) []Hotspot {
	index := make(map[string]int)
	hotspots := []Hotspot{}
	for _, p := range posts {
		area := AreaOf(p.Location)
		i, ok := index[area]
		if !ok {
			i = len(hotspots)
			index[area] = i
			hotspots = append(hotspots, Hotspot{Area: area})
		}
		hotspots[i].Count++
		hotspots[i].Items = append(hotspots[i].Items, p)
	}

	sort.SliceStable(hotspots, func(a, b int) bool {
		return hotspots[a].Count > hotspots[b].Count
	})
	return hotspots
}
