// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package note

import "sort"

// Facets lists the distinct tags and non-zero years across a collection.
type Facets struct {
	Tags  []string `json:"tags" yaml:"tags"`
	Years []int    `json:"years" yaml:"years"`
}

// CollectFacets scans every note under dir. Tags are sorted; years are
// ascending.
func CollectFacets(dir string) (Facets, error) {
	notes, err := LoadAll(dir)
	if err != nil {
		return Facets{}, err
	}

	tagSet := make(map[string]bool)
	yearSet := make(map[int]bool)
	for _, n := range notes {
		for _, t := range n.Meta.Strings("tags") {
			tagSet[t] = true
		}
		if y := n.Meta.Int("year"); y != 0 {
			yearSet[y] = true
		}
	}

	f := Facets{Tags: []string{}, Years: []int{}}
	for t := range tagSet {
		f.Tags = append(f.Tags, t)
	}
	for y := range yearSet {
		f.Years = append(f.Years, y)
	}
	sort.Strings(f.Tags)
	sort.Ints(f.Years)
	return f, nil
}
