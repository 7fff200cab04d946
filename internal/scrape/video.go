package scrape

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	SourceRutube  = "rutube"
	SourceYouTube = "youtube"
)

type rutubeListing struct {
	Results []struct {
		ID json.RawMessage `json:"id"`
	} `json:"results"`
}

type youtubeSearch struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// ParseRutube returns the id of entry offset in a Rutube channel listing.
func ParseRutube(body []byte, offset int) (string, error) {
	var l rutubeListing
	if err := json.Unmarshal(body, &l); err != nil {
		return "", StructureError(SourceRutube, err)
	}
	ids := make([]string, 0, len(l.Results))
	for _, r := range l.Results {
		ids = append(ids, rawID(r.ID))
	}
	return pick(SourceRutube, ids, offset)
}

// ParseYouTube returns the video id of entry offset in a YouTube Data API
// search response. Non-video items are ignored.
func ParseYouTube(body []byte, offset int) (string, error) {
	var s youtubeSearch
	if err := json.Unmarshal(body, &s); err != nil {
		return "", StructureError(SourceYouTube, err)
	}
	var ids []string
	for _, it := range s.Items {
		if it.ID.VideoID != "" {
			ids = append(ids, it.ID.VideoID)
		}
	}
	return pick(SourceYouTube, ids, offset)
}

func pick(source string, ids []string, offset int) (string, error) {
	if offset < 0 {
		return "", StructureError(source, fmt.Errorf("negative offset %d", offset))
	}
	if len(ids) <= offset {
		return "", EmptyError(source)
	}
	if ids[offset] == "" {
		return "", StructureError(source, fmt.Errorf("entry %d has no id", offset))
	}
	return ids[offset], nil
}

// rawID accepts both string and numeric ids.
func rawID(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	v := strings.TrimSpace(string(raw))
	if v == "null" {
		return ""
	}
	return v
}
