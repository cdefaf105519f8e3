package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedPayload = errors.New("malformed upstream payload")

// MatchesResponse is the v3 match list. All stat fields are optional upstream.
type MatchesResponse struct {
	Status int           `json:"status"`
	Data   []MatchRecord `json:"data"`
}

type MatchRecord struct {
	Metadata MatchMetadata `json:"metadata"`
	Players  struct {
		AllPlayers []RosterEntry `json:"all_players"`
	} `json:"players"`
	Teams struct {
		Red  TeamResult `json:"red"`
		Blue TeamResult `json:"blue"`
	} `json:"teams"`
}

type MatchMetadata struct {
	MatchID   string  `json:"matchid"`
	Map       *string `json:"map"`
	Mode      *string `json:"mode"`
	Region    *string `json:"region"`
	GameStart *int64  `json:"game_start"`
}

type TeamResult struct {
	RoundsWon *int `json:"rounds_won"`
}

type RosterEntry struct {
	Puuid string  `json:"puuid"`
	Name  string  `json:"name"`
	Tag   string  `json:"tag"`
	Team  *string `json:"team"`
	Stats struct {
		Score     *int `json:"score"`
		Kills     *int `json:"kills"`
		Deaths    *int `json:"deaths"`
		Assists   *int `json:"assists"`
		Headshots *int `json:"headshots"`
		Bodyshots *int `json:"bodyshots"`
		Legshots  *int `json:"legshots"`
	} `json:"stats"`
	DamageMade *int `json:"damage_made"`
	Assets     struct {
		Agent struct {
			Small *string `json:"small"`
		} `json:"agent"`
	} `json:"assets"`
}

// DecodeMatches turns a match list body into typed records. A missing or null
// data field is an empty list; anything that is not the expected shape is
// ErrMalformedPayload.
func DecodeMatches(body []byte) ([]MatchRecord, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var records []MatchRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: data: %v", ErrMalformedPayload, err)
	}
	return records, nil
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FindByNameTag matches name and tag by their lower-cased form, the same
// folding the store and cache keys use.
func (m *MatchRecord) FindByNameTag(name, tag string) *RosterEntry {
	name, tag = foldKey(name), foldKey(tag)
	for i := range m.Players.AllPlayers {
		p := &m.Players.AllPlayers[i]
		if foldKey(p.Name) == name && foldKey(p.Tag) == tag {
			return p
		}
	}
	return nil
}

func (m *MatchRecord) FindByPuuid(puuid string) *RosterEntry {
	for i := range m.Players.AllPlayers {
		p := &m.Players.AllPlayers[i]
		if p.Puuid == puuid {
			return p
		}
	}
	return nil
}
