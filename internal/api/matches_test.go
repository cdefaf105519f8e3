package api

import (
	"errors"
	"testing"
)

const sampleMatches = `{
  "status": 200,
  "data": [
    {
      "metadata": {"matchid": "m-1", "map": "Ascent", "mode": "Competitive", "game_start": 1700000000},
      "players": {"all_players": [
        {"puuid": "p-1", "name": "TenZ", "tag": "NA1", "team": "Red",
         "stats": {"score": 300, "kills": 20, "deaths": 10, "assists": 5, "headshots": 30, "bodyshots": 50, "legshots": 4},
         "damage_made": 3100, "assets": {"agent": {"small": "https://media.example/jett.png"}}},
        {"puuid": "p-2", "name": "Other", "tag": "EU1", "team": "Blue"}
      ]},
      "teams": {"red": {"rounds_won": 13}, "blue": {"rounds_won": 9}}
    }
  ]
}`

func TestDecodeMatches(t *testing.T) {
	t.Parallel()

	records, err := DecodeMatches([]byte(sampleMatches))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	m := records[0]
	if m.Metadata.MatchID != "m-1" {
		t.Fatalf("match id = %q", m.Metadata.MatchID)
	}
	if m.Metadata.GameStart == nil || *m.Metadata.GameStart != 1700000000 {
		t.Fatalf("game start = %v", m.Metadata.GameStart)
	}
	if m.Teams.Red.RoundsWon == nil || *m.Teams.Red.RoundsWon != 13 {
		t.Fatalf("red rounds = %v", m.Teams.Red.RoundsWon)
	}

	p := m.FindByNameTag("tenz", "na1")
	if p == nil {
		t.Fatal("expected case-insensitive roster match")
	}
	if p.Puuid != "p-1" {
		t.Fatalf("puuid = %q, want p-1", p.Puuid)
	}
	if p.Stats.Kills == nil || *p.Stats.Kills != 20 {
		t.Fatalf("kills = %v", p.Stats.Kills)
	}
	if p.Assets.Agent.Small == nil || *p.Assets.Agent.Small != "https://media.example/jett.png" {
		t.Fatalf("agent icon = %v", p.Assets.Agent.Small)
	}

	other := m.FindByPuuid("p-2")
	if other == nil || other.Stats.Kills != nil {
		t.Fatalf("expected p-2 with no stats, got %+v", other)
	}
	if m.FindByPuuid("missing") != nil {
		t.Fatal("expected nil for unknown puuid")
	}
}

func TestDecodeMatchesEmptyData(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{}`, `{"data": null}`, `{"data": []}`} {
		records, err := DecodeMatches([]byte(body))
		if err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
		if len(records) != 0 {
			t.Fatalf("decode %s: records = %d, want 0", body, len(records))
		}
	}
}

func TestDecodeMatchesMalformed(t *testing.T) {
	t.Parallel()

	for _, body := range []string{
		`not json`,
		`[1, 2]`,
		`{"data": {"matchid": "x"}}`,
		`{"data": [{"players": {"all_players": [{"stats": {"kills": "many"}}]}}]}`,
	} {
		_, err := DecodeMatches([]byte(body))
		if !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("decode %s: err = %v, want ErrMalformedPayload", body, err)
		}
	}
}

func TestFindByNameTagFoldsNonASCII(t *testing.T) {
	t.Parallel()

	m := MatchRecord{}
	m.Players.AllPlayers = []RosterEntry{{Puuid: "p-1", Name: "Ärger", Tag: "EU1"}}

	if p := m.FindByNameTag("ärger", "eu1"); p == nil || p.Puuid != "p-1" {
		t.Fatalf("lookup = %+v, want p-1", p)
	}
	if m.FindByNameTag("arger", "eu1") != nil {
		t.Fatal("expected no match without the umlaut")
	}
}
