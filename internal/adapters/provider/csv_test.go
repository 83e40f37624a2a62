package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const headerLine = "id,name,position,team,league,age,price,minutes,total_points,goals,assists,form,influence,creativity,threat,ict_index\n"

const validCSV = headerLine +
	"p1,Erling Haaland,FWD,Manchester City,Premier League,25,14.0,2800,224,27,5,8.2,1200.4,310.2,1800.9,331.2\n" +
	"p2,Declan Rice,MID,Arsenal,Premier League,27,6.5,3100,142,7,10,6.1,900.1,820.3,400.2,212.1\n"

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "players.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestCSV_FetchValidFile(t *testing.T) {
	ctx := context.Background()
	p := NewCSV(writeDataset(t, validCSV))

	players, err := p.Fetch(ctx)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}

	first := players[0]
	if first.ID != "p1" || first.Name != "Erling Haaland" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.Position != model.PositionForward {
		t.Errorf("expected FWD, got %s", first.Position)
	}
	if first.Price != 14.0 || first.TotalPoints != 224 || first.Minutes != 2800 {
		t.Errorf("unexpected numerics: %+v", first)
	}
	if first.ICTIndex != 331.2 {
		t.Errorf("expected ict_index 331.2, got %g", first.ICTIndex)
	}
}

func TestCSV_FetchMissingFile(t *testing.T) {
	ctx := context.Background()
	p := NewCSV(filepath.Join(t.TempDir(), "absent.csv"))

	if _, err := p.Fetch(ctx); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestCSV_HeaderValidation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		content string
	}{
		{"wrong column name", "id,name,role,team,league,age,price,minutes,total_points,goals,assists,form,influence,creativity,threat,ict_index\n"},
		{"missing columns", "id,name,position\n"},
		{"empty file", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewCSV(writeDataset(t, tc.content))
			if _, err := p.Fetch(ctx); !errors.Is(err, ErrBadHeader) {
				t.Fatalf("expected ErrBadHeader, got %v", err)
			}
		})
	}
}

func TestCSV_SkipsBadRows(t *testing.T) {
	ctx := context.Background()
	content := validCSV +
		",No ID,FWD,Leeds,Championship,24,5.0,900,50,4,2,1,1,1,1,1\n" + // empty id
		"p3,Bad Price,MID,Leeds,Championship,24,cheap,900,50,4,2,1,1,1,1,1\n" + // bad price
		"p4,Bad Position,SWEEPER,Leeds,Championship,24,5.0,900,50,4,2,1,1,1,1,1\n" + // unknown position
		"p1,Duplicate,FWD,Leeds,Championship,24,5.0,900,50,4,2,1,1,1,1,1\n" + // duplicate id
		"p5,Survivor,DEF,Leeds,Championship,24,4.5,1800,88,2,1,3.2,100,50,60,21\n"
	p := NewCSV(writeDataset(t, content))

	players, err := p.Fetch(ctx)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(players) != 3 {
		t.Fatalf("expected 3 surviving players, got %d", len(players))
	}
	if players[2].ID != "p5" || players[2].Name != "Survivor" {
		t.Errorf("expected p5 to survive, got %+v", players[2])
	}
}

func TestCSV_AllRowsBad(t *testing.T) {
	ctx := context.Background()
	content := headerLine + "p1,Bad,XX,Team,League,24,notaprice,900,50,4,2,1,1,1,1,1\n"
	p := NewCSV(writeDataset(t, content))

	if _, err := p.Fetch(ctx); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
}

func TestCSV_OptionalStatsDefaultToZero(t *testing.T) {
	ctx := context.Background()
	content := headerLine +
		"p1,Plain Stats,DEF,Burnley,Championship,30,4.0,2400,90,1,2,,,,,\n"
	p := NewCSV(writeDataset(t, content))

	players, err := p.Fetch(ctx)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	got := players[0]
	if got.Form != 0 || got.Influence != 0 || got.Creativity != 0 || got.Threat != 0 || got.ICTIndex != 0 {
		t.Errorf("expected zeroed advanced stats, got %+v", got)
	}
	if got.Price != 4.0 || got.Minutes != 2400 {
		t.Errorf("core numerics should still parse: %+v", got)
	}
}

func TestCSV_PositionSynonyms(t *testing.T) {
	ctx := context.Background()
	content := headerLine +
		"p1,A,\"MF,FW\",T,L,24,5.0,900,50,4,2,1,1,1,1,1\n" +
		"p2,B,Goalkeeper,T,L,24,5.0,900,50,0,0,1,1,1,1,1\n"
	p := NewCSV(writeDataset(t, content))

	players, err := p.Fetch(ctx)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if players[0].Position != model.PositionMidfielder {
		t.Errorf("multi-role label should resolve to the first role, got %s", players[0].Position)
	}
	if players[1].Position != model.PositionGoalkeeper {
		t.Errorf("expected GK, got %s", players[1].Position)
	}
}
