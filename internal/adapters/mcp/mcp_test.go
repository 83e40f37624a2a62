package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/domain/compare"
	"github.com/okian/scout/internal/domain/filter"
	"github.com/okian/scout/internal/domain/metric"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/rank"
	"github.com/okian/scout/internal/domain/recommend"
	"github.com/okian/scout/internal/domain/types"
)

func fixturePlayers() []model.Player {
	return []model.Player{
		{ID: "alonso", Name: "Marcos Alonso", Position: model.PositionDefender, Team: "Chelsea", League: "Premier League", Age: 30, Price: 6, Minutes: 2700, TotalPoints: 60, Influence: 500},
		{ID: "cancelo", Name: "Joao Cancelo", Position: model.PositionDefender, Team: "Man City", League: "Premier League", Age: 27, Price: 4, Minutes: 2500, TotalPoints: 40, Influence: 450},
		{ID: "salah", Name: "Mohamed Salah", Position: model.PositionForward, Team: "Liverpool", League: "Premier League", Age: 33, Price: 13, Minutes: 3000, TotalPoints: 211, Influence: 900},
	}
}

// fakeDeps serves the fixture dataset through the real engine functions so
// tool output matches what the service would produce.
type fakeDeps struct {
	err error
}

func (f *fakeDeps) enriched() []model.EnrichedPlayer {
	out, err := metric.Enrich(fixturePlayers(), fixturePlayers())
	if err != nil {
		panic(err)
	}
	return out
}

func (f *fakeDeps) EnrichedPlayers(_ context.Context, criteria filter.Criteria) ([]model.EnrichedPlayer, error) {
	if f.err != nil {
		return nil, f.err
	}
	selected, err := filter.Apply(fixturePlayers(), criteria)
	if err != nil {
		return nil, err
	}
	return metric.Enrich(selected, fixturePlayers())
}

func (f *fakeDeps) TopN(_ context.Context, criteria filter.Criteria, key string, n int, descending bool) ([]model.EnrichedPlayer, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	return rank.TopN(f.enriched(), key, n, descending)
}

func (f *fakeDeps) Compare(_ context.Context, aID, bID string) (compare.Comparison, error) {
	if f.err != nil {
		return compare.Comparison{}, f.err
	}
	var a, b model.EnrichedPlayer
	for _, p := range f.enriched() {
		switch p.ID {
		case aID:
			a = p
		case bID:
			b = p
		}
	}
	if a.ID == "" || b.ID == "" {
		return compare.Comparison{}, repository.ErrNotFound
	}
	return compare.Players(a, b, fixturePlayers())
}

func (f *fakeDeps) Recommend(_ context.Context, playerID string, budget float64, position model.Position, limit int) ([]recommend.Suggestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	var ref model.EnrichedPlayer
	for _, p := range f.enriched() {
		if p.ID == playerID {
			ref = p
		}
	}
	if ref.ID == "" {
		return nil, repository.ErrNotFound
	}
	return recommend.Replacements(recommend.Request{
		Reference:  ref,
		Candidates: f.enriched(),
		Budget:     budget,
		Position:   position,
		Limit:      limit,
	})
}

func resultText(t *testing.T, res *sdk.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(*sdk.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return tc.Text
}

func TestSearchPlayersTool(t *testing.T) {
	convey.Convey("Given an MCP server over the fixture dataset", t, func() {
		srv := NewServer(&fakeDeps{}, 100)
		ctx := context.Background()

		convey.Convey("When searching without constraints", func() {
			res, _, err := srv.searchPlayers(ctx, nil, SearchPlayersArgs{})
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.IsError, convey.ShouldBeFalse)

			var views []types.PlayerView
			convey.So(json.Unmarshal([]byte(resultText(t, res)), &views), convey.ShouldBeNil)
			convey.So(views, convey.ShouldHaveLength, 3)
			convey.So(views[0].Name, convey.ShouldEqual, "Marcos Alonso")
			convey.So(views[0].ValueEfficiency, convey.ShouldNotBeNil)
		})

		convey.Convey("When filtering by position and limiting", func() {
			res, _, err := srv.searchPlayers(ctx, nil, SearchPlayersArgs{
				FilterArgs: FilterArgs{Position: "DEF"},
				Limit:      1,
			})
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.IsError, convey.ShouldBeFalse)

			var views []types.PlayerView
			convey.So(json.Unmarshal([]byte(resultText(t, res)), &views), convey.ShouldBeNil)
			convey.So(views, convey.ShouldHaveLength, 1)
			convey.So(views[0].Position, convey.ShouldEqual, "DEF")
		})

		convey.Convey("When the limit exceeds the cap", func() {
			res, _, err := srv.searchPlayers(ctx, nil, SearchPlayersArgs{Limit: 101})
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.IsError, convey.ShouldBeTrue)
			convey.So(resultText(t, res), convey.ShouldContainSubstring, "exceeds maximum")
		})

		convey.Convey("When the position is unknown", func() {
			res, _, err := srv.searchPlayers(ctx, nil, SearchPlayersArgs{
				FilterArgs: FilterArgs{Position: "WINGER"},
			})
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.IsError, convey.ShouldBeTrue)
		})
	})
}

func TestTopPlayersTool(t *testing.T) {
	convey.Convey("Given an MCP server over the fixture dataset", t, func() {
		srv := NewServer(&fakeDeps{}, 100)
		ctx := context.Background()

		convey.Convey("When ranking by total points", func() {
			res, _, err := srv.topPlayers(ctx, nil, TopPlayersArgs{Key: rank.KeyTotalPoints, Limit: 2})
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.IsError, convey.ShouldBeFalse)

			var rows []types.RankedRow
			convey.So(json.Unmarshal([]byte(resultText(t, res)), &rows), convey.ShouldBeNil)
			convey.So(rows, convey.ShouldHaveLength, 2)
			convey.So(rows[0].Player.ID, convey.ShouldEqual, "salah")
			convey.So(rows[0].Rank, convey.ShouldEqual, 1)
			convey.So(rows[1].Player.ID, convey.ShouldEqual, "alonso")
		})

		convey.Convey("When ranking ascending", func() {
			res, _, err := srv.topPlayers(ctx, nil, TopPlayersArgs{Key: rank.KeyPrice, Limit: 1, Ascending: true})
			convey.So(err, convey.ShouldBeNil)

			var rows []types.RankedRow
			convey.So(json.Unmarshal([]byte(resultText(t, res)), &rows), convey.ShouldBeNil)
			convey.So(rows[0].Player.ID, convey.ShouldEqual, "cancelo")
		})

		convey.Convey("When the sort key is unknown", func() {
			res, _, err := srv.topPlayers(ctx, nil, TopPlayersArgs{Key: "charisma"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.IsError, convey.ShouldBeTrue)
			convey.So(resultText(t, res), convey.ShouldContainSubstring, "unknown sort key")
		})
	})
}

func TestComparePlayersTool(t *testing.T) {
	convey.Convey("Given an MCP server over the fixture dataset", t, func() {
		srv := NewServer(&fakeDeps{}, 100)
		ctx := context.Background()

		convey.Convey("When comparing two known players", func() {
			res, _, err := srv.comparePlayers(ctx, nil, ComparePlayersArgs{PlayerA: "alonso", PlayerB: "salah"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.IsError, convey.ShouldBeFalse)

			var cmp types.Comparison
			convey.So(json.Unmarshal([]byte(resultText(t, res)), &cmp), convey.ShouldBeNil)
			convey.So(cmp.A.ID, convey.ShouldEqual, "alonso")
			convey.So(cmp.B.ID, convey.ShouldEqual, "salah")
			convey.So(cmp.Axes, convey.ShouldHaveLength, 5)
		})

		convey.Convey("When an id is missing", func() {
			res, _, err := srv.comparePlayers(ctx, nil, ComparePlayersArgs{PlayerA: "alonso"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.IsError, convey.ShouldBeTrue)
			convey.So(resultText(t, res), convey.ShouldContainSubstring, "required")
		})
	})
}

func TestRecommendReplacementsTool(t *testing.T) {
	convey.Convey("Given an MCP server over the fixture dataset", t, func() {
		srv := NewServer(&fakeDeps{}, 100)
		ctx := context.Background()

		convey.Convey("When recommending within budget", func() {
			res, _, err := srv.recommendReplacements(ctx, nil, RecommendReplacementsArgs{Player: "alonso", Budget: 5})
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.IsError, convey.ShouldBeFalse)

			var suggestions []types.Suggestion
			convey.So(json.Unmarshal([]byte(resultText(t, res)), &suggestions), convey.ShouldBeNil)
			convey.So(suggestions, convey.ShouldHaveLength, 1)
			convey.So(suggestions[0].Player.ID, convey.ShouldEqual, "cancelo")
			// pointsDelta -20, valueDelta 0, savings 2 -> -40 + 0 + 6
			convey.So(suggestions[0].Score, convey.ShouldAlmostEqual, -34, 1e-9)
			for _, s := range suggestions {
				convey.So(s.Player.ID, convey.ShouldNotEqual, "alonso")
				convey.So(s.Player.Price, convey.ShouldBeLessThanOrEqualTo, 5.0)
			}
		})

		convey.Convey("When no candidate fits the budget", func() {
			res, _, err := srv.recommendReplacements(ctx, nil, RecommendReplacementsArgs{Player: "cancelo", Budget: 1})
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.IsError, convey.ShouldBeTrue)
			convey.So(resultText(t, res), convey.ShouldContainSubstring, "empty candidate pool")
		})

		convey.Convey("When the player id is blank", func() {
			res, _, err := srv.recommendReplacements(ctx, nil, RecommendReplacementsArgs{Budget: 5})
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.IsError, convey.ShouldBeTrue)
		})

		convey.Convey("When the engine reports an internal failure", func() {
			broken := NewServer(&fakeDeps{err: fmt.Errorf("snapshot gone")}, 100)
			res, _, err := broken.recommendReplacements(ctx, nil, RecommendReplacementsArgs{Player: "alonso", Budget: 5})
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.IsError, convey.ShouldBeTrue)
			convey.So(resultText(t, res), convey.ShouldContainSubstring, "snapshot gone")
		})
	})
}

func TestHandlerAndRegister(t *testing.T) {
	convey.Convey("Given an MCP server", t, func() {
		srv := NewServer(&fakeDeps{}, 100)

		convey.Convey("Then the streamable handler is buildable", func() {
			convey.So(srv.Handler(), convey.ShouldNotBeNil)
		})

		convey.Convey("And Register mounts the endpoint on the mux", func() {
			mux := http.NewServeMux()
			srv.Register(context.Background(), mux, "/mcp")

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp", nil))
			convey.So(rec.Code, convey.ShouldNotEqual, http.StatusNotFound)
		})

		convey.Convey("And Register panics on a nil mux", func() {
			convey.So(func() {
				srv.Register(context.Background(), nil, "/mcp")
			}, convey.ShouldPanic)
		})
	})
}
