package loadgen

import "time"

// Config holds configuration for the load run
type Config struct {
	BaseURL     string        // Base URL of the service
	DatasetFile string        // CSV file the service reads (its csv_path)
	NumPlayers  int           // Number of players to generate
	NumQueries  int           // Number of recommendation queries to issue
	TopN        int           // Ranking depth to fetch and verify
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	LogFile     string        // Log file for run output
	Verbose     bool          // Enable verbose logging
}

// Player is one generated dataset row, mirroring the CSV column set.
type Player struct {
	ID          string
	Name        string
	Position    string
	Team        string
	League      string
	Age         int
	Price       float64
	Minutes     int
	TotalPoints float64
	Goals       int
	Assists     int
	Form        float64
	Influence   float64
	Creativity  float64
	Threat      float64
	ICTIndex    float64
}

// PlayerView is the wire shape of a player in query responses. Only the
// fields the verifier reads are decoded.
type PlayerView struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Position        string   `json:"position"`
	Team            string   `json:"team"`
	Price           float64  `json:"price"`
	TotalPoints     float64  `json:"total_points"`
	ValueEfficiency *float64 `json:"value_efficiency"`
}

// RankedEntry represents one row of a /rankings response
type RankedEntry struct {
	Rank   int        `json:"rank"`
	Key    string     `json:"key"`
	Value  float64    `json:"value"`
	Player PlayerView `json:"player"`
}

// RankingSample holds two back-to-back fetches of one ranking key, used to
// check that order is stable while the snapshot does not change.
type RankingSample struct {
	Key    string
	First  []RankedEntry
	Second []RankedEntry
}

// Suggestion represents one scored candidate of a /recommendations response
type Suggestion struct {
	Player       PlayerView `json:"player"`
	Score        float64    `json:"score"`
	PointsDelta  float64    `json:"points_delta"`
	ValueDelta   float64    `json:"value_delta"`
	PriceSavings float64    `json:"price_savings"`
}

// RadarAxis represents one axis of a /compare response
type RadarAxis struct {
	Name          string  `json:"name"`
	NormalizedA   float64 `json:"normalized_a"`
	NormalizedB   float64 `json:"normalized_b"`
	PopulationMax float64 `json:"population_max"`
}

// Comparison represents a /compare response
type Comparison struct {
	A    PlayerView  `json:"a"`
	B    PlayerView  `json:"b"`
	Axes []RadarAxis `json:"axes"`
}

// RefreshResponse represents the response from POST /refresh
type RefreshResponse struct {
	Status string `json:"status"`
	Queued bool   `json:"queued"`
}

// SnapshotStats is the subset of GET /stats the tool polls while waiting
// for the generated dataset to be served.
type SnapshotStats struct {
	SnapshotLoaded bool   `json:"snapshot_loaded"`
	SnapshotID     string `json:"snapshot_id"`
	Players        int    `json:"players"`
	Teams          int    `json:"teams"`
	Leagues        int    `json:"leagues"`
}

// ErrorResponse represents the service's JSON error envelope
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stats holds load run statistics
type Stats struct {
	PlayersGenerated      int
	RankingsFetched       int
	RankingViolations     int
	RecommendationsOK     int
	RecommendationsEmpty  int
	RecommendationsFailed int
	ScoreMismatches       int
	PoolViolations        int
	ComparisonsOK         int
	ComparisonsFailed     int
	ComparisonViolations  int
	StartTime             time.Time
	EndTime               time.Time
	Duration              time.Duration
}
