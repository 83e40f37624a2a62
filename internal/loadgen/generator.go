package loadgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/okian/scout/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	profileDivisor     = 8
	positionDivisor    = 10
	minutesDivisor     = 4
)

// Constants for price and points ranges per profile, price in millions and
// points as a season total.
const (
	squadPriceMin      = 4.0
	squadPriceRange    = 1.5
	squadPointsMin     = 20.0
	squadPointsRange   = 40.0
	starterPriceMin    = 5.5
	starterPriceRange  = 2.0
	starterPointsMin   = 70.0
	starterPointsRange = 60.0
	keyPriceMin        = 7.5
	keyPriceRange      = 2.0
	keyPointsMin       = 110.0
	keyPointsRange     = 60.0
	starPriceMin       = 9.5
	starPriceRange     = 2.5
	starPointsMin      = 150.0
	starPointsRange    = 70.0
	elitePriceMin      = 12.0
	elitePriceRange    = 2.5
	elitePointsMin     = 200.0
	elitePointsRange   = 85.0
	bargainPriceMin    = 4.5
	bargainPriceRange  = 1.5
	bargainPointsMin   = 100.0
	bargainPointsRange = 60.0
	flopPriceMin       = 9.0
	flopPriceRange     = 3.0
	flopPointsMin      = 40.0
	flopPointsRange    = 50.0
	widePriceMin       = 4.0
	widePriceRange     = 10.5
	widePointsMin      = 20.0
	widePointsRange    = 265.0
)

// Constants for player profile cases.
const (
	caseSquadPlayer  = 0
	caseSolidStarter = 1
	caseKeyPlayer    = 2
	caseStar         = 3
	caseElite        = 4
	caseBargain      = 5
	caseFlop         = 6
	caseWideRange    = 7
)

// Constants for the remaining stat ranges.
const (
	ageMin                 = 17
	ageSpan                = 18
	starterMinutesMin      = 2200
	starterMinutesSpan     = 1200
	rotationMinutesMin     = 900
	rotationMinutesSpan    = 1300
	fringeMinutesSpan      = 900
	formRange              = 9.5
	ictComponentMin        = 50.0
	ictComponentRange      = 1350.0
	ictDivisor             = 100.0
	goalsRangeDefender     = 7
	goalsRangeMidfielder   = 16
	goalsRangeForward      = 26
	assistsRangeGoalkeeper = 2
	assistsRangeDefender   = 9
	assistsRangeMidfielder = 16
	assistsRangeForward    = 12
)

// Name and team pools for synthetic records. Teams split across two
// leagues so league filters and catalogs have something to chew on.
var (
	firstNames = []string{
		"Alex", "Bruno", "Carlos", "Diego", "Emil", "Fabio", "Gabriel", "Hugo",
		"Ivan", "Jamal", "Kai", "Luka", "Marco", "Nico", "Oscar", "Pedro",
		"Quincy", "Rafael", "Sergio", "Thiago", "Umar", "Victor", "Wilfred", "Yusuf",
	}
	lastNames = []string{
		"Almeida", "Becker", "Costa", "Dembele", "Eriksen", "Fernandes", "Garcia",
		"Haaland", "Iversen", "Jansen", "Kovacic", "Lopez", "Martinez", "Novak",
		"Oliveira", "Pereira", "Quintero", "Rodriguez", "Silva", "Torres",
		"Udogie", "Varga", "Williams", "Zubimendi",
	}
	teamPool = []struct {
		name   string
		league string
	}{
		{"Northfield United", "Premier League"},
		{"Eastbrook City", "Premier League"},
		{"Harborview FC", "Premier League"},
		{"Kingsmead Rovers", "Premier League"},
		{"Weston Albion", "Premier League"},
		{"Redcliffe Athletic", "Premier League"},
		{"Southgate Wanderers", "Premier League"},
		{"Millbrook Town", "Premier League"},
		{"Ashford Rangers", "Premier League"},
		{"Bridgewater FC", "Premier League"},
		{"Real Montara", "La Liga"},
		{"Atletico Sestao", "La Liga"},
		{"Deportivo Alcora", "La Liga"},
		{"Racing Oviedo", "La Liga"},
		{"Celta Mirandes", "La Liga"},
		{"Granada Vieja", "La Liga"},
		{"Levante Norte", "La Liga"},
		{"Cadiz Imperial", "La Liga"},
		{"Osasuna Verde", "La Liga"},
		{"Villarreal Sur", "La Liga"},
	}
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randIndex returns a random int in [0, n) using crypto/rand.
func randIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generatePlayers creates the specified number of players with unique ids.
func generatePlayers(ctx context.Context, config *Config, stats *Stats) ([]Player, error) {
	logger.Get().Info(ctx, "generating players with unique ids", logger.Int("numPlayers", config.NumPlayers))

	players := make([]Player, config.NumPlayers)

	// Pre-allocate player IDs to ensure uniqueness
	playerIDs := make([]string, config.NumPlayers)
	for i := 0; i < config.NumPlayers; i++ {
		playerIDs[i] = uuid.New().String()
	}

	// Generate players concurrently
	type playerResult struct {
		index  int
		player Player
		err    error
	}

	resultChan := make(chan playerResult, config.NumPlayers)

	// Use worker pool for player generation
	workerCount := minInt(config.Workers, config.NumPlayers)
	playersPerWorker := config.NumPlayers / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * playersPerWorker
		end := start + playersPerWorker
		if worker == workerCount-1 {
			end = config.NumPlayers // Last worker gets remaining players
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- playerResult{index: i, err: ctx.Err()}
					return
				default:
					player := generateSinglePlayer(playerIDs[i])
					resultChan <- playerResult{index: i, player: player, err: nil}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumPlayers; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during player generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate player %d: %w", result.index, result.err)
			}
			players[result.index] = result.player
		}
	}

	stats.PlayersGenerated = len(players)
	logger.Get().Info(ctx, "generated players successfully", logger.Int("count", len(players)))

	return players, nil
}

// generateSinglePlayer creates a single player record with the given id.
func generateSinglePlayer(id string) Player {
	price, points := generatePlayerProfile()
	position := generatePosition()

	influence := ictComponentMin + getRandomFloat()*ictComponentRange
	creativity := ictComponentMin + getRandomFloat()*ictComponentRange
	threat := ictComponentMin + getRandomFloat()*ictComponentRange

	team := teamPool[randIndex(len(teamPool))]

	return Player{
		ID:          id,
		Name:        firstNames[randIndex(len(firstNames))] + " " + lastNames[randIndex(len(lastNames))],
		Position:    position,
		Team:        team.name,
		League:      team.league,
		Age:         ageMin + randIndex(ageSpan),
		Price:       price,
		Minutes:     generateMinutes(),
		TotalPoints: points,
		Goals:       generateGoals(position),
		Assists:     generateAssists(position),
		Form:        getRandomFloat() * formRange,
		Influence:   influence,
		Creativity:  creativity,
		Threat:      threat,
		ICTIndex:    (influence + creativity + threat) / ictDivisor,
	}
}

// generatePlayerProfile draws a correlated price and season points total.
func generatePlayerProfile() (price, points float64) {
	randNum, _ := rand.Int(rand.Reader, big.NewInt(profileDivisor))
	switch randNum.Int64() {
	case caseSquadPlayer:
		// Squad players (4.0-5.5m, 20-60 pts)
		return squadPriceMin + getRandomFloat()*squadPriceRange, squadPointsMin + getRandomFloat()*squadPointsRange
	case caseSolidStarter:
		// Solid starters (5.5-7.5m, 70-130 pts)
		return starterPriceMin + getRandomFloat()*starterPriceRange, starterPointsMin + getRandomFloat()*starterPointsRange
	case caseKeyPlayer:
		// Key players (7.5-9.5m, 110-170 pts)
		return keyPriceMin + getRandomFloat()*keyPriceRange, keyPointsMin + getRandomFloat()*keyPointsRange
	case caseStar:
		// Stars (9.5-12.0m, 150-220 pts)
		return starPriceMin + getRandomFloat()*starPriceRange, starPointsMin + getRandomFloat()*starPointsRange
	case caseElite:
		// Elite picks (12.0-14.5m, 200-285 pts) - rare in real squads
		return elitePriceMin + getRandomFloat()*elitePriceRange, elitePointsMin + getRandomFloat()*elitePointsRange
	case caseBargain:
		// Bargains (4.5-6.0m, 100-160 pts) - overperform their price
		return bargainPriceMin + getRandomFloat()*bargainPriceRange, bargainPointsMin + getRandomFloat()*bargainPointsRange
	case caseFlop:
		// Flops (9.0-12.0m, 40-90 pts) - underperform their price
		return flopPriceMin + getRandomFloat()*flopPriceRange, flopPointsMin + getRandomFloat()*flopPointsRange
	case caseWideRange:
		// Uncorrelated across the full range
		return widePriceMin + getRandomFloat()*widePriceRange, widePointsMin + getRandomFloat()*widePointsRange
	default:
		return widePriceMin + getRandomFloat()*widePriceRange, widePointsMin + getRandomFloat()*widePointsRange
	}
}

// generatePosition draws a position with a squad-like distribution.
func generatePosition() string {
	randNum, _ := rand.Int(rand.Reader, big.NewInt(positionDivisor))
	switch randNum.Int64() {
	case 0:
		return "GK"
	case 1, 2, 3, 4:
		return "DEF"
	case 5, 6, 7:
		return "MID"
	default:
		return "FWD"
	}
}

// generateMinutes draws season minutes for starters, rotation and fringe
// players. Fringe players can land under the reference minutes threshold,
// which keeps the baseline exclusion path exercised.
func generateMinutes() int {
	randNum, _ := rand.Int(rand.Reader, big.NewInt(minutesDivisor))
	switch randNum.Int64() {
	case 0, 1:
		return starterMinutesMin + int(getRandomFloat()*starterMinutesSpan)
	case 2:
		return rotationMinutesMin + int(getRandomFloat()*rotationMinutesSpan)
	default:
		return int(getRandomFloat() * fringeMinutesSpan)
	}
}

// generateGoals draws a season goal count plausible for the position.
func generateGoals(position string) int {
	switch position {
	case "GK":
		return 0
	case "DEF":
		return randIndex(goalsRangeDefender)
	case "MID":
		return randIndex(goalsRangeMidfielder)
	default:
		return randIndex(goalsRangeForward)
	}
}

// generateAssists draws a season assist count plausible for the position.
func generateAssists(position string) int {
	switch position {
	case "GK":
		return randIndex(assistsRangeGoalkeeper)
	case "DEF":
		return randIndex(assistsRangeDefender)
	case "MID":
		return randIndex(assistsRangeMidfielder)
	default:
		return randIndex(assistsRangeForward)
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
