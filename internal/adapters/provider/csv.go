package provider

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// csvHeader is the required column order of a dataset file.
var csvHeader = []string{
	"id", "name", "position", "team", "league", "age", "price", "minutes",
	"total_points", "goals", "assists", "form", "influence", "creativity",
	"threat", "ict_index",
}

// Column indexes into a dataset row.
const (
	colID = iota
	colName
	colPosition
	colTeam
	colLeague
	colAge
	colPrice
	colMinutes
	colTotalPoints
	colGoals
	colAssists
	colForm
	colInfluence
	colCreativity
	colThreat
	colICTIndex
)

// CSV reads the dataset from a local CSV file. Rows that fail to parse are
// skipped and logged with their row number; the file as a whole only fails
// when the header is wrong or no row survives.
type CSV struct {
	path string
	log  logger.Logger
}

var _ Provider = (*CSV)(nil)

// NewCSV constructs a CSV provider for the dataset file at path.
func NewCSV(path string) *CSV {
	return &CSV{
		path: path,
		log:  logger.Named("provider.csv"),
	}
}

// Name identifies the source in logs and metrics.
func (p *CSV) Name() string { return "csv" }

// Path returns the dataset file location, for the filesystem watcher.
func (p *CSV) Path() string { return p.path }

// Fetch loads and parses the dataset file.
func (p *CSV) Fetch(ctx context.Context) ([]model.Player, error) {
	start := time.Now()
	players, err := p.fetch(ctx)
	metrics.RecordProviderLatency(p.Name(), float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordProviderRequest(p.Name(), "error")
		return nil, err
	}
	metrics.RecordProviderRequest(p.Name(), "ok")
	return players, nil
}

func (p *CSV) fetch(ctx context.Context) ([]model.Player, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset file")
	}
	defer func() { _ = f.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(ErrBadHeader, "%s: %v", p.path, err)
	}
	if err := checkHeader(header); err != nil {
		return nil, errors.Wrap(err, p.path)
	}

	var (
		players []model.Player
		seen    = make(map[string]struct{})
		skipped int
	)
	for row := 2; ; row++ {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			// Malformed line: csv.Reader reports and moves on.
			p.log.Warn(ctx, "skipping malformed row",
				logger.Int("row", row), logger.Error(err))
			metrics.RecordErrorByComponent("provider_csv", "bad_row")
			skipped++
			continue
		}

		player, err := parseRow(record)
		if err != nil {
			p.log.Warn(ctx, "skipping bad row",
				logger.Int("row", row), logger.Error(err))
			metrics.RecordErrorByComponent("provider_csv", "bad_row")
			skipped++
			continue
		}
		if _, dup := seen[player.ID]; dup {
			p.log.Warn(ctx, "skipping duplicate id",
				logger.Int("row", row), logger.String("id", player.ID))
			metrics.RecordErrorByComponent("provider_csv", "duplicate_id")
			skipped++
			continue
		}
		seen[player.ID] = struct{}{}
		players = append(players, player)
	}

	if len(players) == 0 {
		return nil, errors.Wrap(ErrNoRecords, p.path)
	}
	p.log.Info(ctx, "dataset file loaded",
		logger.String("path", p.path),
		logger.Int("players", len(players)),
		logger.Int("skipped", skipped))
	return players, nil
}

func checkHeader(header []string) error {
	if len(header) != len(csvHeader) {
		return errors.Wrapf(ErrBadHeader, "want %d columns, got %d", len(csvHeader), len(header))
	}
	for i, want := range csvHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != want {
			return errors.Wrapf(ErrBadHeader, "column %d should be %q, got %q", i+1, want, header[i])
		}
	}
	return nil
}

func parseRow(record []string) (model.Player, error) {
	var p model.Player

	p.ID = strings.TrimSpace(record[colID])
	if p.ID == "" {
		return p, errors.New("empty id")
	}
	p.Name = strings.TrimSpace(record[colName])
	if p.Name == "" {
		return p, errors.New("empty name")
	}

	position, err := model.ParsePosition(record[colPosition])
	if err != nil {
		return p, err
	}
	p.Position = position
	p.Team = strings.TrimSpace(record[colTeam])
	p.League = strings.TrimSpace(record[colLeague])

	if p.Age, err = parseIntField("age", record[colAge]); err != nil {
		return p, err
	}
	if p.Price, err = parseFloatField("price", record[colPrice]); err != nil {
		return p, err
	}
	if p.Price < 0 {
		return p, errors.Errorf("negative price %.2f", p.Price)
	}
	if p.Minutes, err = parseIntField("minutes", record[colMinutes]); err != nil {
		return p, err
	}
	if p.Minutes < 0 {
		return p, errors.Errorf("negative minutes %d", p.Minutes)
	}
	if p.TotalPoints, err = parseFloatField("total_points", record[colTotalPoints]); err != nil {
		return p, err
	}
	if p.Goals, err = parseIntField("goals", record[colGoals]); err != nil {
		return p, err
	}
	if p.Assists, err = parseIntField("assists", record[colAssists]); err != nil {
		return p, err
	}

	// Advanced stats are optional; an empty cell reads as zero.
	if p.Form, err = parseOptionalFloat("form", record[colForm]); err != nil {
		return p, err
	}
	if p.Influence, err = parseOptionalFloat("influence", record[colInfluence]); err != nil {
		return p, err
	}
	if p.Creativity, err = parseOptionalFloat("creativity", record[colCreativity]); err != nil {
		return p, err
	}
	if p.Threat, err = parseOptionalFloat("threat", record[colThreat]); err != nil {
		return p, err
	}
	if p.ICTIndex, err = parseOptionalFloat("ict_index", record[colICTIndex]); err != nil {
		return p, err
	}
	return p, nil
}

func parseIntField(name, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Errorf("bad %s %q", name, raw)
	}
	return v, nil
}

func parseFloatField(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, errors.Errorf("bad %s %q", name, raw)
	}
	return v, nil
}

func parseOptionalFloat(name, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return parseFloatField(name, raw)
}
