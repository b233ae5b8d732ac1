package priors

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gridironlabs/gpp-engine/internal/types"
	"github.com/gridironlabs/gpp-engine/pkg/logger"
)

// Artifact file names produced by the baseline build step.
const (
	teamPriorsFile     = "team_priors.csv"
	playerPriorsFile   = "player_priors.csv"
	boomThresholdsFile = "boom_thresholds.json"
)

// LoadDir reads the baseline artifacts from dir. Missing files are
// tolerated: the store falls back to league defaults for whatever is
// absent, and the simulation falls back per player.
func LoadDir(dir string) (*StaticStore, error) {
	store := Empty()
	log := logger.WithComponent("priors")

	teams, err := loadTeamPriors(filepath.Join(dir, teamPriorsFile))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading team priors: %w", err)
		}
		log.Warnf("no team priors at %s, using league defaults", dir)
	} else {
		store.Teams = teams
	}

	players, err := loadPlayerPriors(filepath.Join(dir, playerPriorsFile))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading player priors: %w", err)
		}
		log.Warnf("no player priors at %s, fallback model will be used", dir)
	} else {
		store.Players = players
	}

	thresholds, err := loadBoomThresholds(filepath.Join(dir, boomThresholdsFile))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading boom thresholds: %w", err)
		}
	} else {
		store.Thresholds = thresholds
	}

	log.WithField("teams", len(store.Teams)).
		WithField("players", len(store.Players)).
		Info("prior tables loaded")
	return store, nil
}

func loadTeamPriors(path string) (map[string]TeamPrior, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]TeamPrior, len(rows))
	for i, row := range rows {
		rec := indexRow(header, row)
		team := rec["team"]
		if team == "" {
			return nil, fmt.Errorf("row %d: missing team", i+2)
		}
		p := DefaultTeamPrior(team)
		p.PlaysPerGame = floatField(rec, "plays_per_game", p.PlaysPerGame)
		p.PassRate = floatField(rec, "pass_rate", p.PassRate)
		p.OffEfficiency = floatField(rec, "off_efficiency", p.OffEfficiency)
		p.DefEfficiency = floatField(rec, "def_efficiency", p.DefEfficiency)
		out[team] = p
	}
	return out, nil
}

func loadPlayerPriors(path string) (map[string]PlayerPrior, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]PlayerPrior, len(rows))
	for i, row := range rows {
		rec := indexRow(header, row)
		id := rec["player_id"]
		if id == "" {
			return nil, fmt.Errorf("row %d: missing player_id", i+2)
		}
		out[id] = PlayerPrior{
			PlayerID:       id,
			PassAttempts:   floatField(rec, "pass_attempts", 0),
			PassYPA:        floatField(rec, "pass_ypa", 0),
			PassTDRate:     floatField(rec, "pass_td_rate", 0),
			IntRate:        floatField(rec, "int_rate", 0),
			RushAttempts:   floatField(rec, "rush_attempts", 0),
			RushYPC:        floatField(rec, "rush_ypc", 0),
			RushTDRate:     floatField(rec, "rush_td_rate", 0),
			Targets:        floatField(rec, "targets", 0),
			CatchRate:      floatField(rec, "catch_rate", 0),
			YardsPerTarget: floatField(rec, "yards_per_target", 0),
			RecTDRate:      floatField(rec, "rec_td_rate", 0),
		}
	}
	return out, nil
}

func loadBoomThresholds(path string) (map[types.Position]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw := map[string]float64{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	out := make(map[types.Position]float64, len(raw))
	for pos, v := range raw {
		out[types.Position(pos)] = v
	}
	return out, nil
}

func readCSV(path string) ([][]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: empty file", path)
	}
	return records[1:], records[0], nil
}

func indexRow(header, row []string) map[string]string {
	rec := make(map[string]string, len(header))
	for i, col := range header {
		if i < len(row) {
			rec[col] = row[i]
		}
	}
	return rec
}

func floatField(rec map[string]string, key string, fallback float64) float64 {
	raw, ok := rec[key]
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
