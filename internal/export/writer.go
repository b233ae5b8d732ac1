// Package export writes portfolios as DraftKings-compatible upload
// files. The column order is a compatibility contract with the DK
// bulk-entry importer and never changes.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gridironlabs/gpp-engine/internal/types"
)

// Header is the DraftKings classic NFL upload header.
var Header = []string{"QB", "RB", "RB", "WR", "WR", "WR", "TE", "FLEX", "DST"}

// WriteLineups writes lineups in DK upload format, one row per lineup,
// players in slot order. Incomplete lineups are refused since DK would
// reject the whole file.
func WriteLineups(w io.Writer, lineups []*types.Lineup) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, l := range lineups {
		if !l.Complete() {
			return fmt.Errorf("lineup %d (%s) is incomplete", i+1, l.ID)
		}
		row := make([]string, len(l.Slots))
		for j, p := range l.Slots {
			row[j] = p.Name
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing lineup %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSummary writes the companion metadata file: one row per lineup
// with strategy, salary, ownership and rank, for reviewing a portfolio
// before upload.
func WriteSummary(w io.Writer, lineups []*types.Lineup) error {
	cw := csv.NewWriter(w)
	header := []string{
		"lineup_id", "strategy", "salary", "total_ownership",
		"projected_points", "projected_ceiling", "valid", "gpp_rank", "win_percentile",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, l := range lineups {
		rank, pct := "", ""
		if l.Rank != nil {
			rank = strconv.Itoa(l.Rank.Rank)
			pct = strconv.FormatFloat(l.Rank.WinPercentile, 'f', 1, 64)
		}
		row := []string{
			l.ID,
			l.Strategy,
			strconv.Itoa(l.Stats.SalaryUsed),
			strconv.FormatFloat(l.Stats.TotalOwnership, 'f', 1, 64),
			strconv.FormatFloat(l.Stats.ProjectedPoints, 'f', 2, 64),
			strconv.FormatFloat(l.Stats.ProjectedCeiling, 'f', 2, 64),
			strconv.FormatBool(l.Valid),
			rank,
			pct,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing lineup %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
