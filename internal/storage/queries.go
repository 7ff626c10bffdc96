package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-matchup-chart/internal/model"
)

// InsertResults bulk-inserts battle tallies in a transaction. Uses INSERT OR
// REPLACE so re-importing a log overwrites earlier counts.
func (db *DB) InsertResults(results []model.Result) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO results(team_a, team_b, win, loss, tie)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.Exec(r.TeamA, r.TeamB, r.Win, r.Loss, r.Tie); err != nil {
			return fmt.Errorf("insert result %.24q vs %.24q: %w", r.TeamA, r.TeamB, err)
		}
	}
	return tx.Commit()
}

// GetResult returns the tally of teamA against teamB. A row stored under
// the reverse key is returned with win and loss swapped. Returns nil, nil
// when the pairing is absent.
func (db *DB) GetResult(teamA, teamB string) (*model.Result, error) {
	r := model.Result{TeamA: teamA, TeamB: teamB}
	err := db.conn.QueryRow(`
		SELECT win, loss, tie FROM results WHERE team_a = ? AND team_b = ?`,
		teamA, teamB).Scan(&r.Win, &r.Loss, &r.Tie)
	if err == nil {
		return &r, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	var rev model.Result
	err = db.conn.QueryRow(`
		SELECT win, loss, tie FROM results WHERE team_a = ? AND team_b = ?`,
		teamB, teamA).Scan(&rev.Win, &rev.Loss, &rev.Tie)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rev.TeamA, rev.TeamB = teamB, teamA
	swapped := rev.Swap()
	return &swapped, nil
}

// CountResults returns the number of stored pairings.
func (db *DB) CountResults() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM results").Scan(&n)
	return n, err
}

// Overview holds aggregate counts across the results table.
type Overview struct {
	Pairings int
	Teams    int
	Battles  int
	Ties     int
}

// TieRate returns the fraction of battles that ended in a tie.
func (o Overview) TieRate() float64 {
	if o.Battles == 0 {
		return 0
	}
	return float64(o.Ties) / float64(o.Battles)
}

// GetOverview returns aggregate counts for the summary command.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT COUNT(1),
		       COALESCE(SUM(win + loss + tie), 0),
		       COALESCE(SUM(tie), 0)
		FROM results`).Scan(&ov.Pairings, &ov.Battles, &ov.Ties)
	if err != nil {
		return ov, err
	}
	err = db.conn.QueryRow(`
		SELECT COUNT(DISTINCT team) FROM (
			SELECT team_a AS team FROM results
			UNION SELECT team_b FROM results
		)`).Scan(&ov.Teams)
	return ov, err
}

// TeamRecord is one team's tally summed over every opponent.
type TeamRecord struct {
	Team      string
	Opponents int
	Win       int
	Loss      int
	Tie       int
}

// WinRate returns the overall win fraction with ties as half wins.
func (t TeamRecord) WinRate() float64 {
	return model.Result{Win: t.Win, Loss: t.Loss, Tie: t.Tie}.WinRate()
}

// GetTopTeams returns the teams with the best overall win-rate.
func (db *DB) GetTopTeams(limit int) ([]TeamRecord, error) {
	rows, err := db.conn.Query(`
		SELECT team, COUNT(1), SUM(w), SUM(l), SUM(t)
		FROM (
			SELECT team_a AS team, win AS w, loss AS l, tie AS t FROM results
			UNION ALL
			SELECT team_b, loss, win, tie FROM results
		)
		GROUP BY team
		HAVING SUM(w + l + t) > 0
		ORDER BY (SUM(w) + SUM(t) / 2.0) / SUM(w + l + t) DESC, team
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamRecord
	for rows.Next() {
		var r TeamRecord
		if err := rows.Scan(&r.Team, &r.Opponents, &r.Win, &r.Loss, &r.Tie); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and rows
// rendered as strings. NULL values become "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
