package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

type LeaderboardEntry struct {
	Username   *string `json:"username"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	MineCount  int     `json:"mine_count"`
	Games      int     `json:"games"`
	Won        int     `json:"won"`
	WinRate    float64 `json:"win_rate"`
	AvgGuesses float64 `json:"avg_guesses"`
}

type LeaderboardFilter struct {
	Username   *string
	GameParams *mines.GameParams
}

func (f LeaderboardFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.GameParams != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mine_count",
		)
		args["width"] = f.GameParams.Width
		args["height"] = f.GameParams.Height
		args["mine_count"] = f.GameParams.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

// GetLeaderboard aggregates finished runs per player and board size, best
// win rate first.
func (q Queries) GetLeaderboard(
	ctx context.Context, filter LeaderboardFilter,
) ([]LeaderboardEntry, error) {
	query := `
	SELECT
		username,
		width,
		height,
		mine_count,
		count(*)::integer games,
		(count(*) FILTER (WHERE outcome = 'won'))::integer won,
		(count(*) FILTER (WHERE outcome = 'won'))::float8 / count(*) win_rate,
		avg(guesses)::float8 avg_guesses
	FROM agent_run
		LEFT OUTER JOIN player USING (player_id)
	WHERE
		outcome <> 'playing'
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += `
	GROUP BY username, width, height, mine_count
	ORDER BY win_rate DESC, avg_guesses;`

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[LeaderboardEntry])
}
