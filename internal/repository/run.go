package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

// Run is one agent game as stored in the agent_run table.
type Run struct {
	RunId     int64
	PlayerId  *int64
	Width     int
	Height    int
	MineCount int
	Outcome   string
	Moves     int
	Guesses   int
	StartedAt pgtype.Timestamptz
	EndedAt   pgtype.Timestamptz
	State     []byte
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

func (r Run) Params() mines.GameParams {
	return mines.GameParams{Width: r.Width, Height: r.Height, MineCount: r.MineCount}
}

type CreateRunParams struct {
	PlayerId *int64
	mines.GameParams
}

func (q Queries) CreateRun(ctx context.Context, params CreateRunParams) (*Run, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO agent_run (
			player_id, width, height, mine_count
		)
		VALUES (
			@player_id, @width, @height, @mine_count
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"player_id":  params.PlayerId,
			"width":      params.Width,
			"height":     params.Height,
			"mine_count": params.MineCount,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Run])
}

func (q Queries) FetchRun(ctx context.Context, runId int64) (*Run, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM agent_run WHERE run_id = $1",
		runId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Run])
}

var ErrNothingToUpdate = errors.New("nothing to update")

type UpdateRunParams struct {
	Outcome *string
	Moves   *int
	Guesses *int
	EndedAt *time.Time
	State   *[]byte
}

func (p UpdateRunParams) SetClause() (string, pgx.NamedArgs) {
	parts := make([]string, 0)
	args := pgx.NamedArgs{}

	if p.Outcome != nil {
		parts = append(parts, "outcome = @outcome")
		args["outcome"] = *p.Outcome
	}
	if p.Moves != nil {
		parts = append(parts, "moves = @moves")
		args["moves"] = *p.Moves
	}
	if p.Guesses != nil {
		parts = append(parts, "guesses = @guesses")
		args["guesses"] = *p.Guesses
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}

	return strings.Join(parts, ", "), args
}

func (q Queries) UpdateRun(
	ctx context.Context, runId int64, params UpdateRunParams,
) (*Run, error) {
	setClause, args := params.SetClause()
	if setClause == "" {
		return nil, ErrNothingToUpdate
	}
	args["run_id"] = runId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE agent_run SET "+setClause+" WHERE run_id = @run_id RETURNING *",
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Run])
}
