package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-agent/internal/mines"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

type LeaderboardStore interface {
	GetLeaderboard(ctx context.Context, filter repository.LeaderboardFilter) ([]repository.LeaderboardEntry, error)
}

type Leaderboard struct {
	logger *logrus.Logger
	store  LeaderboardStore
}

func NewLeaderboard(logger *logrus.Logger, store LeaderboardStore) *Leaderboard {
	return &Leaderboard{logger: logger, store: store}
}

type LeaderboardDTO struct {
	Username  *string `schema:"username"`
	Width     *int    `schema:"width"`
	Height    *int    `schema:"height"`
	MineCount *int    `schema:"mine_count"`
}

func (dto LeaderboardDTO) Filter() repository.LeaderboardFilter {
	f := repository.LeaderboardFilter{Username: dto.Username}
	if dto.Width != nil && dto.Height != nil && dto.MineCount != nil {
		f.GameParams = &mines.GameParams{
			Width:     *dto.Width,
			Height:    *dto.Height,
			MineCount: *dto.MineCount,
		}
	}
	return f
}

func (l *Leaderboard) Get(w http.ResponseWriter, r *http.Request) {
	var dto LeaderboardDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		sendError(w, l.logger, http.StatusBadRequest, err)
		return
	}

	entries, err := l.store.GetLeaderboard(r.Context(), dto.Filter())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		l.logger.WithError(err).Error("unable to fetch leaderboard")
		return
	}
	if entries == nil {
		entries = []repository.LeaderboardEntry{}
	}
	sendJSONOrLog(w, l.logger, entries)
}
