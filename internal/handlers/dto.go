package handlers

import (
	"strconv"

	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/mines"
	"github.com/vancomm/minesweeper-agent/internal/play"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

type NewGameDTO struct {
	Width     int `schema:"width,required"`
	Height    int `schema:"height,required"`
	MineCount int `schema:"mine_count,required"`
}

func ParseNewGameDTO(src map[string][]string) (mines.GameParams, error) {
	var dto NewGameDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.GameParams{}, err
	}
	return mines.GameParams(dto), nil
}

type KnowledgeDTO struct {
	Safes     int             `json:"safes"`
	Mines     int             `json:"mines"`
	Sentences int             `json:"sentences"`
	Stats     knowledge.Stats `json:"stats"`
}

type GameDTO struct {
	RunId     string        `json:"run_id"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	MineCount int           `json:"mine_count"`
	Grid      mines.Grid    `json:"grid"`
	Outcome   play.Outcome  `json:"outcome"`
	Moves     int           `json:"moves"`
	Guesses   int           `json:"guesses"`
	Live      bool          `json:"live"`
	Knowledge *KnowledgeDTO `json:"knowledge,omitempty"`
}

func NewLiveGameDTO(runId int64, p *play.Player) *GameDTO {
	params := p.Params()
	kb := p.Agent().Knowledge()
	dto := &GameDTO{
		RunId:     strconv.FormatInt(runId, 10),
		Width:     params.Width,
		Height:    params.Height,
		MineCount: params.MineCount,
		Outcome:   p.Outcome(),
		Moves:     p.Moves(),
		Guesses:   p.Guesses(),
		Live:      p.Outcome() == play.Playing,
		Knowledge: &KnowledgeDTO{
			Safes:     len(kb.Safes()),
			Mines:     len(kb.Mines()),
			Sentences: len(kb.Sentences()),
			Stats:     kb.Stats(),
		},
	}
	if g := p.Game(); g != nil {
		dto.Grid = g.PlayerGrid
	}
	return dto
}

// NewStoredGameDTO describes a run that is no longer held in memory.
func NewStoredGameDTO(run *repository.Run) (*GameDTO, error) {
	dto := &GameDTO{
		RunId:     strconv.FormatInt(run.RunId, 10),
		Width:     run.Width,
		Height:    run.Height,
		MineCount: run.MineCount,
		Outcome:   play.Outcome(run.Outcome),
		Moves:     run.Moves,
		Guesses:   run.Guesses,
	}
	if run.State != nil {
		g, err := mines.DecodeGameState(run.State)
		if err != nil {
			return nil, err
		}
		dto.Grid = g.PlayerGrid
	}
	return dto, nil
}

type StepDTO struct {
	Step play.Step `json:"step"`
	Game *GameDTO  `json:"game"`
}

type SolveDTO struct {
	Result play.Result `json:"result"`
	Game   *GameDTO    `json:"game"`
}
