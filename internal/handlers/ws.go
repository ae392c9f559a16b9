package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-agent/internal/play"
	"github.com/vancomm/minesweeper-agent/internal/session"
)

/*
Commands accepted on the game socket, one per line:

	s    make one step
	a    play until the game is over, streaming every step
	r    forfeit
*/
var commands = map[string]struct{}{
	"s": {},
	"a": {},
	"r": {},
}

var errUnknownCommand = errors.New("unknown command")

func (g *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, status, err := g.liveSession(r)
	if err != nil {
		sendError(w, g.logger, status, err)
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.WithError(err).Error("unable to upgrade")
		return
	}
	defer c.Close()

	ctx := r.Context()
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.logger.WithError(err).Warn("abnormal ws break")
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}
		text := strings.TrimSpace(string(message))
		g.logger.Debugf("\t> %s", text)

		for _, cmd := range strings.Split(text, "\n") {
			cmd = strings.TrimSpace(cmd)
			done, err := g.execute(ctx, c, s, cmd)
			if errors.Is(err, errUnknownCommand) {
				if err := c.WriteJSON(wrapError(fmt.Errorf("%w %q", err, cmd))); err != nil {
					return
				}
				continue
			}
			if err != nil {
				g.logger.WithError(err).WithField("run_id", s.Id).Error("unable to process command")
				c.WriteJSON(wrapError(err))
				return
			}
			if done {
				c.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"))
				return
			}
		}
	}
}

// execute runs one command and reports whether the game is over.
func (g *GameHandler) execute(ctx context.Context, c *websocket.Conn, s *session.Session, cmd string) (bool, error) {
	if _, ok := commands[cmd]; !ok {
		return false, errUnknownCommand
	}

	var over bool
	err := s.Do(func(p *play.Player) error {
		switch cmd {
		case "s":
			if err := g.sendStep(ctx, c, s.Id, p); err != nil {
				return err
			}
		case "a":
			for p.Outcome() == play.Playing {
				if err := g.sendStep(ctx, c, s.Id, p); err != nil {
					return err
				}
				if p.Outcome() != play.Playing {
					break
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(g.ws.AutoDelay):
				}
			}
		case "r":
			p.Forfeit()
			if err := c.WriteJSON(NewLiveGameDTO(s.Id, p)); err != nil {
				return err
			}
		}
		over = p.Outcome() != play.Playing
		return g.finish(ctx, s.Id, p)
	})
	return over, err
}

func (g *GameHandler) sendStep(ctx context.Context, c *websocket.Conn, runId int64, p *play.Player) error {
	step, err := p.Step(ctx)
	if err != nil {
		return err
	}
	g.logger.Debug("\t< <step>")
	return c.WriteJSON(StepDTO{Step: step, Game: NewLiveGameDTO(runId, p)})
}
