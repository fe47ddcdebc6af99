package handlers

import (
	"context"
	stderrors "errors"

	"github.com/mroshb/quizline/internal/game"
	"github.com/mroshb/quizline/internal/models"
	"github.com/mroshb/quizline/internal/render"
	"github.com/mroshb/quizline/internal/transport"
)

// player ties a client to its printer for the duration of a round.
type player struct {
	c   *transport.Client
	out *render.Printer
}

func (p player) Ask(ctx context.Context, prompt string) (string, error) {
	return p.c.Ask(ctx, p.out.Colorize(prompt, render.Red))
}

func (p player) Render(e game.Event) {
	p.out.Event(e)
}

func (h *HandlerManager) playCmd(ctx context.Context, c *transport.Client, out *render.Printer) error {
	_, err := h.Host.Play(ctx, player{c: c, out: out}, c.Remote)
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, game.ErrEmptyCatalog):
		out.Errorf("No hay preguntas disponibles.")
		return nil
	case stderrors.Is(err, game.ErrInvalidPrecondition):
		// already logged by the host
		out.Errorf("La partida terminó de forma inesperada.")
		return nil
	default:
		return err
	}
}

// testCmd asks a single quiz as a one-question round.
func (h *HandlerManager) testCmd(ctx context.Context, c *transport.Client, out *render.Printer, args []string) error {
	quiz, ok := h.findQuiz(ctx, out, args)
	if !ok {
		return nil
	}

	session, err := game.Start([]models.Quiz{*quiz})
	if err != nil {
		out.Errorf("%s", userMessage(err))
		return nil
	}
	turn, err := session.Advance(ctx, player{c: c, out: out})
	if err != nil {
		return err
	}

	if turn.Result == game.Correct {
		out.Log("Su respuesta es correcta.")
		out.Big("CORRECTO", render.Green)
	} else {
		out.Log("Su respuesta es incorrecta.")
		out.Big("INCORRECTO", render.Red)
	}
	return nil
}
