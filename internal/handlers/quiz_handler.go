package handlers

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/mroshb/quizline/internal/models"
	"github.com/mroshb/quizline/internal/render"
	"github.com/mroshb/quizline/internal/security"
	"github.com/mroshb/quizline/internal/transport"
	"github.com/mroshb/quizline/pkg/errors"
	"github.com/mroshb/quizline/pkg/logger"
	"github.com/mroshb/quizline/pkg/utils"
)

// parseID validates the <id> argument the way the catalog commands expect.
func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New(errors.ErrCodeValidation, "Falta el parámetro <id>.")
	}
	id, ok := utils.ParseLeadingInt(args[0])
	if !ok {
		return 0, errors.New(errors.ErrCodeValidation, "El valor del parámetro <id> no es un número.")
	}
	return id, nil
}

// findQuiz resolves args to a quiz, reporting any problem to out.
func (h *HandlerManager) findQuiz(ctx context.Context, out *render.Printer, args []string) (*models.Quiz, bool) {
	id, err := parseID(args)
	if err != nil {
		out.Errorf("%s", userMessage(err))
		return nil, false
	}
	if id <= 0 {
		out.Errorf("No existe un quiz asociado al id=%d.", id)
		return nil, false
	}

	quiz, err := h.QuizRepo.GetByID(ctx, uint(id))
	if errors.HasCode(err, errors.ErrCodeNotFound) {
		out.Errorf("No existe un quiz asociado al id=%d.", id)
		return nil, false
	}
	if err != nil {
		logger.Error("Failed to get quiz", "id", id, "error", err)
		out.Errorf("%s", userMessage(err))
		return nil, false
	}
	return quiz, true
}

func (h *HandlerManager) listCmd(ctx context.Context, out *render.Printer) {
	quizzes, err := h.QuizRepo.ListAll(ctx)
	if err != nil {
		logger.Error("Failed to list quizzes", "error", err)
		out.Errorf("%s", userMessage(err))
		return
	}
	for _, q := range quizzes {
		out.Logf("[%s]: %s", out.Colorize(fmt.Sprint(q.ID), render.Magenta), q.Question)
	}
}

func (h *HandlerManager) showCmd(ctx context.Context, out *render.Printer, args []string) {
	quiz, ok := h.findQuiz(ctx, out, args)
	if !ok {
		return
	}
	out.Logf("[%s]:  %s %s %s",
		out.Colorize(fmt.Sprint(quiz.ID), render.Magenta),
		quiz.Question,
		out.Colorize("=>", render.Magenta),
		quiz.Answer,
	)
}

func (h *HandlerManager) addCmd(ctx context.Context, c *transport.Client, out *render.Printer) error {
	question, err := c.Ask(ctx, out.Colorize("Introduzca una pregunta: ", render.Red))
	if err != nil {
		return err
	}
	answer, err := c.Ask(ctx, out.Colorize("Introduzca la respuesta: ", render.Red))
	if err != nil {
		return err
	}

	quiz := &models.Quiz{
		Question: security.SanitizeQuizText(question),
		Answer:   security.SanitizeQuizText(answer),
	}
	if err := h.QuizRepo.Create(ctx, quiz); err != nil {
		reportWriteError(out, err)
		return nil
	}

	logger.Info("Quiz created", "id", quiz.ID, "client_id", c.ID)
	out.Logf(" %s: %s %s %s",
		out.Colorize("Se ha añadido", render.Magenta),
		quiz.Question,
		out.Colorize("=>", render.Magenta),
		quiz.Answer,
	)
	return nil
}

func (h *HandlerManager) deleteCmd(ctx context.Context, out *render.Printer, args []string) {
	id, err := parseID(args)
	if err != nil {
		out.Errorf("%s", userMessage(err))
		return
	}
	if id <= 0 {
		out.Errorf("No existe un quiz asociado al id=%d.", id)
		return
	}

	err = h.QuizRepo.Delete(ctx, uint(id))
	if errors.HasCode(err, errors.ErrCodeNotFound) {
		out.Errorf("No existe un quiz asociado al id=%d.", id)
		return
	}
	if err != nil {
		logger.Error("Failed to delete quiz", "id", id, "error", err)
		out.Errorf("%s", userMessage(err))
		return
	}

	logger.Info("Quiz deleted", "id", id)
	out.Logf("Se ha borrado el quiz %s.", out.Colorize(fmt.Sprint(id), render.Magenta))
}

// editCmd shows the current values in the prompts; an empty reply keeps them.
func (h *HandlerManager) editCmd(ctx context.Context, c *transport.Client, out *render.Printer, args []string) error {
	quiz, ok := h.findQuiz(ctx, out, args)
	if !ok {
		return nil
	}

	question, err := c.Ask(ctx, out.Colorize(fmt.Sprintf("Introduzca la pregunta [%s]: ", quiz.Question), render.Red))
	if err != nil {
		return err
	}
	answer, err := c.Ask(ctx, out.Colorize(fmt.Sprintf("Introduzca la respuesta [%s]: ", quiz.Answer), render.Red))
	if err != nil {
		return err
	}

	if question != "" {
		quiz.Question = security.SanitizeQuizText(question)
	}
	if answer != "" {
		quiz.Answer = security.SanitizeQuizText(answer)
	}

	if err := h.QuizRepo.Update(ctx, quiz); err != nil {
		reportWriteError(out, err)
		return nil
	}

	logger.Info("Quiz updated", "id", quiz.ID, "client_id", c.ID)
	out.Logf("Se ha cambiado el quiz %s por: %s %s %s",
		out.Colorize(fmt.Sprint(quiz.ID), render.Magenta),
		quiz.Question,
		out.Colorize("=>", render.Magenta),
		quiz.Answer,
	)
	return nil
}

func reportWriteError(out *render.Printer, err error) {
	var verr *models.ValidationError
	if stderrors.As(err, &verr) {
		out.Errorf("El quiz es erróneo:")
		for _, msg := range verr.Messages {
			out.Errorf("%s", msg)
		}
		return
	}
	logger.Error("Failed to save quiz", "error", err)
	out.Errorf("%s", userMessage(err))
}
