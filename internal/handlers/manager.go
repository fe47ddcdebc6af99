package handlers

import (
	"context"
	stderrors "errors"

	"github.com/mroshb/quizline/internal/config"
	"github.com/mroshb/quizline/internal/host"
	"github.com/mroshb/quizline/internal/render"
	"github.com/mroshb/quizline/internal/repositories"
	"github.com/mroshb/quizline/internal/transport"
	"github.com/mroshb/quizline/pkg/errors"
	"github.com/mroshb/quizline/pkg/utils"
)

// HandlerManager parses command lines and runs them for one client at a time.
// It holds no per-client state, so one manager serves every connection.
type HandlerManager struct {
	Config   *config.Config
	QuizRepo *repositories.QuizRepository
	Host     *host.Host
}

func NewHandlerManager(cfg *config.Config, quizRepo *repositories.QuizRepository, h *host.Host) *HandlerManager {
	return &HandlerManager{
		Config:   cfg,
		QuizRepo: quizRepo,
		Host:     h,
	}
}

// Serve runs the command loop until the client quits or goes away.
func (h *HandlerManager) Serve(ctx context.Context, c *transport.Client) {
	out := render.New(c, c.Color())
	for {
		line, err := c.Ask(ctx, out.Prompt())
		if err != nil {
			return
		}
		quit, err := h.dispatch(ctx, c, out, line)
		if quit || err != nil {
			return
		}
	}
}

// dispatch runs one command. A non-nil error means the client is gone.
func (h *HandlerManager) dispatch(ctx context.Context, c *transport.Client, out *render.Printer, line string) (bool, error) {
	cmd, args := utils.SplitCommand(line)

	switch cmd {
	case "":
		return false, nil
	case "h", "help":
		h.helpCmd(c, out)
	case "list":
		h.listCmd(ctx, out)
	case "show":
		h.showCmd(ctx, out, args)
	case "add":
		if !h.requireAdmin(c, out, cmd) {
			return false, nil
		}
		return false, h.addCmd(ctx, c, out)
	case "delete":
		if !h.requireAdmin(c, out, cmd) {
			return false, nil
		}
		h.deleteCmd(ctx, out, args)
	case "edit":
		if !h.requireAdmin(c, out, cmd) {
			return false, nil
		}
		return false, h.editCmd(ctx, c, out, args)
	case "test":
		return false, h.testCmd(ctx, c, out, args)
	case "p", "play":
		return false, h.playCmd(ctx, c, out)
	case "auth":
		h.authCmd(c, out, args)
	case "credits":
		h.creditsCmd(out)
	case "q", "quit":
		out.Log("Adiós!")
		return true, nil
	default:
		out.Logf("Comando desconocido: '%s'", out.Colorize(cmd, render.Red))
		out.Log("Use 'help' para ver todos los comandos disponibles.")
	}
	return false, nil
}

func (h *HandlerManager) helpCmd(c *transport.Client, out *render.Printer) {
	out.Log("Comandos:")
	out.Log("  h|help - Muestra esta ayuda.")
	out.Log("  list - Listar los quizzes existentes.")
	out.Log("  show <id> - Muestra la pregunta y la respuesta del quiz indicado.")
	out.Log("  add - Añadir un nuevo quiz interactivamente.")
	out.Log("  delete <id> - Borrar el quiz indicado.")
	out.Log("  edit <id> - Editar el quiz indicado.")
	out.Log("  test <id> - Probar el quiz indicado.")
	out.Log("  p|play - Jugar a preguntar aleatoriamente todos los quizzes.")
	if h.needsAuth(c) {
		out.Log("  auth <token> - Autenticarse para modificar los quizzes.")
	}
	out.Log("  credits - Créditos.")
	out.Log("  q|quit - Salir del programa.")
}

func (h *HandlerManager) creditsCmd(out *render.Printer) {
	out.Log("Autores de la práctica:")
	out.LogColor("quizline", render.Green)
}

// userMessage picks the text to show for err.
func userMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
