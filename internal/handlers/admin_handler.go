package handlers

import (
	"github.com/mroshb/quizline/internal/render"
	"github.com/mroshb/quizline/internal/security"
	"github.com/mroshb/quizline/internal/transport"
	"github.com/mroshb/quizline/pkg/errors"
	"github.com/mroshb/quizline/pkg/logger"
)

// needsAuth reports whether c must present a token before changing the catalog.
func (h *HandlerManager) needsAuth(c *transport.Client) bool {
	return h.Config.RemoteAuthRequired() && !c.Trusted()
}

// requireAdmin reports whether c may change the catalog, telling the user when not.
func (h *HandlerManager) requireAdmin(c *transport.Client, out *render.Printer, cmd string) bool {
	if !h.needsAuth(c) || c.IsAdmin() {
		return true
	}
	err := errors.New(errors.ErrCodeUnauthorized, "catalog change requires an admin token")
	logger.Warn("Rejected catalog change", "client_id", c.ID, "remote", c.Remote, "command", cmd, "error", err)
	out.Errorf("Se requiere autenticación: use 'auth <token>'.")
	return false
}

func (h *HandlerManager) authCmd(c *transport.Client, out *render.Printer, args []string) {
	if !h.Config.RemoteAuthRequired() {
		out.Log("La autenticación no está habilitada en este servidor.")
		return
	}
	if c.Trusted() {
		out.Log("La consola local no necesita autenticación.")
		return
	}
	if len(args) == 0 {
		out.Errorf("Falta el parámetro <token>.")
		return
	}

	claims, err := security.ValidateAdminToken(args[0], h.Config.AdminSecret)
	if err != nil {
		logger.Warn("Rejected admin token", "client_id", c.ID, "remote", c.Remote, "error", err)
		out.Errorf("Token inválido.")
		return
	}

	c.SetAdmin(true)
	logger.Info("Client authenticated", "client_id", c.ID, "subject", claims.Subject)
	out.LogColor("Autenticado como administrador.", render.Green)
}
