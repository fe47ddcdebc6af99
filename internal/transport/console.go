package transport

import (
	"context"
	"io"

	"github.com/mroshb/quizline/pkg/logger"
)

// ServeConsole runs h for the single local user on in/out and returns
// when the user quits or in reaches EOF.
func ServeConsole(ctx context.Context, h Handler, in io.Reader, out io.Writer) {
	c := NewStreamClient(in, out, nil, "console", true, true)
	defer c.Close()

	logger.Info("Console session started", "client_id", c.ID)
	h.Serve(ctx, c)
	logger.Info("Console session ended", "client_id", c.ID)
}
