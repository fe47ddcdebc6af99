package transport

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mroshb/quizline/pkg/logger"
)

// MaxLineLength bounds one input line in bytes.
const MaxLineLength = 64 * 1024

var (
	// ErrClosed is returned by reads on a client that has been closed.
	ErrClosed = errors.New("client closed")

	// ErrLineTooLong marks an input line past MaxLineLength; it is dropped.
	ErrLineTooLong = errors.New("input line too long")
)

// Handler runs the command loop for one connected client.
type Handler interface {
	Serve(ctx context.Context, c *Client)
}

type HandlerFunc func(ctx context.Context, c *Client)

func (f HandlerFunc) Serve(ctx context.Context, c *Client) {
	f(ctx, c)
}

// Client is one connected user: a line source, an output sink and a few
// per-connection flags. Reads come from a pump goroutine so a blocked read
// can be abandoned through the context.
type Client struct {
	ID     string
	Remote string

	trusted bool
	color   bool
	admin   atomic.Bool

	lines   chan string
	readErr error

	closed    chan struct{}
	closeOnce sync.Once
	closeFn   func() error

	wmu   sync.Mutex
	write func([]byte) error
}

func newClient(remote string, trusted, color bool, read func() (string, error), write func([]byte) error, closeFn func() error) *Client {
	c := &Client{
		ID:      uuid.NewString(),
		Remote:  remote,
		trusted: trusted,
		color:   color,
		lines:   make(chan string),
		closed:  make(chan struct{}),
		closeFn: closeFn,
		write:   write,
	}
	go c.readPump(read)
	return c
}

// NewStreamClient serves a line-oriented byte stream such as a TCP
// connection or the local console.
func NewStreamClient(r io.Reader, w io.Writer, closeFn func() error, remote string, trusted, color bool) *Client {
	write := func(p []byte) error {
		_, err := w.Write(p)
		return err
	}
	if closeFn == nil {
		closeFn = func() error { return nil }
	}
	return newClient(remote, trusted, color, lineReader(r), write, closeFn)
}

// lineReader splits r into lines without their terminators. A line longer
// than MaxLineLength is consumed in full and reported as ErrLineTooLong so
// the next read starts on a fresh line.
func lineReader(r io.Reader) func() (string, error) {
	br := bufio.NewReader(r)
	return func() (string, error) {
		var line []byte
		tooLong := false
		for {
			chunk, err := br.ReadSlice('\n')
			if !tooLong {
				if len(line)+len(chunk) > MaxLineLength+2 {
					tooLong = true
					line = nil
				} else {
					line = append(line, chunk...)
				}
			}
			if errors.Is(err, bufio.ErrBufferFull) {
				continue
			}
			if err != nil && !(errors.Is(err, io.EOF) && (len(line) > 0 || tooLong)) {
				return "", err
			}
			if tooLong {
				return "", ErrLineTooLong
			}
			return strings.TrimRight(string(line), "\r\n"), nil
		}
	}
}

func (c *Client) readPump(read func() (string, error)) {
	defer close(c.lines)
	for {
		line, err := read()
		if errors.Is(err, ErrLineTooLong) {
			logger.Warn("Discarded overlong input line", "client_id", c.ID, "remote", c.Remote, "limit", MaxLineLength)
			io.WriteString(c, "Línea demasiado larga, se ha descartado.\n")
			continue
		}
		if err != nil {
			c.readErr = err
			return
		}
		select {
		case c.lines <- line:
		case <-c.closed:
			c.readErr = ErrClosed
			return
		}
	}
}

// ReadLine waits for the next line from the user.
func (c *Client) ReadLine(ctx context.Context) (string, error) {
	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", c.readErr
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.closed:
		return "", ErrClosed
	}
}

// Ask writes prompt and returns the user's reply without surrounding whitespace.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	if _, err := io.WriteString(c, prompt); err != nil {
		return "", err
	}
	line, err := c.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Client) Write(p []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	select {
	case <-c.closed:
		return 0, ErrClosed
	default:
	}
	if err := c.write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.closeFn()
	})
	return err
}

// Done is closed once the client has been closed.
func (c *Client) Done() <-chan struct{} {
	return c.closed
}

// Trusted clients (the local console) may edit the catalog without a token.
func (c *Client) Trusted() bool { return c.trusted }

func (c *Client) Color() bool { return c.color }

func (c *Client) IsAdmin() bool { return c.trusted || c.admin.Load() }

func (c *Client) SetAdmin(v bool) { c.admin.Store(v) }
