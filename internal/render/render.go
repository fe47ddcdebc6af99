package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mroshb/quizline/internal/game"
)

type Color string

const (
	None    Color = ""
	Red     Color = "red"
	Green   Color = "green"
	Yellow  Color = "yellow"
	Magenta Color = "magenta"
)

var attributes = map[Color]color.Attribute{
	Red:     color.FgRed,
	Green:   color.FgGreen,
	Yellow:  color.FgYellow,
	Magenta: color.FgMagenta,
}

// Printer writes user-facing text to one connection.
type Printer struct {
	w      io.Writer
	colors map[Color]*color.Color
}

// New builds a printer for w. Each printer owns its colours, so one
// connection turning colour off never affects another.
func New(w io.Writer, enabled bool) *Printer {
	colors := make(map[Color]*color.Color, len(attributes))
	for name, attr := range attributes {
		c := color.New(attr)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		colors[name] = c
	}
	return &Printer{w: w, colors: colors}
}

// Colorize wraps s in the escape codes for c when colour output is on.
func (p *Printer) Colorize(s string, c Color) string {
	col, ok := p.colors[c]
	if !ok {
		return s
	}
	return col.Sprint(s)
}

func (p *Printer) Log(msg string) {
	fmt.Fprintln(p.w, msg)
}

func (p *Printer) LogColor(msg string, c Color) {
	fmt.Fprintln(p.w, p.Colorize(msg, c))
}

func (p *Printer) Logf(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.Colorize("Error:", Red), p.Colorize(fmt.Sprintf(format, args...), Red))
}

// Big prints msg framed in a box so it stands out from regular output.
func (p *Printer) Big(msg string, c Color) {
	bar := strings.Repeat("=", len([]rune(msg))+4)
	p.LogColor(bar, c)
	p.LogColor("| "+msg+" |", c)
	p.LogColor(bar, c)
}

// Prompt is the text shown before reading a command.
func (p *Printer) Prompt() string {
	return p.Colorize("quiz > ", Yellow)
}

// Event renders one play notification.
func (p *Printer) Event(e game.Event) {
	switch ev := e.(type) {
	case game.CorrectAnswer:
		p.LogColor("CORRECTO", Green)
		p.Logf("CORRECTO - Lleva %s aciertos.", p.Colorize(fmt.Sprint(ev.ScoreSoFar), Green))
	case game.RoundWon:
		p.Log("No hay más preguntas.")
		p.Logf("Fin del juego. Aciertos: %d", ev.FinalScore)
		p.Big(fmt.Sprint(ev.FinalScore), Green)
		p.LogColor("FIN", Green)
	case game.IncorrectAnswer:
		p.LogColor("INCORRECTO", Red)
		p.Logf("Fin del juego. Aciertos: %d", ev.FinalScore)
		p.Big(fmt.Sprint(ev.FinalScore), Red)
	}
}
