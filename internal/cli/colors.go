package cli

import (
	"github.com/fatih/color"

	"github.com/tiwariParth/task-cli/internal/config"
	"github.com/tiwariParth/task-cli/internal/models"
)

type palette struct {
	bold   *color.Color
	red    *color.Color
	green  *color.Color
	yellow *color.Color
	cyan   *color.Color
}

func newPalette(mode string) palette {
	enabled := mode == config.ColorAlways || (mode == config.ColorAuto && !color.NoColor)

	p := palette{
		bold:   color.New(color.Bold),
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		cyan:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.bold, p.red, p.green, p.yellow, p.cyan} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) Bold(s string) string  { return p.bold.Sprint(s) }
func (p palette) Red(s string) string   { return p.red.Sprint(s) }
func (p palette) Green(s string) string { return p.green.Sprint(s) }

// Status colors an already padded status cell.
func (p palette) Status(status models.Status, cell string) string {
	switch status {
	case models.StatusTodo:
		return p.yellow.Sprint(cell)
	case models.StatusInProgress:
		return p.cyan.Sprint(cell)
	case models.StatusDone:
		return p.green.Sprint(cell)
	default:
		return cell
	}
}
