// Package picker asks the user to choose, confirm or type something.
//
// Commands take a [Picker] so tests can script the answers; [Huh] is the
// terminal implementation.
package picker

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
)

// ErrCancelled is returned when the user backs out of a prompt.
var ErrCancelled = errors.New("cancelled")

// Picker is an interactive prompt.
type Picker interface {
	// Select returns the index of the chosen option.
	Select(title string, options []string) (int, error)
	Confirm(title string, def bool) (bool, error)
	Input(title string) (string, error)
}

// Huh renders prompts with charmbracelet/huh on Output (stderr when nil).
type Huh struct {
	Output io.Writer
}

func (h Huh) run(field huh.Field) error {
	out := h.Output
	if out == nil {
		out = os.Stderr
	}
	err := huh.NewForm(huh.NewGroup(field)).WithOutput(out).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}

// Select implements Picker.
func (h Huh) Select(title string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("%s: nothing to choose from", title)
	}
	opts := make([]huh.Option[int], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, i)
	}
	var choice int
	sel := huh.NewSelect[int]().
		Title(title).
		Options(opts...).
		Height(min(len(options)+2, 15)).
		Value(&choice)
	if err := h.run(sel); err != nil {
		return 0, err
	}
	return choice, nil
}

// Confirm implements Picker.
func (h Huh) Confirm(title string, def bool) (bool, error) {
	ok := def
	c := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)
	if err := h.run(c); err != nil {
		return false, err
	}
	return ok, nil
}

// Input implements Picker.
func (h Huh) Input(title string) (string, error) {
	var s string
	if err := h.run(huh.NewInput().Title(title).Value(&s)); err != nil {
		return "", err
	}
	return s, nil
}
