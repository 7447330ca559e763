// Package pickertest provides a scripted picker.Picker for tests.
package pickertest

import "fmt"

// Picker replays canned answers in order and records the prompts it saw.
type Picker struct {
	Selects  []int
	Confirms []bool
	Inputs   []string
	Err      error

	Prompts  []string
	Options  [][]string
	Defaults []bool // def argument of each Confirm
}

// Select implements picker.Picker.
func (p *Picker) Select(title string, options []string) (int, error) {
	p.Prompts = append(p.Prompts, title)
	p.Options = append(p.Options, options)
	if p.Err != nil {
		return 0, p.Err
	}
	if len(p.Selects) == 0 {
		return 0, fmt.Errorf("pickertest: unexpected Select %q", title)
	}
	i := p.Selects[0]
	p.Selects = p.Selects[1:]
	return i, nil
}

// Confirm implements picker.Picker.
func (p *Picker) Confirm(title string, def bool) (bool, error) {
	p.Prompts = append(p.Prompts, title)
	p.Defaults = append(p.Defaults, def)
	if p.Err != nil {
		return false, p.Err
	}
	if len(p.Confirms) == 0 {
		return false, fmt.Errorf("pickertest: unexpected Confirm %q", title)
	}
	ok := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return ok, nil
}

// Input implements picker.Picker.
func (p *Picker) Input(title string) (string, error) {
	p.Prompts = append(p.Prompts, title)
	if p.Err != nil {
		return "", p.Err
	}
	if len(p.Inputs) == 0 {
		return "", fmt.Errorf("pickertest: unexpected Input %q", title)
	}
	s := p.Inputs[0]
	p.Inputs = p.Inputs[1:]
	return s, nil
}
