package picker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devbin/devbin/internal/picker"
	"github.com/devbin/devbin/internal/picker/pickertest"
)

var (
	_ picker.Picker = picker.Huh{}
	_ picker.Picker = (*pickertest.Picker)(nil)
)

func TestHuhSelect_NoOptions(t *testing.T) {
	_, err := picker.Huh{}.Select("Pick a bookmark", nil)
	assert.EqualError(t, err, "Pick a bookmark: nothing to choose from")
}

func TestScriptedPicker(t *testing.T) {
	p := &pickertest.Picker{Selects: []int{1}, Confirms: []bool{true}, Inputs: []string{"feature"}}

	i, err := p.Select("Pick", []string{"a", "b"})
	assert.NoError(t, err)
	assert.Equal(t, 1, i)

	ok, err := p.Confirm("Sure?", false)
	assert.NoError(t, err)
	assert.True(t, ok)

	s, err := p.Input("Name")
	assert.NoError(t, err)
	assert.Equal(t, "feature", s)

	_, err = p.Select("Again", []string{"a"})
	assert.Error(t, err)
	assert.Equal(t, []string{"Pick", "Sure?", "Name", "Again"}, p.Prompts)
}
