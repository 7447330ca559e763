package textedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		text string
		reps []Replacement
		want string
	}{
		{
			name: "first occurrence only",
			text: "foo foo foo",
			reps: []Replacement{{Old: "foo", New: "bar"}},
			want: "bar foo foo",
		},
		{
			name: "sequential edits see earlier results",
			text: "alpha beta",
			reps: []Replacement{{Old: "alpha", New: "gamma"}, {Old: "gamma beta", New: "done"}},
			want: "done",
		},
		{
			name: "missing old is a no-op",
			text: "unchanged",
			reps: []Replacement{{Old: "nope", New: "x"}},
			want: "unchanged",
		},
		{
			name: "no edits",
			text: "same",
			want: "same",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.text, tt.reps))
		})
	}
}

func TestMissing(t *testing.T) {
	reps := []Replacement{{Old: "a", New: "b"}, {Old: "a", New: "c"}, {Old: "b", New: "d"}}
	assert.Equal(t, []Replacement{{Old: "a", New: "c"}}, Missing("a", reps))
}
