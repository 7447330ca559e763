package term

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter_PlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Step("Checking PR #%d in %s...", 12, "oxidecomputer/console")
	p.Info("No running CI found.")
	p.Dim("jj workspace forget %s", "console-1")
	p.Error("Cancelled")

	assert.Equal(t, "==> Checking PR #12 in oxidecomputer/console...\n"+
		"No running CI found.\n"+
		"jj workspace forget console-1\n"+
		"error: Cancelled\n", buf.String())
}
