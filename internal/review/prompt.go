package review

import (
	"fmt"
	"strings"
)

// ReviewSystemPrompt asks for a critical review of a pull request.
const ReviewSystemPrompt = "You are an experienced software engineer reviewing a pull request. " +
	"You will get the description and diff of the PR, plus linked issues, and possibly more files for context. " +
	"Review the change for correctness, convention-following, elegance, and good user experience. " +
	"Also consider whether the PR description adequately explains the goals of the code change and whether the code is the best way of achieving those goals. " +
	"Have high standards and be a harsh critic. We want really high-quality code. " +
	"Do not reproduce the diff except in small parts in order to comment on a few lines. Do not reproduce large chunks of the diff. " +
	"Focus on substantive suggestions that improve correctness or clarity. " +
	"Do NOT go through the change piece by piece and describe what the PR does in detail unless it is needed to explain a suggestion. " +
	"Do not bother praising the change as necessary or important or good. " +
	"At the top of your response, include a header like '## Review of [reponame#1234: PR Title Here](https://github.com/owner/reponame/pull/1234)'"

const reviewInstruction = "Review the above change, focusing on things to change or fix. " +
	"Don't bother listing what's good about it beyond a sentence or two. " +
	"Make sure to verify the claims in the PR body."

// DebugCISystemPrompt asks the model to connect a CI failure to the diff.
const DebugCISystemPrompt = "Figure out why the diff might be causing this test failure."

// CompletionSystemPrompt makes the model behave as an in-editor code
// transformer whose output replaces the selection verbatim.
const CompletionSystemPrompt = `You are part of a code completion system in a text editor. You will receive
a SELECTION of code to transform, followed by a PROMPT. You may also receive
FILEs for context. Operation only on the selection. The prompt and files are
only background context. The text editor will replace the original selection
with your output. CRITICAL: Output ONLY the code itself. Do NOT use markdown
formatting, code fences, backticks, or any other markup. Do NOT include
explanatory text, comments, or prose. If you are asked to modify only part
of the selection, make sure to include the unchanged parts in the output so
they can be reinserted as-is in the target file. Your response should start
immediately with the first character of code and end with the last character
of code.`

// ReviewPrompt appends the review instruction and any extra instructions to
// the PR context.
func ReviewPrompt(prContext, extra string) string {
	var b strings.Builder
	b.WriteString(prContext)
	b.WriteString("\n\n")
	b.WriteString(reviewInstruction)
	if extra = strings.TrimSpace(extra); extra != "" {
		b.WriteString(" ")
		b.WriteString(extra)
	}
	return b.String()
}

// DebugCIPrompt appends the failed job log, fenced, to the PR context.
func DebugCIPrompt(prContext, failedLog string) string {
	return fmt.Sprintf("%s\n\n# Failed CI log\n\n```\n%s\n```", prContext, failedLog)
}

// SelectionPrompt wraps an editor selection, optional file context and the
// user's prompt in the tags CompletionSystemPrompt refers to.
func SelectionPrompt(files, selection, prompt string) string {
	var parts []string
	if files = strings.TrimSpace(files); files != "" {
		parts = append(parts, files)
	}
	parts = append(parts, "<selection>\n"+selection+"\n</selection>")
	if prompt = strings.TrimSpace(prompt); prompt != "" {
		parts = append(parts, "<prompt>\n"+prompt+"\n</prompt>")
	}
	return strings.Join(parts, "\n\n")
}
