// Package output writes assembled PR context and LLM responses to stdout or
// to a file.
//
// Two context formats are supported:
//   - markdown: the sections joined as a single Markdown document (default)
//   - json: an object with the PR reference and a list of sections
package output
