// Package codeblocks renders files as Markdown code blocks or XML file
// elements for pasting into chat tools and LLM prompts.
package codeblocks
