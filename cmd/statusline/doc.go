// Statusline formats the session JSON an agent CLI pipes to its status line
// command as "model | tokens (percent) | cost".
package main
