// Jprc pushes the bookmark at @ and opens the create PR page for it.
package main
