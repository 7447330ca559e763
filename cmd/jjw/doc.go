// Jjw manages jj workspaces under a common directory.
//
// Usage:
//
//	cd "$(jjw create)"
//	jjw ls
//	jjw rm
package main
