// Cancel-ci cancels running CI on a pull request, including runs on
// commits that have since been force-pushed away.
//
// Usage:
//
//	cancel-ci [-R repo] [pr]
package main
