// Package process manages child process trees: the headless browser spawned
// for PDF printing and the research agency subprocess.
package process
