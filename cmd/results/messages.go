package main

// RunsLoadedMsg carries the run directories discovered under the results root.
type RunsLoadedMsg struct {
	Runs []RunEntry
}

// LoadErrorMsg indicates the results root could not be read.
type LoadErrorMsg struct {
	Err error
}
