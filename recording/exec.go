package recording

import (
	"os"
	"strings"
	"time"
)

const execTable = "exec_info"

type execInfo struct {
	Property string
	Value    string
}

// execRecorder records when and how the program ran.
type execRecorder struct {
	recorder DataRecorder
	entries  []execInfo
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	e := &execRecorder{recorder: recorder}
	recorder.CreateTable(execTable, execInfo{})

	return e
}

// Start saves the start time, the command line and the working directory.
func (e *execRecorder) Start() {
	e.entries = append(e.entries,
		execInfo{"Start Time", time.Now().Format(time.RFC3339Nano)},
		execInfo{"Command", strings.Join(os.Args, " ")},
	)

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "unknown"
	}

	e.entries = append(e.entries, execInfo{"Working Directory", cwd})
}

// End writes the saved entries together with the end time.
func (e *execRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(execTable, entry)
	}

	e.recorder.InsertData(execTable,
		execInfo{"End Time", time.Now().Format(time.RFC3339Nano)})

	e.entries = nil

	e.recorder.Flush()
}
