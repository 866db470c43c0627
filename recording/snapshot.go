package recording

import (
	"strings"
	"time"

	"github.com/sarchlab/clocktree/clock"
)

// SnapshotTable is the table that RecordSnapshot writes.
const SnapshotTable = "clock_snapshot"

// SnapshotEntry is the state of one clock at the time of a snapshot.
type SnapshotEntry struct {
	Label        string
	Time         string
	Name         string
	Parent       string
	Rate         uint64
	NominalRate  uint64
	UsageCount   int
	Enabled      bool
	Flags        string
	Capabilities string
	Aliases      string
}

// RecordSnapshot writes the state of every clock of the registry under the
// given label and flushes the recorder.
func RecordSnapshot(reg *clock.Registry, recorder DataRecorder, label string) {
	if !hasTable(recorder, SnapshotTable) {
		recorder.CreateTable(SnapshotTable, SnapshotEntry{})
	}

	now := time.Now().Format(time.RFC3339Nano)

	for _, info := range reg.Snapshot() {
		recorder.InsertData(SnapshotTable, SnapshotEntry{
			Label:        label,
			Time:         now,
			Name:         info.Name,
			Parent:       info.Parent,
			Rate:         uint64(info.Rate),
			NominalRate:  uint64(info.NominalRate),
			UsageCount:   info.UsageCount,
			Enabled:      info.Enabled,
			Flags:        info.Flags,
			Capabilities: info.Capabilities,
			Aliases:      strings.Join(info.Aliases, ","),
		})
	}

	recorder.Flush()
}
