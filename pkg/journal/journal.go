package journal

// Journal records undo functions for state changes made while at least one
// snapshot is open. It is not safe for concurrent use, owners guard it with
// their own lock.
type Journal struct {
	entries []func()
	open    []int
}

// Snapshot opens a snapshot and returns its id
func (j *Journal) Snapshot() int {
	id := len(j.entries)
	j.open = append(j.open, id)
	return id
}

// Append records undo if a snapshot is open
func (j *Journal) Append(undo func()) {
	if len(j.open) == 0 {
		return
	}

	j.entries = append(j.entries, undo)
}

// RevertToSnapshot undoes every change recorded since snapshot id and closes it
func (j *Journal) RevertToSnapshot(id int) {
	for i := len(j.entries) - 1; i >= id; i-- {
		j.entries[i]()
	}

	j.entries = j.entries[:id]
	j.close(id)
}

// Commit closes snapshot id keeping its changes. Undo entries are dropped
// once the outermost snapshot is closed.
func (j *Journal) Commit(id int) {
	j.close(id)
	if len(j.open) == 0 {
		j.entries = j.entries[:0]
	}
}

// Depth number of open snapshots
func (j *Journal) Depth() int {
	return len(j.open)
}

func (j *Journal) close(id int) {
	for i := len(j.open) - 1; i >= 0; i-- {
		if j.open[i] == id {
			j.open = j.open[:i]
			return
		}
	}
}
