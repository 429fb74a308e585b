package core

// Revertible is implemented by state holders that take part in an atomic
// engine operation. Snapshots nest and must be released in LIFO order by
// either RevertToSnapshot or Commit.
type Revertible interface {
	Snapshot() int
	RevertToSnapshot(id int)
	Commit(id int)
}
