package model

//DiffResult is the outcome of comparing two roots.
//LeftOnly holds the entries whose up-to-date copy is on the left root and which the right root lacks
//(absent there, or present with a smaller size); RightOnly is symmetric.
//A path belongs to at most one of the sets.
type DiffResult struct {
	LeftOnly  []string
	RightOnly []string
}

func (d DiffResult) Len() int {
	return len(d.LeftOnly) + len(d.RightOnly)
}

func (d DiffResult) IsEmpty() bool {
	return d.Len() == 0
}

//Swap returns the result as it would look with the roots exchanged.
func (d DiffResult) Swap() DiffResult {
	return DiffResult{LeftOnly: d.RightOnly, RightOnly: d.LeftOnly}
}

//CopyPlan holds the root-relative paths that will be copied left->right (LeftOnly) and right->left (RightOnly),
//together with the disk space each root needs to receive them.
type CopyPlan struct {
	LeftOnly      []string
	RightOnly     []string
	NeededOnLeft  int64 // in bytes, RightOnly measured on the right root
	NeededOnRight int64 // in bytes, LeftOnly measured on the left root
}

func (p CopyPlan) Len() int {
	return len(p.LeftOnly) + len(p.RightOnly)
}
