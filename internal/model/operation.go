package model

import (
	"sync/atomic"
	"time"
)

//OperationStatus is a status of a sync operation.
type OperationStatus string

const (
	OpStatusPlanned    OperationStatus = "planned" // recorded by a dry run, never executed
	OpStatusInProgress OperationStatus = "in_progress"
	OpStatusCompleted  OperationStatus = "completed"
	OpStatusFailed     OperationStatus = "failed"
)

type OperationKind string

const (
	OpKindRemove   OperationKind = "remove"
	OpKindMakeDir  OperationKind = "mkdir"
	OpKindCopyFile OperationKind = "copy_file"
	OpKindSymlink  OperationKind = "symlink"
	OpKindRollback OperationKind = "rollback"
)

var generateOperationID = createUint64IDGenerator()

func createUint64IDGenerator() func() uint64 {
	counter := new(atomic.Uint64)
	return func() uint64 {
		return counter.Add(1)
	}
}

// Operation - one filesystem action taken by the copy engine on the destination root (or planned by a dry run).
type Operation struct {
	ID          uint64          `json:"id"`
	Kind        OperationKind   `json:"kind"`
	Status      OperationStatus `json:"status"`
	Src         string          `json:"src,omitempty"`
	Dst         string          `json:"dst"`
	Size        int64           `json:"size"`
	Err         string          `json:"err,omitempty"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

func NewOperation(kind OperationKind, src, dst string, size int64) *Operation {
	return &Operation{
		ID:        generateOperationID(),
		Kind:      kind,
		Status:    OpStatusInProgress,
		Src:       src,
		Dst:       dst,
		Size:      size,
		StartedAt: time.Now(),
	}
}

func (op *Operation) Plan() {
	op.Status = OpStatusPlanned
}

func (op *Operation) Complete() {
	now := time.Now()
	op.CompletedAt = &now
	op.Status = OpStatusCompleted
}

func (op *Operation) Fail(err error) {
	now := time.Now()
	op.CompletedAt = &now
	op.Status = OpStatusFailed
	if err != nil {
		op.Err = err.Error()
	}
}

func (op *Operation) IsNotNilAndOver() bool {
	return op != nil && (op.Status == OpStatusPlanned || op.Status == OpStatusCompleted || op.Status == OpStatusFailed)
}
