package api

// Change-stream events. The backend reports row-level mutations made by
// any client; the feed folds inserts into its working set and leaves
// updates/deletes to the next full refresh.

type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

const TableComments = "comments"

type ChangeEvent struct {
	Op    Operation `json:"op"`
	Table string    `json:"table"`

	// Comment is populated for comments-table events. The record is
	// fully enriched (author denormalized) by the adapter before the
	// event is delivered.
	Comment *CommentRecord `json:"comment,omitempty"`
}
