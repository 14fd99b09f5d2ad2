package services

// Bulk operations (assignment creation, score saves, reorder, template
// application) are sequences of independent per-row writes, not one
// transaction. A mid-batch failure leaves earlier rows written, so every
// bulk call reports a per-item outcome list instead of a single error.

// Batch item statuses.
const (
	BatchCreated       = "created"
	BatchUpdated       = "updated"
	BatchSkipped       = "skipped"
	BatchAlreadyExists = "already_exists"
	BatchFailed        = "failed"
)

// BatchItemResult is the outcome of one row inside a bulk operation. Key
// identifies the row (application id, criteria id, ...) so callers can
// retry only the failed subset.
type BatchItemResult struct {
	Key       int    `json:"key"`
	Status    string `json:"status"`
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchResult summarizes a best-effort bulk operation.
type BatchResult struct {
	Items   []BatchItemResult `json:"items"`
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Skipped int               `json:"skipped"`
	Failed  int               `json:"failed"`
}

func (b *BatchResult) add(item BatchItemResult) {
	b.Items = append(b.Items, item)
	switch item.Status {
	case BatchCreated:
		b.Created++
	case BatchUpdated:
		b.Updated++
	case BatchSkipped, BatchAlreadyExists:
		b.Skipped++
	case BatchFailed:
		b.Failed++
	}
}

func (b *BatchResult) addOK(key int, status string) {
	b.add(BatchItemResult{Key: key, Status: status})
}

func (b *BatchResult) addErr(key int, err error) {
	b.add(BatchItemResult{
		Key:       key,
		Status:    BatchFailed,
		ErrorKind: string(KindOf(err)),
		Error:     err.Error(),
	})
}

// AllSucceeded reports whether no item failed.
func (b *BatchResult) AllSucceeded() bool {
	return b.Failed == 0
}
