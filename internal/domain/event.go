package domain

type ChangeType string

const (
	ChangeInsert  ChangeType = "insert"
	ChangeUpdate  ChangeType = "update"
	ChangeDelete  ChangeType = "delete"
	ChangeStage   ChangeType = "stage"
	ChangeRefresh ChangeType = "refresh"
)

// ChangeEvent is published on the deal topic whenever a quotation or the
// deal's stage changes. Consumers treat it as a wake-up signal only and
// re-resolve state from the repository; no field here is trusted for
// routing decisions.
type ChangeEvent struct {
	DealID        int64      `json:"deal_id"`
	QuotationID   int64      `json:"quotation_id,omitempty"`
	ChangeType    ChangeType `json:"change_type"`
	ChangedFields []string   `json:"changed_fields,omitempty"`
}
