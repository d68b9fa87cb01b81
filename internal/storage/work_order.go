package storage

import "time"

type WorkOrder struct {
	ControlNumber         int64     `json:"controlNumber"`
	WorkOrderNumber       string    `json:"workOrderNumber"`
	ProjectCode           string    `json:"projectCode"`
	Priority              string    `json:"priority"`
	GroupSection          string    `json:"groupWorkOrder"`
	WorkOrderDate         time.Time `json:"workOrderDate"`
	ReceivedDate          time.Time `json:"receivedDate"`
	DesiredCompletionDate time.Time `json:"desiredCompletionDate"`
	ProductDescription    string    `json:"productDescription"`
	DocUploadPath         *string   `json:"documentPath"`
	CreatedBy             string    `json:"-"`
}
