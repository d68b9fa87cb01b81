package storage

type NewPart struct {
	PartNumber  string `json:"partNumber"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

type PartDetail struct {
	PartNumber  string `json:"part_number"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
}

type Part struct {
	ControlNumber int64  `json:"control_number"`
	PartNumber    string `json:"part_number"`
	Description   string `json:"description"`
	Quantity      int    `json:"quantity"`
	Status        string `json:"status"`
}
