package models

// LeadData is a structured contact/request payload captured by the lead
// node during an execution. The named fields cover the known mapping;
// Extra keeps any other string-valued keys found in the payload so that
// custom workflow fields are not dropped.
type LeadData struct {
	Email   string            `json:"email,omitempty"`
	Subject string            `json:"subject,omitempty"`
	Message string            `json:"message,omitempty"`
	Name    string            `json:"name,omitempty"`
	Phone   string            `json:"phone,omitempty"`
	Extra   map[string]string `json:"extra,omitempty"`
}
