package domain

import "time"

// Report is an internal write-up filed by an employee about a customer
// interaction, e.g. a problematic service visit.
type Report struct {
	ID              string
	EmployeeID      string
	ReportType      string
	Priority        string
	RelatedID       *string
	Subject         string
	Description     string
	SuggestedAction *string
	CreatedAt       time.Time
}
