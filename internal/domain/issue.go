// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// IssueRecord is a single issue as supplied by an issue source.
// It is the core domain entity of this application: an immutable value
// with no relationships to other records.
type IssueRecord struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Labels    []string  `json:"labels"`
	Assignees []string  `json:"assignees"`
}
