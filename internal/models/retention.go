package models

import "time"

// RetentionSnapshot is one row of the append-only retention metrics log.
// Snapshots are created by the analytics aggregator and never updated or
// deleted afterwards.
type RetentionSnapshot struct {
	ID                      string
	Timestamp               time.Time
	TotalAnonymousUsers     int
	TotalAuthenticatedUsers int
	// ConversionRate is stored pre-formatted, e.g. "25.00%", or the
	// literal "0%" when there are no accounts to divide by.
	ConversionRate    string
	InactiveUsers24hr int
}
