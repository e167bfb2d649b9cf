// Package record provides the load/save use cases shared by every record type.
// A Service hydrates payloads from a repository.PayloadRepository (the local
// store or the REST API) into typed records and saves validated records back.
package record

import "errors"

// Sentinel errors for record use case operations.
var (
	// ErrRecordNotFound indicates that no payload is stored under the id.
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidRecordID indicates a zero id where a persisted record is required.
	ErrInvalidRecordID = errors.New("invalid record ID")
)
