package errors

import "fmt"

var (
	ErrSubmissionInFlight = fmt.Errorf("a transaction is already in flight")
	ErrNoAccount          = fmt.Errorf("no wallet account is connected")
	ErrPropertyInactive   = fmt.Errorf("property is no longer active")
	ErrSelfPurchase       = fmt.Errorf("buyer already owns this property")
	ErrDocumentRejected   = fmt.Errorf("document type is not allowed")
)
