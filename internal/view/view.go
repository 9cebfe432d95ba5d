// Package view renders the public HTML pages as templ components.
package view

// VerifyStatus is the outcome shown on the verification page.
type VerifyStatus int

const (
	StatusMissingID VerifyStatus = iota
	StatusVerified
	StatusNotFound
)

// LookupState is the outcome shown by the name and email lookup fragment.
type LookupState int

const (
	// LookupIdle is the empty placeholder rendered before any lookup.
	LookupIdle LookupState = iota
	LookupVerified
	LookupNotFound
	// LookupIncomplete means the name or the email was blank.
	LookupIncomplete
	// LookupFailed means the ledger could not be queried.
	LookupFailed
)

// LookupResultID is the element patched by the lookup form.
const LookupResultID = "lookup-result"
