package query

import "github.com/matzehuels/farelock/pkg/store"

// Report summarizes the result for the report store.
func (r *Result) Report() (store.Report, error) {
	return store.NewReport(r.Kind, r.Subject, r.Primary, len(r.Entries), r.WithMetadata(), r.Response)
}
