// Package availability aggregates free/busy data across a user's connected
// calendar accounts into a single, timezone-correct picture of availability.
//
// The Service fans out to one provider adapter per calendar connection,
// tolerates per-connection failures (an unreachable provider contributes no
// busy time instead of failing the request), merges the collected busy
// periods into a minimal disjoint set, and renders the result in the
// caller's requested IANA timezone. Slot generation discretizes a calendar
// day into fixed-size slots tagged available or busy, and the suggestion
// ranker orders available slots for presentation.
//
// Provider adapters implement the Provider interface; see the googlecal and
// outlook packages. Calendar connections are read through the
// connections.Store collaborator and are never written here.
//
// Example usage:
//
//	svc, err := availability.NewService(availability.Config{
//	    Store:     store,
//	    Google:    googlecal.New(googleCfg),
//	    Microsoft: outlook.New(outlookCfg),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	days, err := svc.Availability(ctx, availability.Request{
//	    AccountID: "acct-1",
//	    StartDate: "2025-11-17",
//	    EndDate:   "2025-11-21",
//	    Timezone:  "America/Los_Angeles",
//	})
package availability
