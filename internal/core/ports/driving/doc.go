// Package driving defines the interfaces the core offers to callers:
// the query API used per user message and the rebuild/status API used
// by admin actions and scheduled jobs.
//
// The serving layer (chat handler, admin dashboard, CLI) depends only
// on these interfaces.
package driving
