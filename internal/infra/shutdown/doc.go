// Package shutdown coordinates graceful process termination.
//
// A Handler waits for SIGINT/SIGTERM (or a programmatic trigger) and
// then runs registered cleanup hooks in reverse order under a shared
// timeout, so a final snapshot can be written and listeners drained
// before the process exits.
package shutdown
