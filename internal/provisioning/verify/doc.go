// Package verify checks a provisioned host: every managed service must be
// active and one HTTP probe against the site must answer 2xx or 3xx.
//
// [Reporter] repeats the check on an interval until its context is done,
// replacing a fixed sleep-and-poll loop with something the operator can
// cancel.
package verify
