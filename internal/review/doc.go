// Package review is the request pipeline between the command surfaces and
// the inference server.
//
// A run assembles the mode's instructional texts and the caller's inputs
// into chat messages ([Assemble]), estimates the context window
// ([EstimateContext]), applies the size ceiling ([Admit]), dispatches
// through a [providers.Chatter] and appends the provenance line
// ([FormatReply]).
//
// Oversized requests come back with [StatusSkipped] and make no network
// call. Requests whose every attempt failed in transport come back with
// [StatusExhausted] and empty text. Only missing required input
// ([IsUsageError]) and fatal protocol failures are returned as errors.
package review
