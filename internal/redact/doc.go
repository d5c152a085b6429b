// Package redact scrubs secrets from code and diffs before they leave the
// machine.
//
// Detection is heuristic: API keys, JWTs, private key headers, AWS keys,
// bearer tokens, credentials embedded in connection URLs and a few vendor
// token formats. Sources matching configured glob patterns are withheld
// entirely.
package redact
