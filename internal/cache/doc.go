// Package cache keeps model replies on disk so that an identical request
// can be answered without contacting the inference server.
//
// Keys are SHA-256 digests of the model, context window and assembled
// messages. Entries older than the configured TTL are treated as misses and
// removed. The default location is $XDG_CACHE_HOME/ccw or the OS
// equivalent.
package cache
