// Package providers is the client for an Ollama inference server.
//
// [Ollama.Chat] posts a non-streaming chat request to /api/chat. Transport
// failures (dial errors, timeouts, truncated bodies) are retried immediately
// up to the configured attempt count; when every attempt fails the result is
// marked Exhausted and no error is returned. An unexpected status or a
// malformed success body ends the request with an error at once, see
// [IsRequestProblem].
//
// Tests point the client at httptest servers or inject a RoundTripper so no
// live server is needed.
package providers
