//go:build integration

package review_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dshills/ccw/internal/modes"
	"github.com/dshills/ccw/internal/providers"
	"github.com/dshills/ccw/internal/review"
)

// liveClient returns a client for the server in OLLAMA_HOST, skipping the
// test when it is unset or unreachable.
func liveClient(t *testing.T) *providers.Ollama {
	t.Helper()
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		t.Skip("skipping: OLLAMA_HOST not set")
	}
	client, err := providers.NewOllama(providers.Options{Host: host, Timeout: 5 * time.Minute, MaxAttempts: 1})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		t.Skipf("skipping: ollama not reachable: %v", err)
	}
	return client
}

func liveModel() string {
	if m := os.Getenv("CCW_MODEL"); m != "" {
		return m
	}
	return review.DefaultModel
}

// snippet runs a user-controlled string through a shell.
const snippet = `package cmd

import "os/exec"

func Run(userInput string) ([]byte, error) {
	return exec.Command("bash", "-c", userInput).CombinedOutput()
}
`

func TestIntegration_Checker(t *testing.T) {
	client := liveClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	e := review.New(review.Options{Model: liveModel()}, client)
	res, err := e.Run(ctx, modes.Builtin().Lookup("checker"), review.Input{Body: snippet, Source: "cmd/run.go"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Status != review.StatusSucceeded {
		t.Fatalf("Status = %q", res.Status)
	}
	if !strings.HasSuffix(res.Text, review.Signature(liveModel())) {
		t.Errorf("reply lacks signature: %q", res.Text)
	}
	t.Logf("reply in %ds:\n%s", res.Seconds(), res.Text)
}

func TestIntegration_Ask(t *testing.T) {
	client := liveClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	e := review.New(review.Options{Model: liveModel()}, client)
	res, err := e.Run(ctx, modes.Builtin().Lookup("ask"), review.Input{Question: "In one sentence, what does a mutex protect?"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Status != review.StatusSucceeded || strings.TrimSpace(res.Text) == "" {
		t.Errorf("result = %+v", res)
	}
}
