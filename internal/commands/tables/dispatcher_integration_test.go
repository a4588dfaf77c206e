package tablescmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-table-importer/internal/commands"
	"github.com/goliatone/go-table-importer/internal/tables"
)

type flakyImporter struct {
	stubImporter
	failures int
}

func (f *flakyImporter) Import(ctx context.Context, req tables.Request) (string, error) {
	if f.failures > 0 {
		f.failures--
		f.requests = append(f.requests, req)
		return "", errors.New("data file busy")
	}
	return f.stubImporter.Import(ctx, req)
}

func TestDispatchImportRetriesStrictFailure(t *testing.T) {
	importer := &flakyImporter{stubImporter: stubImporter{output: "| a |\n| --- |\n"}, failures: 1}
	var out bytes.Buffer
	handler := NewImportTableHandler(importer, &out, nil,
		commands.WithTimeout[ImportTableCommand](time.Second))

	sub := dispatcher.SubscribeCommand[ImportTableCommand](handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), ImportTableCommand{
		File:   "data:people.csv",
		Format: FormatMarkdown,
		Strict: true,
	})
	if err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if len(importer.requests) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(importer.requests))
	}
	if out.String() != "| a |\n| --- |\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestDispatchImportRetryExhaustionPropagatesError(t *testing.T) {
	importer := &flakyImporter{failures: 5}
	var out bytes.Buffer
	handler := NewImportTableHandler(importer, &out, nil,
		commands.WithTimeout[ImportTableCommand](time.Second))

	sub := dispatcher.SubscribeCommand[ImportTableCommand](handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), ImportTableCommand{
		File:   "people.csv",
		Strict: true,
	})
	if err == nil {
		t.Fatal("expected dispatcher to return error after exhausting retries")
	}
	if len(importer.requests) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(importer.requests))
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestDispatchRenderPageRejectsInvalidFormat(t *testing.T) {
	renderer := &stubRenderer{}
	var out bytes.Buffer
	handler := NewRenderPageHandler(renderer, &out, nil)

	sub := dispatcher.SubscribeCommand[RenderPageCommand](handler)
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), RenderPageCommand{Path: "page.md", Format: "pdf"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(renderer.paths) != 0 {
		t.Fatalf("renderer should not run, got %v", renderer.paths)
	}
}
