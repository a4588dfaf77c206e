package tablescmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/goliatone/go-table-importer/internal/commands"
	"github.com/goliatone/go-table-importer/internal/commands/fixtures"
)

func TestRegisterTableCommandsRegistersHandlers(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()

	set, err := RegisterTableCommands(reg, &stubImporter{}, &stubRenderer{}, &bytes.Buffer{}, nil)
	if err != nil {
		t.Fatalf("register table commands: %v", err)
	}
	if set == nil || set.Import == nil || set.Render == nil {
		t.Fatalf("expected import and render handlers, got %#v", set)
	}
	if len(reg.Handlers) != 2 {
		t.Fatalf("expected two handlers registered, got %d", len(reg.Handlers))
	}
	if reg.Handlers[0] != set.Import {
		t.Fatalf("expected import handler registered first, got %#v", reg.Handlers[0])
	}
}

func TestRegisterTableCommandsHandlerOptionsApplied(t *testing.T) {
	importApplied := false
	renderApplied := false

	_, err := RegisterTableCommands(nil, &stubImporter{}, &stubRenderer{}, &bytes.Buffer{}, nil,
		WithImportHandlerOptions(func(h *commands.Handler[ImportTableCommand]) {
			importApplied = true
		}),
		WithRenderHandlerOptions(func(h *commands.Handler[RenderPageCommand]) {
			renderApplied = true
		}),
	)
	if err != nil {
		t.Fatalf("register table commands: %v", err)
	}
	if !importApplied || !renderApplied {
		t.Fatal("expected handler options applied")
	}
}

func TestRegisterTableCommandsPropagatesRegistryError(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	reg.Err = errors.New("closed")

	if _, err := RegisterTableCommands(reg, &stubImporter{}, &stubRenderer{}, &bytes.Buffer{}, nil); !errors.Is(err, reg.Err) {
		t.Fatalf("expected registry error, got %v", err)
	}
	if _, err := RegisterTableCommands(reg, nil, &stubRenderer{}, &bytes.Buffer{}, nil); err == nil {
		t.Fatal("expected error for nil importer")
	}
}
