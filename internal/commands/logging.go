package commands

import (
	"strings"

	"github.com/goliatone/go-table-importer/internal/logging"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

const commandModuleRoot = "tableimporter.commands"

// CommandLogger scopes a logger to tableimporter.commands.<group> and tags it
// with the command group.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.ToLower(strings.TrimSpace(group))
	if group == "" {
		return logging.ModuleLogger(provider, commandModuleRoot)
	}
	return logging.WithFields(
		logging.ModuleLogger(provider, commandModuleRoot+"."+group),
		map[string]any{"command_group": group},
	)
}
