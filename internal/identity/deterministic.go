package identity

import (
	"path"
	"strings"

	"github.com/goliatone/go-slug"
	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const tableIDPrefix = "table"

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// TableUUID identifies the table generated from a data file reference.
func TableUUID(file string) uuid.UUID {
	return UUID("go-table-importer:table:" + strings.TrimSpace(file))
}

// TableID returns an HTML id for a table rendered from file: the slug of the
// file's base name followed by a short suffix taken from TableUUID, so two
// references with the same base name in different directories stay distinct.
func TableID(file string) string {
	trimmed := strings.TrimSpace(file)
	if trimmed == "" {
		return ""
	}
	base := path.Base(strings.ReplaceAll(trimmed, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))

	name, err := slug.Normalize(base)
	if err != nil || name == "" {
		name = "data"
	}
	suffix := strings.ReplaceAll(TableUUID(trimmed).String(), "-", "")[:8]
	return tableIDPrefix + "-" + name + "-" + suffix
}
