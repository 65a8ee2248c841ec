// Package builtin embeds the grammars shipped with tokmark.
package builtin

import "embed"

// CatalogPath is the path of the mode catalog within FS.
const CatalogPath = "catalog.yaml"

// FS holds the catalog and the grammar documents.
//
//go:embed *.yaml
var FS embed.FS
