// Package locales embeds the message catalogs served by the gateway.
package locales

import "embed"

// FS holds one YAML catalog per language.
//
//go:embed *.yaml
var FS embed.FS
