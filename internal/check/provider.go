package check

import (
	"context"
	"strings"
	"unicode"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Result is one lookup outcome, mirroring the CSV report columns.
type Result struct {
	Identifier  cnpj.CNPJ
	Name        string // registered company name, empty when not found
	Status      string // registration status as published by the source
	PrimaryCNAE string // primary activity code, empty when not found
	HTTPStatus  int    // last HTTP status received, 0 on transport failure
	OK          bool   // identifier resolved to an active registration
	SourceURL   string
	Err         error
}

// Provider resolves one identifier against a catalog source.
type Provider interface {
	// Name identifies the source in logs and report filenames.
	Name() string

	// Lookup never fails the run: errors are carried inside the Result.
	Lookup(ctx context.Context, c cnpj.CNPJ) Result
}

// diacriticsRemover strips combining marks after NFD decomposition, so
// "Situação" and "Situacao" compare equal.
var diacriticsRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeForMatch lowercases s and strips diacritics and surrounding
// space; all status comparisons go through it.
func normalizeForMatch(s string) string {
	stripped, _, err := transform.String(diacriticsRemover, s)
	if err != nil {
		stripped = s
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}

// isActiveStatus reports whether a registration status means the
// company exists and operates ("ATIVA" in any spelling).
func isActiveStatus(status string) bool {
	n := normalizeForMatch(status)
	return strings.Contains(n, "ativa") && !strings.Contains(n, "inativa") && !strings.Contains(n, "baixada")
}

// collapseSpaces rewrites runs of whitespace as single spaces; scraped
// text is full of layout newlines and tabs.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
