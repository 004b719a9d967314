// Package report searches the loan history for administrators.
package report

import (
	"strings"

	"biblioteca/internal/loan"
)

// Filter narrows a loan search. Search matches case-insensitive substrings of
// the book, the cliente and the issuing user; Estado matches exactly.
type Filter struct {
	Search string
	Estado *loan.State
}

// NewFilter parses raw query values. An empty estado selects every state.
func NewFilter(search, estado string) (Filter, error) {
	f := Filter{Search: strings.TrimSpace(search)}
	if strings.TrimSpace(estado) == "" {
		return f, nil
	}
	st, err := loan.ParseState(estado)
	if err != nil {
		return Filter{}, err
	}
	f.Estado = &st
	return f, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
