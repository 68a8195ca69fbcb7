package memory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/halcyon-apps/daystore/internal/backend"
	"github.com/halcyon-apps/daystore/internal/sqlformat"
	"github.com/halcyon-apps/daystore/pkg/types"
)

// Query interprets the reduced raw dialect: SELECT * FROM table, optionally
// with a single WHERE col = value equality. Bound parameters are rendered
// into the template first, then the literal is parsed back out. Joins,
// ranges, ORDER BY, and multiple predicates are ErrUnsupportedQuery.
func (b *Backend) Query(stmt string, args ...any) ([]types.Row, error) {
	bound, err := sqlformat.Format(stmt, args...)
	if err != nil {
		return nil, err
	}
	q, err := parseSelect(bound)
	if err != nil {
		return nil, err
	}
	return b.Select(q)
}

// parseSelect parses "SELECT * FROM table [WHERE col = literal]".
func parseSelect(stmt string) (backend.Query, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(stmt), ";"))

	rest, ok := cutKeyword(s, "SELECT")
	if !ok {
		return backend.Query{}, fmt.Errorf("%w: %q", types.ErrUnsupportedQuery, stmt)
	}
	rest, ok = cutPrefixToken(rest, "*")
	if !ok {
		return backend.Query{}, fmt.Errorf("%w: only SELECT * is interpreted: %q", types.ErrUnsupportedQuery, stmt)
	}
	rest, ok = cutKeyword(rest, "FROM")
	if !ok {
		return backend.Query{}, fmt.Errorf("%w: %q", types.ErrUnsupportedQuery, stmt)
	}

	table, rest := nextToken(rest)
	if table == "" {
		return backend.Query{}, fmt.Errorf("%w: missing table name: %q", types.ErrUnsupportedQuery, stmt)
	}
	q := backend.Query{Table: unquoteIdent(table)}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return q, nil
	}

	cond, ok := cutKeyword(rest, "WHERE")
	if !ok {
		return backend.Query{}, fmt.Errorf("%w: %q", types.ErrUnsupportedQuery, stmt)
	}
	where, err := parseEquality(cond)
	if err != nil {
		return backend.Query{}, fmt.Errorf("%w: %q", err, stmt)
	}
	q.Where = where
	return q, nil
}

// parseEquality parses a single "col = literal" predicate. AND chains and any
// operator other than equality are unsupported. Only the column side and the
// text after the literal are inspected for structural tokens, so a string
// literal may contain keywords and comparison characters.
func parseEquality(cond string) (*backend.Equality, error) {
	col, lit, found := strings.Cut(cond, "=")
	if !found {
		return nil, types.ErrUnsupportedQuery
	}
	col = strings.TrimSpace(col)
	if col == "" || strings.ContainsAny(col, "<>!") || strings.ContainsAny(col, " \t") {
		return nil, types.ErrUnsupportedQuery
	}
	// Tolerate the == spelling the engine also accepts.
	lit = strings.TrimPrefix(strings.TrimSpace(lit), "=")
	val, rest, err := scanLiteral(strings.TrimSpace(lit))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rest) != "" {
		return nil, types.ErrUnsupportedQuery
	}
	return &backend.Equality{Column: unquoteIdent(col), Value: val}, nil
}

// scanLiteral consumes one literal from the front of s and returns the value
// and the unconsumed remainder. Single-quoted strings honor the doubled-quote
// escape.
func scanLiteral(s string) (any, string, error) {
	if s == "" {
		return nil, "", types.ErrUnsupportedQuery
	}
	if s[0] == '\'' || s[0] == '"' {
		quote := s[0]
		var val strings.Builder
		for i := 1; i < len(s); i++ {
			if s[i] != quote {
				val.WriteByte(s[i])
				continue
			}
			if quote == '\'' && i+1 < len(s) && s[i+1] == '\'' {
				val.WriteByte('\'')
				i++
				continue
			}
			return val.String(), s[i+1:], nil
		}
		// Unterminated string.
		return nil, "", types.ErrUnsupportedQuery
	}
	tok, rest := s, ""
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		tok, rest = s[:i], s[i:]
	}
	val, err := parseLiteral(tok)
	return val, rest, err
}

// parseLiteral parses a quoted string, number, boolean, or NULL literal into
// its stored primitive.
func parseLiteral(lit string) (any, error) {
	if lit == "" {
		return nil, types.ErrUnsupportedQuery
	}
	if strings.HasPrefix(lit, "'") && strings.HasSuffix(lit, "'") && len(lit) >= 2 {
		return strings.ReplaceAll(lit[1:len(lit)-1], "''", "'"), nil
	}
	if strings.HasPrefix(lit, `"`) && strings.HasSuffix(lit, `"`) && len(lit) >= 2 {
		return lit[1 : len(lit)-1], nil
	}
	switch strings.ToUpper(lit) {
	case "NULL":
		return nil, nil
	case "TRUE":
		return int64(1), nil
	case "FALSE":
		return int64(0), nil
	}
	if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		return f, nil
	}
	return nil, types.ErrUnsupportedQuery
}

// cutKeyword strips a leading keyword (case-insensitive) and the whitespace
// after it.
func cutKeyword(s, keyword string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(keyword) || !strings.EqualFold(s[:len(keyword)], keyword) {
		return s, false
	}
	rest := s[len(keyword):]
	if rest != "" && !strings.HasPrefix(rest, " ") && !strings.HasPrefix(rest, "\t") {
		return s, false
	}
	return strings.TrimSpace(rest), true
}

// cutPrefixToken strips an exact leading token.
func cutPrefixToken(s, token string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, token) {
		return s, false
	}
	return strings.TrimSpace(s[len(token):]), true
}

// nextToken returns the first whitespace-delimited token and the remainder.
func nextToken(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// unquoteIdent strips double quotes from a quoted identifier.
func unquoteIdent(name string) string {
	return strings.Trim(name, `"`)
}
