package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type rawClause string

func (c rawClause) SQL(_ *Args) string { return string(c) }

type eqClause struct {
	column string
	value  any
}

func (c eqClause) SQL(args *Args) string {
	return c.column + " = " + args.Add(c.value)
}

func TestArgs_Placeholders(t *testing.T) {
	var args Args
	assert.Equal(t, "$1", args.Add("a"))
	assert.Equal(t, "$2", args.Add(2))
	assert.Equal(t, 2, args.Len())
	assert.Equal(t, []any{"a", 2}, args.Values())
}

func TestWhereSQL(t *testing.T) {
	tests := []struct {
		name   string
		clause Clause
		want   string
	}{
		{"nil clause", nil, ""},
		{"blank clause", rawClause("  "), ""},
		{"simple clause", rawClause("j.status = 'active'"), "WHERE j.status = 'active'"},
		{"clause with args", eqClause{"j.industry", "it"}, "WHERE j.industry = $1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args Args
			assert.Equal(t, tt.want, whereSQL(tt.clause, &args))
		})
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"golang", "golang"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\path`, `c:\\path`},
	}

	for _, tt := range tests {
		if got := EscapeLike(tt.in); got != tt.want {
			t.Errorf("EscapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%dev%", ContainsPattern("dev"))
	assert.Equal(t, `%50\%%`, ContainsPattern("50%"))
}
