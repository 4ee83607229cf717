package db

import (
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	script, err := migrationFiles.ReadFile(names[0])
	require.NoError(t, err)

	for _, table := range []string{"users", "companies", "company_reviews", "job_postings", "cvs", "applications"} {
		assert.Contains(t, string(script), "CREATE TABLE IF NOT EXISTS "+table+" ", "missing table %s", table)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"plain error", fmt.Errorf("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Corp.", "acmecorp"},
		{"  ACME-corp ", "acmecorp"},
		{"FPT Software", "fptsoftware"},
		{"Công ty ABC", "côngtyabc"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		ratings []int
		want    float64
	}{
		{nil, 0},
		{[]int{5}, 5},
		{[]int{4, 5}, 4.5},
		{[]int{4, 4, 5}, 4.3},
		{[]int{1, 2, 2}, 1.7},
	}

	for _, tt := range tests {
		t.Run(strings.Trim(fmt.Sprint(tt.ratings), "[]"), func(t *testing.T) {
			assert.InDelta(t, tt.want, AverageRating(tt.ratings), 1e-9)
		})
	}
}

func TestJobStatus_IsValid(t *testing.T) {
	assert.True(t, JobStatusActive.IsValid())
	assert.True(t, JobStatusDraft.IsValid())
	assert.True(t, JobStatusClosed.IsValid())
	assert.False(t, JobStatus("archived").IsValid())
	assert.False(t, JobStatus("").IsValid())
}
