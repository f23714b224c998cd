package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/playpulse/playpulse-backend/config"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"postgres://u:p@localhost:5432/playpulse", "postgres://u:p@localhost:5432/playpulse?sslmode=disable"},
		{"postgres://u:p@db/playpulse?sslmode=require", "postgres://u:p@db/playpulse?sslmode=require"},
		{"host=localhost dbname=playpulse", "host=localhost dbname=playpulse sslmode=disable"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DSN(&config.DatabaseConfig{DSN: tt.in}), tt.in)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	pqErr := &pq.Error{Code: "23505", Constraint: "versions_project_slug_key"}
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", pqErr), ""))
	assert.True(t, IsUniqueViolation(pqErr, "versions_project_slug_key"))
	assert.False(t, IsUniqueViolation(pqErr, "projects_slug_key"))

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "projects_slug_key"}
	assert.True(t, IsUniqueViolation(pgErr, "projects_slug_key"))

	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
}
