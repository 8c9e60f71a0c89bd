// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestDSNRewrite verifies scheme conversion and version-table injection.
*/
func TestDSNRewrite(t *testing.T) {
	tests := []struct {
		dsn   string
		table string
		want  string
	}{
		{"postgres://u:p@db:5432/app", "identity_schema_migrations", "pgx5://u:p@db:5432/app?x-migrations-table=identity_schema_migrations"},
		{"postgresql://db/app?sslmode=disable", "tasks_schema_migrations", "pgx5://db/app?sslmode=disable&x-migrations-table=tasks_schema_migrations"},
		{"pgx5://db/app", "", "pgx5://db/app"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, withMigrationsTable(convertToPgx5DSN(tt.dsn), tt.table))
		})
	}
}
