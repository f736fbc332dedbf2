package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyhub/backend/internal/domain/billing"
	"github.com/societyhub/backend/internal/infrastructure/persistence/models"
	"github.com/societyhub/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		dir      string
		expected string
	}{
		{"defaults", "", "", "due_date DESC, id"},
		{"whitelisted ascending", "amount", "asc", "amount ASC, id"},
		{"mixed case direction", " status ", "AsC", "status ASC, id"},
		{"unknown column falls back", "password_hash", "asc", "due_date ASC, id"},
		{"injection in column", "amount; DROP TABLE slips;--", "", "due_date DESC, id"},
		{"injection in direction", "amount", "ASC; DROP TABLE slips;--", "amount DESC, id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, orderClause(tt.field, tt.dir, MaintenanceSortFields, "due_date"))
		})
	}
}

func TestGormMaintenanceRepository_ListOrdering(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t, models.TenantSchema()...)
	repo := NewGormMaintenanceRepository(db)

	flatID := uuid.New()
	for i, amount := range []string{"300", "100", "200"} {
		m, err := billing.NewMaintenance(flatID, decimal.RequireFromString(amount),
			time.Date(2025, time.Month(i+1), 5, 0, 0, 0, 0, time.UTC), "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, m))
	}

	amounts := func(filter billing.MaintenanceFilter) []string {
		items, err := repo.List(ctx, filter)
		require.NoError(t, err)
		out := make([]string, len(items))
		for i := range items {
			out[i] = items[i].Amount.String()
		}
		return out
	}

	assert.Equal(t, []string{"200", "100", "300"}, amounts(billing.MaintenanceFilter{}), "newest due date first")
	assert.Equal(t, []string{"100", "200", "300"}, amounts(billing.MaintenanceFilter{SortBy: "amount", SortDir: "asc"}))
	assert.Equal(t, []string{"300", "100", "200"}, amounts(billing.MaintenanceFilter{SortBy: "nope", SortDir: "asc"}))
}
