package resident

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(" Asha ", " ASHA@Example.com ", "99999", RoleOwner, "hash")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.True(t, u.IsActive)

	_, err = NewUser("Asha", "a@b.c", "1", Role("janitor"), "hash")
	assert.Error(t, err)

	_, err = NewUser("Asha", "a@b.c", "", RoleOwner, "hash")
	assert.Error(t, err)
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, RoleSuper.IsValid())
	assert.True(t, RoleTenant.IsResident())
	assert.False(t, RoleAdmin.IsResident())
}

func TestFlat_Assign(t *testing.T) {
	f, err := NewFlat("A-101", decimal.NewFromInt(850))
	require.NoError(t, err)
	assert.Equal(t, FlatVacant, f.Status)
	assert.Empty(t, f.Occupants())

	owner, tenant := uuid.New(), uuid.New()
	require.NoError(t, f.Assign(RoleOwner, owner))
	assert.Equal(t, FlatOccupied, f.Status)
	assert.Error(t, f.Assign(RoleOwner, uuid.New()))

	require.NoError(t, f.Assign(RoleTenant, tenant))
	assert.Equal(t, []uuid.UUID{owner, tenant}, f.Occupants())

	assert.Error(t, f.Assign(RoleAdmin, uuid.New()))
}

func TestNewFlat_Validation(t *testing.T) {
	_, err := NewFlat("  ", decimal.Zero)
	assert.Error(t, err)
	_, err = NewFlat("B-2", decimal.NewFromInt(-1))
	assert.Error(t, err)
}
