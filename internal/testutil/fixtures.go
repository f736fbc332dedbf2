package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/society"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Password is the plain text password of every fixture user
const Password = "Secret#123"

var passwordHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// Faker returns a seeded faker so fixture data is stable per test
func Faker(t *testing.T) *gofakeit.Faker {
	t.Helper()
	var seed int64
	for _, r := range t.Name() {
		seed = seed*31 + int64(r)
	}
	return gofakeit.New(seed)
}

// NewSociety builds a descriptor pointing at dsn
func NewSociety(t *testing.T, code, dsn string) *society.Society {
	t.Helper()
	s, err := society.NewSociety(Faker(t).Company(), code, dsn, Faker(t).Address().Address)
	require.NoError(t, err)
	return s
}

// NewUser builds an active user with role. The password is Password.
func NewUser(t *testing.T, f *gofakeit.Faker, role resident.Role, flatID *uuid.UUID) *resident.User {
	t.Helper()
	email := strings.ToLower(f.Username()) + "." + uuid.NewString()[:8] + "@example.com"
	u, err := resident.NewUser(f.Name(), email, f.Numerify("98########"), role, passwordHash)
	require.NoError(t, err)
	u.FlatID = flatID
	return u
}

// NewFlat builds a vacant flat with a unique number
func NewFlat(t *testing.T, f *gofakeit.Faker) *resident.Flat {
	t.Helper()
	flat, err := resident.NewFlat(
		f.Numerify("A-###")+"-"+uuid.NewString()[:4],
		decimal.NewFromInt(int64(f.IntRange(450, 2400))),
	)
	require.NoError(t, err)
	return flat
}

// DueDate returns a fixed due date in year/month
func DueDate(year int, month time.Month) time.Time {
	return time.Date(year, month, 10, 0, 0, 0, 0, time.UTC)
}
