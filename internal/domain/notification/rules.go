package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Directory answers recipient queries against a society's current data
type Directory interface {
	AdminIDs(ctx context.Context) ([]uuid.UUID, error)
	// ResidentIDs returns every owner and tenant.
	ResidentIDs(ctx context.Context) ([]uuid.UUID, error)
	// FlatOccupantIDs returns the flat's current owner and tenant.
	FlatOccupantIDs(ctx context.Context, flatID uuid.UUID) ([]uuid.UUID, error)
	// FlatMemberIDs returns users whose home flat is flatID.
	FlatMemberIDs(ctx context.Context, flatID uuid.UUID) ([]uuid.UUID, error)
}

// Rule selects recipients for an event
type Rule struct {
	Name   string
	Select func(ctx context.Context, dir Directory) ([]uuid.UUID, error)
}

// Users selects a fixed list of users, such as the owner of a record
func Users(name string, ids ...uuid.UUID) Rule {
	return Rule{
		Name: name,
		Select: func(context.Context, Directory) ([]uuid.UUID, error) {
			return ids, nil
		},
	}
}

// Admins selects every admin of the society
func Admins() Rule {
	return Rule{
		Name: "admins",
		Select: func(ctx context.Context, dir Directory) ([]uuid.UUID, error) {
			return dir.AdminIDs(ctx)
		},
	}
}

// Residents selects every owner and tenant of the society
func Residents() Rule {
	return Rule{
		Name: "residents",
		Select: func(ctx context.Context, dir Directory) ([]uuid.UUID, error) {
			return dir.ResidentIDs(ctx)
		},
	}
}

// FlatOccupants selects the owner and tenant recorded on a flat
func FlatOccupants(flatID uuid.UUID) Rule {
	return Rule{
		Name: "flat_occupants",
		Select: func(ctx context.Context, dir Directory) ([]uuid.UUID, error) {
			return dir.FlatOccupantIDs(ctx, flatID)
		},
	}
}

// FlatMembers selects users living in a flat
func FlatMembers(flatID uuid.UUID) Rule {
	return Rule{
		Name: "flat_members",
		Select: func(ctx context.Context, dir Directory) ([]uuid.UUID, error) {
			return dir.FlatMemberIDs(ctx, flatID)
		},
	}
}

// Collect evaluates rules in order into a single recipient set that never
// contains the actor.
func Collect(ctx context.Context, dir Directory, actor uuid.UUID, rules ...Rule) (*RecipientSet, error) {
	set := NewRecipientSet(actor)
	for _, r := range rules {
		if r.Select == nil {
			continue
		}
		ids, err := r.Select(ctx, dir)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.Name, err)
		}
		set.Add(ids...)
	}
	return set, nil
}
