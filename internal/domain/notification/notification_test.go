package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectory struct {
	admins    []uuid.UUID
	residents []uuid.UUID
	occupants map[uuid.UUID][]uuid.UUID
	members   map[uuid.UUID][]uuid.UUID
	err       error
}

func (d stubDirectory) AdminIDs(context.Context) ([]uuid.UUID, error) { return d.admins, d.err }
func (d stubDirectory) ResidentIDs(context.Context) ([]uuid.UUID, error) {
	return d.residents, d.err
}
func (d stubDirectory) FlatOccupantIDs(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return d.occupants[id], d.err
}
func (d stubDirectory) FlatMemberIDs(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return d.members[id], d.err
}

func TestRecipientSet_DedupAndActorExclusion(t *testing.T) {
	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()
	set := NewRecipientSet(u1)

	assert.Equal(t, 0, set.Add(u1))
	assert.Equal(t, 2, set.Add(u2, u3, u2))
	assert.Equal(t, 0, set.Add(u3, uuid.Nil))

	assert.Equal(t, []uuid.UUID{u2, u3}, set.IDs())
	assert.False(t, set.Contains(u1))
}

func TestCollect_OwnerAndAdminsTriggeredByOwner(t *testing.T) {
	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()
	dir := stubDirectory{admins: []uuid.UUID{u1, u2, u3}}

	set, err := Collect(context.Background(), dir, u1, Users("owner", u1), Admins())
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{u2, u3}, set.IDs())
}

func TestCollect_OnlyActorEligible(t *testing.T) {
	actor := uuid.New()
	set, err := Collect(context.Background(), stubDirectory{admins: []uuid.UUID{actor}}, actor,
		Users("creator", actor), Admins())
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestCollect_FlatRules(t *testing.T) {
	flat := uuid.New()
	owner, tenant, member, admin := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	dir := stubDirectory{
		admins:    []uuid.UUID{admin},
		occupants: map[uuid.UUID][]uuid.UUID{flat: {owner, tenant}},
		members:   map[uuid.UUID][]uuid.UUID{flat: {owner, member}},
	}

	set, err := Collect(context.Background(), dir, admin, FlatOccupants(flat), FlatMembers(flat), Admins())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{owner, tenant, member}, set.IDs())
}

func TestCollect_RuleError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Collect(context.Background(), stubDirectory{err: boom}, uuid.New(), Residents())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "residents")
}

func TestRecipientSet_Records(t *testing.T) {
	actor, u := uuid.New(), uuid.New()
	complaintID := uuid.New()
	set := NewRecipientSet(actor)
	set.Add(u)

	now := time.Now()
	recs := set.Records(Event{
		Society:  "acme",
		Actor:    actor,
		Category: CategoryComplaintStatus,
		Title:    "Complaint status updated",
		Message:  "Status changed to resolved",
		Ref:      Ref{ComplaintID: &complaintID},
	}, now)

	require.Len(t, recs, 1)
	assert.Equal(t, u, recs[0].UserID)
	assert.False(t, recs[0].IsRead)
	assert.Equal(t, now.Add(60*24*time.Hour), recs[0].ExpiresAt())
	assert.Equal(t, complaintID, *recs[0].Ref.ComplaintID)
}

func TestEvent_Validate(t *testing.T) {
	ok := Event{Society: "acme", Category: CategoryAnnouncement, Title: "t"}
	assert.NoError(t, ok.Validate())

	noSociety := ok
	noSociety.Society = ""
	assert.Error(t, noSociety.Validate())

	badCategory := ok
	badCategory.Category = "spam"
	assert.Error(t, badCategory.Validate())
}
