package collab_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskboard/internal/collab"
	"github.com/tgienger/taskboard/internal/models"
)

var (
	me     = collab.Identity{ID: "u0", Name: "Me", Email: "me@example.com", OrganizationID: "acme"}
	ana    = models.User{ID: "u1", Name: "Ana", Status: models.UserActive}
	bo     = models.User{ID: "u2", Name: "Bo", Status: models.UserAway}
	cy     = models.User{ID: "u3", Name: "Cy", Status: models.UserActive}
	anchor = collab.AnchorKey("t1")
)

func startedLocal(t *testing.T) *collab.Local {
	t.Helper()
	l := collab.NewLocal([]models.User{ana, bo})
	ctx := context.Background()
	require.NoError(t, l.Identify(ctx, me))
	require.NoError(t, l.BindDocument(ctx, collab.DocumentKey(me.OrganizationID, "p1")))
	return l
}

func TestKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "acme/p1", collab.DocumentKey("acme", "p1"))
	assert.Equal(t, "default/p1", collab.DocumentKey("", "p1"))
	assert.Equal(t, "task-card-t1", anchor)
}

func TestIdentityValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, me.Validate())
	assert.Error(t, collab.Identity{Name: "x"}.Validate())
	assert.Error(t, collab.Identity{ID: "x"}.Validate())
}

func TestLocalPresenceListsSelfFirst(t *testing.T) {
	t.Parallel()

	users, err := startedLocal(t).Presence(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "u0", users[0].ID)
	assert.Equal(t, models.UserActive, users[0].Status)
}

func TestLocalRequiresBoundDocument(t *testing.T) {
	t.Parallel()

	l := collab.NewLocal(nil)
	_, err := l.Presence(context.Background())
	assert.ErrorIs(t, err, collab.ErrNotBound)
	_, err = l.AddComment(context.Background(), anchor, ana, "hi")
	assert.ErrorIs(t, err, collab.ErrNotBound)
	assert.ErrorIs(t, l.BindDocument(context.Background(), ""), collab.ErrNotBound)
}

func TestLocalCommentsAndReplies(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	l := collab.NewLocal(nil, collab.WithLocalClock(func() time.Time { return at }))
	ctx := context.Background()
	require.NoError(t, l.BindDocument(ctx, "acme/p1"))

	c, err := l.AddComment(ctx, anchor, ana, "  first  ")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "first", c.Text)
	assert.Equal(t, "u1", c.AuthorID)
	assert.Equal(t, at, c.Timestamp)

	r1, err := l.Reply(ctx, anchor, c.ID, bo, "reply")
	require.NoError(t, err)
	// replying to a reply lands on the same top-level comment
	_, err = l.Reply(ctx, anchor, r1.ID, ana, "nested")
	require.NoError(t, err)

	thread, err := l.Thread(ctx, anchor)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	require.Len(t, thread[0].Replies, 2)
	assert.Empty(t, thread[0].Replies[1].Replies)

	_, err = l.Reply(ctx, anchor, "missing", ana, "x")
	assert.ErrorIs(t, err, collab.ErrCommentNotFound)
	_, err = l.AddComment(ctx, anchor, ana, "   ")
	assert.ErrorIs(t, err, collab.ErrEmptyComment)
}

func TestLocalThreadsArePerDocument(t *testing.T) {
	t.Parallel()

	l := collab.NewLocal(nil)
	ctx := context.Background()
	require.NoError(t, l.BindDocument(ctx, "acme/p1"))
	_, err := l.AddComment(ctx, anchor, ana, "on p1")
	require.NoError(t, err)

	require.NoError(t, l.BindDocument(ctx, "acme/p2"))
	thread, err := l.Thread(ctx, anchor)
	require.NoError(t, err)
	assert.Empty(t, thread)
}

func TestLocalSeedAndThreadCopies(t *testing.T) {
	t.Parallel()

	l := collab.NewLocal(nil)
	ctx := context.Background()
	l.Seed("acme/p1", []models.Task{
		{ID: "t1", Comments: []models.Comment{{ID: "c1", Text: "seeded"}}},
		{ID: "t2"},
	})
	require.NoError(t, l.BindDocument(ctx, "acme/p1"))

	thread, err := l.Thread(ctx, anchor)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	thread[0].Text = "changed"

	again, err := l.Thread(ctx, anchor)
	require.NoError(t, err)
	assert.Equal(t, "seeded", again[0].Text)
}

// failing refuses to identify or bind
type failing struct {
	collab.Provider
	identifyErr error
	bindErr     error
}

func (f failing) Identify(context.Context, collab.Identity) error { return f.identifyErr }
func (f failing) BindDocument(context.Context, string) error      { return f.bindErr }

func TestSessionDegradesWhenIdentifyFails(t *testing.T) {
	t.Parallel()

	s := collab.NewSession(failing{identifyErr: errors.New("auth endpoint down")}, me, collab.WithSessionLogger(zerolog.Nop()))
	s.Start(context.Background(), "p1")

	assert.False(t, s.Available())
	assert.Empty(t, s.Presence(context.Background()))
	_, err := s.AddComment(context.Background(), anchor, "hi")
	assert.ErrorIs(t, err, collab.ErrUnavailable)
	_, err = s.Reply(context.Background(), anchor, "c1", "hi")
	assert.ErrorIs(t, err, collab.ErrUnavailable)
	_, err = s.Thread(context.Background(), anchor)
	assert.ErrorIs(t, err, collab.ErrUnavailable)
}

func TestSessionDegradesWhenBindFails(t *testing.T) {
	t.Parallel()

	s := collab.NewSession(failing{bindErr: errors.New("room full")}, me, collab.WithSessionLogger(zerolog.Nop()))
	s.Start(context.Background(), "p1")
	assert.False(t, s.Available())
	assert.Empty(t, s.DocumentKey())
}

func TestSessionWithoutProvider(t *testing.T) {
	t.Parallel()

	s := collab.NewSession(nil, me, collab.WithSessionLogger(zerolog.Nop()))
	s.Start(context.Background(), "p1")
	s.Rebind(context.Background(), "p2")
	assert.False(t, s.Available())
}

func TestSessionOverLocal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := collab.NewSession(collab.NewLocal([]models.User{ana}), me, collab.WithSessionLogger(zerolog.Nop()))
	s.Start(ctx, "p1")
	require.True(t, s.Available())
	assert.Equal(t, "acme/p1", s.DocumentKey())
	assert.Len(t, s.Presence(ctx), 2)

	c, err := s.AddComment(ctx, anchor, "hello")
	require.NoError(t, err)
	assert.Equal(t, "u0", c.AuthorID)
	_, err = s.Reply(ctx, anchor, c.ID, "again")
	require.NoError(t, err)

	s.Rebind(ctx, "p2")
	assert.Equal(t, "acme/p2", s.DocumentKey())
	thread, err := s.Thread(ctx, anchor)
	require.NoError(t, err)
	assert.Empty(t, thread)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", collab.Summary(nil))
	assert.Equal(t, "", collab.Summary([]models.User{bo}))
	assert.Equal(t, "Ana is viewing", collab.Summary([]models.User{bo, ana}))
	assert.Equal(t, "2 people viewing", collab.Summary([]models.User{ana, bo, cy}))
	assert.Equal(t, 2, collab.ActiveCount([]models.User{ana, bo, cy}))
}

func TestStack(t *testing.T) {
	t.Parallel()

	users := []models.User{ana, bo, cy, ana, bo, cy, ana}
	shown, rest := collab.Stack(users, 0)
	assert.Len(t, shown, collab.DefaultStackSize)
	assert.Equal(t, 2, rest)

	shown, rest = collab.Stack(users[:2], 5)
	assert.Len(t, shown, 2)
	assert.Zero(t, rest)
}
