package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/beaver-systems/beaver/internal/models"
)

// setupTestDatabase starts a PostgreSQL testcontainer, applies the schema
// and returns a ready repository.
func setupTestDatabase(t *testing.T) *Postgres {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("beaver_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, applySchema(connStr))

	repo, err := New(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		repo.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})
	return repo
}

func applySchema(connStr string) error {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	schema, err := os.ReadFile(filepath.Join("..", "..", "migrations", "0001_init.up.sql"))
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// seedProject creates a user, a project owned by them and one channel.
func seedProject(t *testing.T, repo *Postgres) (*models.Project, *models.Channel) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Username: fmt.Sprintf("owner-%d", time.Now().UnixNano()), PasswordHash: "x", IsAdmin: true}
	require.NoError(t, repo.CreateUser(ctx, user))

	project := &models.Project{Name: "acme", APIKey: fmt.Sprintf("key-%d", time.Now().UnixNano()), OwnerID: user.ID}
	require.NoError(t, repo.CreateProject(ctx, project))

	channel := &models.Channel{Name: "payments", ProjectID: project.ID}
	require.NoError(t, repo.CreateChannel(ctx, channel))

	return project, channel
}

func seedEvent(t *testing.T, repo *Postgres, channel *models.Channel, name string, tags models.TagMap) *models.Event {
	t.Helper()
	e := &models.Event{
		Name:      name,
		ProjectID: channel.ProjectID,
		ChannelID: channel.ID,
		Tags:      tags,
	}
	require.NoError(t, repo.InsertEvent(context.Background(), e))
	return e
}

func TestInsertEventTagRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	repo := setupTestDatabase(t)
	_, channel := seedProject(t, repo)
	ctx := context.Background()

	in := seedEvent(t, repo, channel, "subscription-created", models.TagMap{
		"plan":   models.StringTag("pro"),
		"amount": models.NumberTag(49.99),
		"trial":  models.BoolTag(true),
		"text":   models.StringTag("true"),
	})
	require.NotZero(t, in.ID)
	require.False(t, in.CreatedAt.IsZero())

	out, err := repo.GetEvent(ctx, in.ID)
	require.NoError(t, err)

	assert.Equal(t, "subscription-created", out.Name)
	assert.Equal(t, channel.Name, out.ChannelName)
	assert.Equal(t, models.StringTag("pro"), out.Tags["plan"])
	assert.Equal(t, models.NumberTag(49.99), out.Tags["amount"])
	assert.Equal(t, models.BoolTag(true), out.Tags["trial"])
	// A string that spells a boolean stays a string.
	assert.Equal(t, models.StringTag("true"), out.Tags["text"])
}

func TestGetEventNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	repo := setupTestDatabase(t)

	_, err := repo.GetEvent(context.Background(), 99999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestListChannelEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	repo := setupTestDatabase(t)
	_, channel := seedProject(t, repo)
	ctx := context.Background()

	first := seedEvent(t, repo, channel, "user signed up", nil)
	second := seedEvent(t, repo, channel, "user signed in", models.TagMap{"plan": models.StringTag("pro")})
	third := seedEvent(t, repo, channel, "payment failed", models.TagMap{"plan": models.StringTag("free")})

	t.Run("default order is newest first", func(t *testing.T) {
		events, err := repo.ListChannelEvents(ctx, channel.ID, models.EventQuery{})
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, third.ID, events[0].ID)
		assert.Equal(t, first.ID, events[2].ID)
		// Untagged events carry an empty map, not nil.
		assert.NotNil(t, events[2].Tags)
	})

	t.Run("after id excludes the cursor itself", func(t *testing.T) {
		events, err := repo.ListChannelEvents(ctx, channel.ID, models.EventQuery{AfterID: first.ID})
		require.NoError(t, err)
		require.Len(t, events, 2)
		for _, e := range events {
			assert.Greater(t, e.ID, first.ID)
		}
	})

	t.Run("search terms are conjunctive and case-insensitive", func(t *testing.T) {
		events, err := repo.ListChannelEvents(ctx, channel.ID, models.EventQuery{Search: "SIGNED user"})
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("tag filter narrows to matching events", func(t *testing.T) {
		events, err := repo.ListChannelEvents(ctx, channel.ID, models.EventQuery{
			Tags: []models.TagFilter{{Key: "plan", Value: "pro"}},
		})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, second.ID, events[0].ID)
	})

	t.Run("limit bounds the page", func(t *testing.T) {
		events, err := repo.ListChannelEvents(ctx, channel.ID, models.EventQuery{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("name ascending sorts alphabetically", func(t *testing.T) {
		events, err := repo.ListChannelEvents(ctx, channel.ID, models.EventQuery{
			SortBy: models.SortByName, SortOrder: models.SortAsc,
		})
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, "payment failed", events[0].Name)
	})
}

func TestMaxEventID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	repo := setupTestDatabase(t)
	ctx := context.Background()

	maxID, err := repo.MaxEventID(ctx)
	require.NoError(t, err)
	assert.Zero(t, maxID)

	_, channel := seedProject(t, repo)
	e := seedEvent(t, repo, channel, "first", nil)

	maxID, err = repo.MaxEventID(ctx)
	require.NoError(t, err)
	assert.Equal(t, e.ID, maxID)
}

func TestDeleteChannelCascades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	repo := setupTestDatabase(t)
	_, channel := seedProject(t, repo)
	ctx := context.Background()

	e := seedEvent(t, repo, channel, "doomed", models.TagMap{"k": models.StringTag("v")})

	require.NoError(t, repo.DeleteChannel(ctx, channel.ID))

	_, err := repo.GetChannel(ctx, channel.ID)
	assert.ErrorIs(t, err, ErrChannelNotFound)
	_, err = repo.GetEvent(ctx, e.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	var orphans int
	require.NoError(t, repo.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_tags WHERE event_id = $1`, e.ID).Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestDeleteProjectCascades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	repo := setupTestDatabase(t)
	project, channel := seedProject(t, repo)
	ctx := context.Background()

	second := &models.Channel{Name: "auth", ProjectID: project.ID}
	require.NoError(t, repo.CreateChannel(ctx, second))
	seedEvent(t, repo, channel, "one", models.TagMap{"k": models.StringTag("v")})
	seedEvent(t, repo, second, "two", nil)

	require.NoError(t, repo.DeleteProject(ctx, project.ID))

	_, err := repo.GetProject(ctx, project.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	var rows int
	require.NoError(t, repo.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM channels WHERE project_id = $1`, project.ID).Scan(&rows))
	assert.Zero(t, rows)
	require.NoError(t, repo.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM events WHERE project_id = $1`, project.ID).Scan(&rows))
	assert.Zero(t, rows)
}

func TestDuplicateChannelNamePerProject(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	repo := setupTestDatabase(t)
	project, channel := seedProject(t, repo)
	ctx := context.Background()

	dup := &models.Channel{Name: channel.Name, ProjectID: project.ID}
	assert.ErrorIs(t, repo.CreateChannel(ctx, dup), ErrDuplicateChannel)

	// Same name under another project is fine.
	other := &models.Project{Name: "other", APIKey: "other-key", OwnerID: project.OwnerID}
	require.NoError(t, repo.CreateProject(ctx, other))
	ok := &models.Channel{Name: channel.Name, ProjectID: other.ID}
	assert.NoError(t, repo.CreateChannel(ctx, ok))
}

func TestAvailableTags(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	repo := setupTestDatabase(t)
	_, channel := seedProject(t, repo)
	ctx := context.Background()

	seedEvent(t, repo, channel, "a", models.TagMap{"plan": models.StringTag("pro"), "region": models.StringTag("eu")})
	seedEvent(t, repo, channel, "b", models.TagMap{"plan": models.StringTag("free")})
	seedEvent(t, repo, channel, "c", models.TagMap{"plan": models.StringTag("pro")})

	tags, err := repo.ChannelAvailableTags(ctx, channel.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "plan", tags[0].Key)
	assert.Equal(t, []string{"free", "pro"}, tags[0].Values)
	assert.Equal(t, "region", tags[1].Key)
	assert.Equal(t, []string{"eu"}, tags[1].Values)
}

func TestSessions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	repo := setupTestDatabase(t)
	ctx := context.Background()

	user := &models.User{Username: "admin", PasswordHash: "x", IsAdmin: true}
	require.NoError(t, repo.CreateUser(ctx, user))

	live := &models.Session{UserID: user.ID, Token: "live-token", ExpiresAt: time.Now().UTC().Add(time.Hour)}
	require.NoError(t, repo.CreateSession(ctx, live))

	stale := &models.Session{UserID: user.ID, Token: "stale-token", ExpiresAt: time.Now().UTC().Add(-time.Hour)}
	require.NoError(t, repo.CreateSession(ctx, stale))

	got, err := repo.GetSessionByToken(ctx, "live-token")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)

	// Expired sessions read as absent.
	_, err = repo.GetSessionByToken(ctx, "stale-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	purged, err := repo.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	require.NoError(t, repo.DeleteSession(ctx, "live-token"))
	assert.ErrorIs(t, repo.DeleteSession(ctx, "live-token"), ErrSessionNotFound)
}
