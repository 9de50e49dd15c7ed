//go:build integration

package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
	"github.com/onurcolak/restaurant-concierge/pkg/database"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// setupTestDB starts one MySQL container for the whole run, applies the
// schema and returns a connection that is closed with the test.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	once.Do(func() {
		sharedDSN, initErr = startMySQL()
	})
	if initErr != nil {
		t.Fatalf("failed to setup test DB: %v", initErr)
	}

	db, err := database.Connect(sharedDSN)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	_, err = db.Exec("DELETE FROM deliveries")
	require.NoError(t, err)
	_, err = db.Exec("DELETE FROM restaurants")
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func startMySQL() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.4",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "root",
			"MYSQL_DATABASE":      "concierge_test",
			"MYSQL_USER":          "tester",
			"MYSQL_PASSWORD":      "testpass",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("port: 3306"),
			wait.ForListeningPort("3306/tcp"),
		).WithDeadline(150 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "3306")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	return fmt.Sprintf("tester:testpass@tcp(%s:%s)/concierge_test?parseTime=true&loc=UTC&charset=utf8mb4", host, port.Port()), nil
}

func ptr[T any](v T) *T {
	return &v
}

func TestRestaurantRepository_UpsertAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRestaurantRepository(db)
	ctx := context.Background()

	r := &domain.Restaurant{
		TriggerName:      "trattoria roma",
		Name:             "Trattoria Roma",
		WelcomeTemplates: domain.Templates{domain.LangEnglish: "Hi {{firstName}}", domain.LangItalian: "Ciao {{firstName}}"},
		ReviewTemplates:  domain.Templates{domain.LangEnglish: "Review {{reviewLink}}"},
		ReviewDelayHours: ptr(1.5),
		MenuURL:          ptr("https://example.com/menu"),
	}
	require.NoError(t, repo.Upsert(ctx, r))

	got, err := repo.FindByTriggerName(ctx, "trattoria roma")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Trattoria Roma", got.Name)
	assert.Equal(t, "Ciao {{firstName}}", got.WelcomeTemplates[domain.LangItalian])
	assert.Equal(t, 1.5, got.DelayHours())
	assert.Nil(t, got.WifiPassword)

	r.Name = "Trattoria Roma Due"
	require.NoError(t, repo.Upsert(ctx, r))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Trattoria Roma Due", all[0].Name)

	missing, err := repo.FindByTriggerName(ctx, "nowhere")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeliveryRepository_OutboxLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDeliveryRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	dueID, err := repo.Create(ctx, &domain.Delivery{
		EventID: "evt-1", Kind: domain.KindFollowUp, Recipient: "+15551234567",
		Body: "review please", Status: domain.StatusScheduled, SendAt: ptr(now.Add(-time.Minute)),
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.Delivery{
		EventID: "evt-2", Kind: domain.KindFollowUp, Recipient: "+15551234567",
		Body: "later", Status: domain.StatusScheduled, SendAt: ptr(now.Add(time.Hour)),
	})
	require.NoError(t, err)

	due, err := repo.ClaimDue(ctx, now, now.Add(5*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, dueID, due[0].ID)

	again, err := repo.ClaimDue(ctx, now, now.Add(5*time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, again, "claimed rows must not be handed out twice")

	expired, err := repo.ClaimDue(ctx, now.Add(6*time.Minute), now.Add(11*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, dueID, expired[0].ID)

	require.NoError(t, repo.MarkAsFailed(ctx, dueID, "provider down"))
	require.NoError(t, repo.ReplayFailedByID(ctx, dueID))
	assert.Error(t, repo.ReplayFailedByID(ctx, dueID))

	require.NoError(t, repo.MarkAsSent(ctx, dueID, "SM1", now))

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DeliveryStats{Scheduled: 1, Sent: 1}, stats)

	sent := domain.StatusSent
	rows, total, err := repo.GetAll(ctx, &sent, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "SM1", domain.StringValue(rows[0].ProviderSID))
}
