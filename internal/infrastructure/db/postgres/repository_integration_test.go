package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dinamo-digital/crm-api/internal/core/domain"
)

// openTestDB connects to CRM_TEST_DATABASE_URL and migrates it. Tests are
// skipped when the variable is not set.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	url := os.Getenv("CRM_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CRM_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Connect(ctx, Config{URL: url}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, db.Exec("TRUNCATE opportunities, sessions, clients, users CASCADE").Error)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u, err := NewUserRepository(db).Create(context.Background(), &domain.User{
		ID:           uuid.NewString(),
		Name:         "Vendedor",
		Email:        email,
		PasswordHash: "hash",
		Role:         domain.RoleCommercial,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return u
}

func newClient(email string, owner *string) *domain.Client {
	return &domain.Client{
		ID:                 uuid.NewString(),
		Name:               "Ana Ruiz",
		Email:              email,
		Phone:              "+573001234567",
		InterestedServices: []domain.ServiceTag{domain.ServiceWebsites, domain.ServiceSEO},
		Status:             domain.ClientNew,
		OwnerUserID:        owner,
		CreatedAt:          time.Now().UTC(),
	}
}

func TestClientRepository_Lifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewClientRepository(db)
	owner := seedUser(t, db, "vendedor@x.com")

	c := newClient("ana@x.com", &owner.ID)
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.FindByID(ctx, c.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, c.InterestedServices, got.InterestedServices)

	_, err = repo.FindByID(ctx, c.ID, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrClientNotFound)

	status := domain.ClientInterested
	updated, err := repo.Update(ctx, c.ID, "", domain.ClientPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.ClientInterested, updated.Status)
	assert.Equal(t, c.Phone, updated.Phone)

	assert.ErrorIs(t, repo.Create(ctx, newClient("ANA@x.com", nil)), domain.ErrConflict)

	require.NoError(t, repo.Delete(ctx, c.ID, ""))
	assert.ErrorIs(t, repo.Delete(ctx, c.ID, ""), domain.ErrClientNotFound)
}

func TestSessionRepository_RequiresExistingClientAndCascades(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	clients := NewClientRepository(db)
	sessions := NewSessionRepository(db)

	orphan := &domain.Session{
		ID:        uuid.NewString(),
		ClientID:  uuid.NewString(),
		Date:      time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		Time:      "09:00",
		Service:   domain.ServiceSEO,
		Status:    domain.SessionScheduled,
		CreatedAt: time.Now().UTC(),
	}
	assert.ErrorIs(t, sessions.Create(ctx, orphan), domain.ErrReferenceNotFound)

	c := newClient("beto@x.com", nil)
	require.NoError(t, clients.Create(ctx, c))
	orphan.ClientID = c.ID
	require.NoError(t, sessions.Create(ctx, orphan))

	list, err := sessions.List(ctx, domain.SessionFilter{ClientID: c.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Client)
	assert.Equal(t, "beto@x.com", list[0].Client.Email)

	require.NoError(t, clients.Delete(ctx, c.ID, ""))
	_, err = sessions.FindByID(ctx, orphan.ID, "")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestOpportunityRepository_SummarizeStages(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	c := newClient("carla@x.com", nil)
	require.NoError(t, NewClientRepository(db).Create(ctx, c))
	repo := NewOpportunityRepository(db)

	for _, v := range []float64{1000, 250.5} {
		v := v
		now := time.Now().UTC()
		require.NoError(t, repo.Create(ctx, &domain.Opportunity{
			ID: uuid.NewString(), ClientID: c.ID, Title: "Tienda", Stage: domain.StageProposal,
			EstimatedValue: &v, CreatedAt: now, UpdatedAt: now,
		}))
	}

	summary, err := repo.SummarizeStages(ctx, "")
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, domain.StageProposal, summary[0].Stage)
	assert.EqualValues(t, 2, summary[0].Count)
	assert.InDelta(t, 1250.5, summary[0].TotalValue, 0.001)
}
