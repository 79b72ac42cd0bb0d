// AngelaMos | 2026
// service_test.go

package employee

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/crm-backend/internal/core"
	"github.com/carterperez-dev/templates/crm-backend/internal/permission"
	"github.com/carterperez-dev/templates/crm-backend/internal/profile"
)

type memRepo struct {
	rows map[string]*Employee
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string]*Employee{}}
}

func (m *memRepo) Create(_ context.Context, e *Employee) error {
	for _, row := range m.rows {
		if row.UserID == e.UserID {
			return core.ErrDuplicateKey
		}
	}
	cp := *e
	m.rows[e.ID] = &cp
	return nil
}

func (m *memRepo) GetActiveByID(_ context.Context, id string) (*Employee, error) {
	row, ok := m.rows[id]
	if !ok || !row.IsActive {
		return nil, core.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *memRepo) ListActive(context.Context) ([]Employee, error) {
	out := []Employee{}
	for _, row := range m.rows {
		if row.IsActive {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, e *Employee) error {
	if _, ok := m.rows[e.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *e
	m.rows[e.ID] = &cp
	return nil
}

func (m *memRepo) Deactivate(_ context.Context, id string) error {
	row, ok := m.rows[id]
	if !ok || !row.IsActive {
		return core.ErrNotFound
	}
	row.IsActive = false
	return nil
}

func (m *memRepo) ExistsForUser(_ context.Context, userID string) (bool, error) {
	for _, row := range m.rows {
		if row.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type knownUsers map[string]bool

func (k knownUsers) Exists(_ context.Context, id string) (bool, error) {
	return k[id], nil
}

func strPtr(s string) *string { return &s }

func setup(t *testing.T) (*Service, *memRepo, string) {
	t.Helper()
	userID := uuid.NewString()
	repo := newMemRepo()
	return NewService(repo, knownUsers{userID: true}), repo, userID
}

func TestCreateStoresPosition(t *testing.T) {
	svc, repo, userID := setup(t)

	e, err := svc.Create(context.Background(), CreateEmployeeRequest{
		User:     userID,
		Fields:   profile.Fields{Phone: strPtr("111")},
		Position: strPtr("Sales"),
	})
	require.NoError(t, err)

	stored := repo.rows[e.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "Sales", *stored.Position)
	assert.True(t, stored.IsActive)
}

func TestCreatePositionTooLong(t *testing.T) {
	svc, _, userID := setup(t)

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}

	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		User:     userID,
		Position: strPtr(string(long)),
	})

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	fields := appErr.Details.(core.FieldErrors)
	assert.Equal(t,
		[]string{"Ensure this field has no more than 100 characters."},
		fields["position"],
	)
}

func TestUpdate(t *testing.T) {
	svc, _, userID := setup(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, CreateEmployeeRequest{User: userID, Position: strPtr("Sales")})
	require.NoError(t, err)

	owner := permission.Identity{UserID: userID}
	stranger := permission.Identity{UserID: uuid.NewString()}

	_, err = svc.Update(ctx, stranger, e.ID, UpdateEmployeeRequest{Position: strPtr("CEO")})
	assert.ErrorIs(t, err, core.ErrForbidden)

	updated, err := svc.Update(ctx, owner, e.ID, UpdateEmployeeRequest{
		Fields: profile.Fields{Address: strPtr("A St")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sales", *updated.Position)
	assert.Equal(t, "A St", *updated.Address)

	_, err = svc.Update(ctx, owner, e.ID, UpdateEmployeeRequest{User: strPtr(uuid.NewString())})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.Update(ctx, owner, uuid.NewString(), UpdateEmployeeRequest{})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteDeactivates(t *testing.T) {
	svc, repo, userID := setup(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, CreateEmployeeRequest{User: userID})
	require.NoError(t, err)

	admin := permission.Identity{UserID: uuid.NewString(), IsStaff: true}
	require.NoError(t, svc.Delete(ctx, admin, e.ID))

	assert.False(t, repo.rows[e.ID].IsActive)

	_, err = svc.Get(ctx, admin, e.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
