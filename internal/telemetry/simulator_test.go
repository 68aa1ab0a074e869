package telemetry

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/neurofleet/neurofleet-core/internal/db"
	"github.com/neurofleet/neurofleet-core/internal/models"
)

type memAssignmentStore struct {
	links     map[string]models.AssignmentLink
	order     []string
	findErr   error
	updateErr error
}

func newMemAssignmentStore() *memAssignmentStore {
	return &memAssignmentStore{links: map[string]models.AssignmentLink{}}
}

func (m *memAssignmentStore) add(link models.AssignmentLink) models.AssignmentLink {
	if link.ID.IsZero() {
		link.ID = primitive.NewObjectID()
	}
	id := link.ID.Hex()
	m.links[id] = link
	m.order = append(m.order, id)
	return link
}

func (m *memAssignmentStore) InsertAssignment(ctx context.Context, link models.AssignmentLink) (string, error) {
	return m.add(link).ID.Hex(), nil
}

func (m *memAssignmentStore) FindAssignmentByID(ctx context.Context, id string) (*models.AssignmentLink, error) {
	link, ok := m.links[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &link, nil
}

func (m *memAssignmentStore) FindAssignmentsByUser(ctx context.Context, userID string) ([]models.AssignmentLink, error) {
	var out []models.AssignmentLink
	for _, id := range m.order {
		if link, ok := m.links[id]; ok && link.UserID == userID {
			out = append(out, link)
		}
	}
	return out, nil
}

func (m *memAssignmentStore) FindAssignmentsByStatus(ctx context.Context, status models.AssignmentStatus) ([]models.AssignmentLink, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []models.AssignmentLink
	for _, id := range m.order {
		if link, ok := m.links[id]; ok && link.Status == status {
			out = append(out, link)
		}
	}
	return out, nil
}

func (m *memAssignmentStore) UpdateAssignment(ctx context.Context, id string, link models.AssignmentLink) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.links[id]; !ok {
		return db.ErrNotFound
	}
	oid, _ := primitive.ObjectIDFromHex(id)
	link.ID = oid
	m.links[id] = link
	return nil
}

func (m *memAssignmentStore) DeleteAssignment(ctx context.Context, id string) error {
	if _, ok := m.links[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.links, id)
	return nil
}

func fixedSimulator(store db.AssignmentStore) *Simulator {
	s := NewSimulator(store, time.Second)
	s.Rand = rand.New(rand.NewSource(1))
	return s
}

func TestDeriveCondition(t *testing.T) {
	cases := []struct {
		name                string
		fuel, tire, speed   float64
		want                string
	}{
		{"critical fuel beats tire pressure", 3, 25, 50, ConditionCriticalFuel},
		{"low tire pressure", 50, 29, 50, ConditionLowTirePressure},
		{"over inflated", 50, 35.5, 50, ConditionOverInflated},
		{"high speed", 50, 32, 110, ConditionHighSpeed},
		{"low fuel reserve", 12, 32, 50, ConditionLowFuelReserve},
		{"optimal", 80, 32, 60, ConditionOptimal},
		{"boundary fuel 5 is reserve not critical", 5, 32, 50, ConditionLowFuelReserve},
		{"boundary tire 30 passes", 80, 30, 50, ConditionOptimal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveCondition(tc.fuel, tc.tire, tc.speed))
		})
	}
}

func TestTickOnlyTouchesApprovedLinks(t *testing.T) {
	store := newMemAssignmentStore()
	approved := store.add(models.AssignmentLink{UserID: "1", Status: models.AssignmentApproved})
	pending := store.add(models.AssignmentLink{UserID: "2", Status: models.AssignmentPending, Speed: 33})
	rejected := store.add(models.AssignmentLink{UserID: "3", Status: models.AssignmentRejected, Speed: 44})

	sim := fixedSimulator(store)
	require.NoError(t, sim.Tick(context.Background()))

	got := store.links[approved.ID.Hex()]
	require.NotNil(t, got.Fuel)
	assert.InDelta(t, 99.9, *got.Fuel, 1e-9, "unset fuel defaults to 100 and drains 0.1")
	assert.GreaterOrEqual(t, got.Speed, 0.0)
	assert.Less(t, got.Speed, 120.0)
	assert.GreaterOrEqual(t, got.TirePressure, 28.0)
	assert.Less(t, got.TirePressure, 36.0)
	assert.NotEmpty(t, got.Condition)

	assert.Equal(t, 33.0, store.links[pending.ID.Hex()].Speed, "pending link untouched")
	assert.Nil(t, store.links[pending.ID.Hex()].Fuel)
	assert.Equal(t, 44.0, store.links[rejected.ID.Hex()].Speed, "rejected link untouched")
}

func TestFuelDrainsMonotonically(t *testing.T) {
	store := newMemAssignmentStore()
	start := 2.0
	link := store.add(models.AssignmentLink{UserID: "1", Status: models.AssignmentApproved, Fuel: &start})

	sim := fixedSimulator(store)
	for i := 0; i < 30; i++ {
		require.NoError(t, sim.Tick(context.Background()))
	}

	got := store.links[link.ID.Hex()]
	require.NotNil(t, got.Fuel)
	// 2.0 - 30*0.1 clamps at zero.
	assert.InDelta(t, 0.0, *got.Fuel, 1e-9)
	assert.Equal(t, ConditionCriticalFuel, got.Condition)
}

func TestFuelAfterNTicks(t *testing.T) {
	store := newMemAssignmentStore()
	start := 50.0
	link := store.add(models.AssignmentLink{UserID: "1", Status: models.AssignmentApproved, Fuel: &start})

	sim := fixedSimulator(store)
	const n = 7
	for i := 0; i < n; i++ {
		require.NoError(t, sim.Tick(context.Background()))
	}
	got := store.links[link.ID.Hex()]
	assert.InDelta(t, 50.0-0.1*n, *got.Fuel, 1e-9)
}

func TestTickEmptyFleetIsNoop(t *testing.T) {
	store := newMemAssignmentStore()
	sim := fixedSimulator(store)
	assert.NoError(t, sim.Tick(context.Background()))
}

func TestTickSurvivesStoreErrors(t *testing.T) {
	store := newMemAssignmentStore()
	store.add(models.AssignmentLink{UserID: "1", Status: models.AssignmentApproved})
	sim := fixedSimulator(store)

	store.findErr = errors.New("mongo down")
	assert.Error(t, sim.Tick(context.Background()))

	// Next tick recovers once the store is healthy again.
	store.findErr = nil
	assert.NoError(t, sim.Tick(context.Background()))

	// A per-link update failure does not abort the tick.
	store.updateErr = errors.New("write refused")
	assert.NoError(t, sim.Tick(context.Background()))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := newMemAssignmentStore()
	sim := NewSimulator(store, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sim.Run(ctx)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("simulator did not stop after cancel")
	}
}
