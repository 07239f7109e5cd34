package chart

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// fixedClock pins Today to a single date.
type fixedClock struct {
	day time.Time
}

func (c fixedClock) Today() time.Time {
	return c.day
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectParticipant{},
		&models.ChartEvent{},
		&models.EventLink{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func createTestProject(t *testing.T, db *gorm.DB, rollup bool) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:                       "project-" + uuid.NewString(),
		ProjectVersion:             uuid.NewString(),
		IsDraft:                    true,
		UpdatePercentageCompletion: rollup,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func createTestRoot(t *testing.T, db *gorm.DB, project *models.Project, clock Clock) *models.ChartEvent {
	t.Helper()

	today := clock.Today()
	root := &models.ChartEvent{
		ProjectID:          project.ID,
		HierarchicalNumber: "1",
		Name:               project.Name,
		PlannedStart:       today,
		PlannedDuration:    1,
		PlannedEnd:         today,
		IsRoot:             true,
	}
	require.NoError(t, db.Create(root).Error)
	return root
}

// saveNewEvent runs the full validate/save cycle for a fresh event.
func saveNewEvent(t *testing.T, db *gorm.DB, event *models.ChartEvent, clock Clock) *EventService {
	t.Helper()

	svc := NewEventServiceWithClock(db, event, clock)
	require.NoError(t, svc.Validate())
	require.NoError(t, svc.Save(false))
	return svc
}

func reloadEvent(t *testing.T, db *gorm.DB, id uint64) *models.ChartEvent {
	t.Helper()

	var event models.ChartEvent
	require.NoError(t, db.First(&event, id).Error)
	return &event
}
