package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gmakarov/gantt-chart-api/internal/models"
	"github.com/gmakarov/gantt-chart-api/internal/repository"
)

func newLinkService(env eventServiceEnv) *LinkService {
	return NewLinkService(
		repository.NewLinkRepository(env.db),
		repository.NewEventRepository(env.db),
	)
}

func (env eventServiceEnv) createChild(t *testing.T, name string) *models.ChartEvent {
	t.Helper()

	event, err := env.events.CreateEvent(CreateEventInput{
		ProjectID:       env.project.ID,
		ParentID:        &env.root.ID,
		Name:            name,
		PlannedStart:    testDay(),
		PlannedDuration: 2,
	})
	require.NoError(t, err)
	return event
}

func TestLinkService_CreateAndListLinks(t *testing.T) {
	env := newEventServiceEnv(t)
	links := newLinkService(env)

	first := env.createChild(t, "site prep")
	second := env.createChild(t, "foundation")

	link, err := links.CreateLink(first.ID, second.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, link.PredecessorID)
	require.Equal(t, second.ID, link.FollowerID)

	listed, err := links.ListLinks(first.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, second.ID, listed[0].FollowerID)

	_, err = links.CreateLink(first.ID, second.ID)
	require.ErrorIs(t, err, ErrLinkExists)
}

func TestLinkService_RejectsSelfLink(t *testing.T) {
	env := newEventServiceEnv(t)
	links := newLinkService(env)

	event := env.createChild(t, "site prep")

	_, err := links.CreateLink(event.ID, event.ID)
	require.ErrorIs(t, err, ErrLinkSelfReference)
}

func TestLinkService_RejectsCrossProjectLink(t *testing.T) {
	env := newEventServiceEnv(t)
	links := newLinkService(env)

	local := env.createChild(t, "site prep")

	other, err := env.projects.CreateProject(CreateProjectInput{Name: "second-site"})
	require.NoError(t, err)
	var otherRoot models.ChartEvent
	require.NoError(t, env.db.Where("project_id = ? AND is_root = ?", other.ID, true).
		First(&otherRoot).Error)

	_, err = links.CreateLink(local.ID, otherRoot.ID)
	require.ErrorIs(t, err, ErrLinkProjectMismatch)
}

func TestLinkService_UpdateLinkRepointsFollower(t *testing.T) {
	env := newEventServiceEnv(t)
	links := newLinkService(env)

	first := env.createChild(t, "site prep")
	second := env.createChild(t, "foundation")
	third := env.createChild(t, "framing")

	link, err := links.CreateLink(first.ID, second.ID)
	require.NoError(t, err)

	updated, err := links.UpdateLink(link.ID, third.ID)
	require.NoError(t, err)
	require.Equal(t, third.ID, updated.FollowerID)

	_, err = links.UpdateLink(link.ID, first.ID)
	require.ErrorIs(t, err, ErrLinkSelfReference)
}

func TestLinkService_DeleteLink(t *testing.T) {
	env := newEventServiceEnv(t)
	links := newLinkService(env)

	first := env.createChild(t, "site prep")
	second := env.createChild(t, "foundation")

	link, err := links.CreateLink(first.ID, second.ID)
	require.NoError(t, err)

	require.NoError(t, links.DeleteLink(link.ID))
	require.ErrorIs(t, links.DeleteLink(link.ID), ErrLinkNotFound)
}
