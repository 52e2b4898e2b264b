package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/smirnovds/townsquare/internal/common"
	"github.com/smirnovds/townsquare/internal/model"
)

func identityWithRole(role model.Role) *model.Identity {
	return &model.Identity{ID: "actor-1", Email: "a@example.com", Name: "A", Role: role}
}

func TestContentService_WritesRequireAdmin(t *testing.T) {
	db, _ := newSQLMockDB(t)

	article := &model.News{Title: "t", Content: "c"}
	event := &model.Event{
		Title:       "t",
		Description: "d",
		Location:    "l",
		EventDate:   time.Now().AddDate(0, 0, 7),
	}

	writes := map[string]func(s *ContentService, actorID string) error{
		"create news": func(s *ContentService, actorID string) error {
			a := *article
			_, err := s.CreateNews(context.Background(), actorID, &a)
			return err
		},
		"update news": func(s *ContentService, actorID string) error {
			a := *article
			a.ID = "n1"
			_, err := s.UpdateNews(context.Background(), actorID, &a)
			return err
		},
		"delete news": func(s *ContentService, actorID string) error {
			return s.DeleteNews(context.Background(), actorID, "n1")
		},
		"create event": func(s *ContentService, actorID string) error {
			e := *event
			_, err := s.CreateEvent(context.Background(), actorID, &e)
			return err
		},
		"update event": func(s *ContentService, actorID string) error {
			e := *event
			e.ID = "e1"
			_, err := s.UpdateEvent(context.Background(), actorID, &e)
			return err
		},
		"delete event": func(s *ContentService, actorID string) error {
			return s.DeleteEvent(context.Background(), actorID, "e1")
		},
	}

	for name, write := range writes {
		t.Run(name+" as user", func(t *testing.T) {
			rm := newFakeRepoManager()
			rm.identities.getOut = identityWithRole(model.RoleUser)
			s := NewContentService(db, rm)

			require.ErrorIs(t, write(s, "actor-1"), common.ErrorPermissionDenied)
			require.Nil(t, rm.news.inserted)
			require.Nil(t, rm.events.inserted)
		})

		t.Run(name+" as admin", func(t *testing.T) {
			rm := newFakeRepoManager()
			rm.identities.getOut = identityWithRole(model.RoleAdmin)
			s := NewContentService(db, rm)

			require.NoError(t, write(s, "actor-1"))
		})
	}
}

func TestContentService_ReadsAllowAnyAuthenticatedRole(t *testing.T) {
	db, _ := newSQLMockDB(t)

	for _, role := range []model.Role{model.RoleUser, model.RoleAdmin} {
		rm := newFakeRepoManager()
		rm.identities.getOut = identityWithRole(role)
		rm.news.listOut = []model.News{{ID: "n1"}}
		rm.events.listOut = []model.Event{{ID: "e1"}}
		s := NewContentService(db, rm)

		articles, err := s.ListNews(context.Background(), "actor-1", 50, 0)
		require.NoError(t, err)
		require.Len(t, articles, 1)

		events, err := s.ListEvents(context.Background(), "actor-1", 50, 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
	}
}

func TestContentService_MissingActorOrProfileIsPermissionDenied(t *testing.T) {
	db, _ := newSQLMockDB(t)

	t.Run("empty actor", func(t *testing.T) {
		rm := newFakeRepoManager()
		s := NewContentService(db, rm)

		_, err := s.ListNews(context.Background(), "", 50, 0)
		require.ErrorIs(t, err, common.ErrorPermissionDenied)
	})

	t.Run("profile row missing", func(t *testing.T) {
		rm := newFakeRepoManager()
		rm.identities.getErr = common.ErrorNotFound
		s := NewContentService(db, rm)

		_, err := s.ListNews(context.Background(), "actor-1", 50, 0)
		require.ErrorIs(t, err, common.ErrorPermissionDenied)
	})
}

func TestCreateNews_StampsAuthorFromActor(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.identities.getOut = identityWithRole(model.RoleAdmin)
	s := NewContentService(db, rm)

	article := &model.News{Title: "t", Content: "c"}
	_, err := s.CreateNews(context.Background(), "actor-1", article)
	require.NoError(t, err)
	require.NotNil(t, rm.news.inserted.AuthorID)
	require.Equal(t, "actor-1", *rm.news.inserted.AuthorID)
}

func TestCreateEvent_RejectsPastDate(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.identities.getOut = identityWithRole(model.RoleAdmin)
	s := NewContentService(db, rm)

	event := &model.Event{
		Title:       "t",
		Description: "d",
		Location:    "l",
		EventDate:   time.Now().AddDate(0, 0, -1),
	}
	_, err := s.CreateEvent(context.Background(), "actor-1", event)
	require.ErrorIs(t, err, common.ErrorValidation)
	require.Nil(t, rm.events.inserted)
}

func TestCreateEvent_TodayIsAllowed(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.identities.getOut = identityWithRole(model.RoleAdmin)
	s := NewContentService(db, rm)

	event := &model.Event{
		Title:       "t",
		Description: "d",
		Location:    "l",
		EventDate:   time.Now(),
	}
	_, err := s.CreateEvent(context.Background(), "actor-1", event)
	require.NoError(t, err)
}

func TestListUpcomingEvents_PassesStartOfDay(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.identities.getOut = identityWithRole(model.RoleUser)
	s := NewContentService(db, rm)

	_, err := s.ListUpcomingEvents(context.Background(), "actor-1", 50)
	require.NoError(t, err)
	require.Equal(t, 0, rm.events.from.Hour())
	require.Equal(t, 0, rm.events.from.Minute())
	require.False(t, rm.events.from.IsZero())
}
