package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supportkit/pathfinder/pkg/adapters/memory"
	"github.com/supportkit/pathfinder/pkg/audit"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/dsl"
	"github.com/supportkit/pathfinder/pkg/flow"
	"github.com/supportkit/pathfinder/pkg/navigator"
	"github.com/supportkit/pathfinder/pkg/session"
)

type testEngine struct {
	graph   *flow.Graph
	trigger *navigator.Trigger
}

func (e *testEngine) Restore(s domain.Session) *navigator.Navigator {
	return navigator.Restore(e.graph, s)
}

func (e *testEngine) Trigger() *navigator.Trigger {
	return e.trigger
}

type blockingService struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if s.started != nil {
		close(s.started)
		<-s.release
	}
	return "script for " + prompt[:10], nil
}

func newNavigation(t *testing.T, svc *blockingService) (*session.Navigation, *audit.Journal) {
	t.Helper()
	g, err := flow.New(
		dsl.Node("late", "Late").
			Option(dsl.Node("wait", "Wait").Final(), dsl.Node("cancel", "Cancel").Final()).
			Build(),
	)
	require.NoError(t, err)
	journal := audit.NewJournal()
	eng := &testEngine{graph: g, trigger: navigator.NewTrigger(svc, journal)}
	return session.NewNavigation(eng, session.NewManager(memory.NewStore())), journal
}

func TestNavigation_Transitions(t *testing.T) {
	nav, _ := newNavigation(t, &blockingService{})
	ctx := context.Background()

	var seen []domain.Path
	nav.OnChange(func(s *domain.Session) { seen = append(seen, s.Path.Clone()) })

	s, err := nav.Start(ctx, "")
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)
	id := s.ID

	s, err = nav.Select(ctx, id, "late")
	require.NoError(t, err)
	s, err = nav.Select(ctx, id, "wait")
	require.NoError(t, err)
	assert.Equal(t, domain.Path{"late", "wait"}, s.Path)
	assert.True(t, nav.State(s).Final())

	s, err = nav.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.Path{"late"}, s.Path)

	s, err = nav.Reset(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, s.Path)
	assert.Equal(t, uint64(4), s.Epoch)

	stored, err := nav.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, s.Epoch, stored.Epoch)

	assert.Len(t, seen, 5)
}

func TestNavigation_UnknownSession(t *testing.T) {
	nav, _ := newNavigation(t, &blockingService{})
	ctx := context.Background()

	_, err := nav.Select(ctx, "ghost", "late")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, _, err = nav.Generate(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, nav.Delete(ctx, "ghost"), domain.ErrSessionNotFound)
}

func TestNavigation_Generate(t *testing.T) {
	nav, journal := newNavigation(t, &blockingService{})
	ctx := context.Background()

	_, err := nav.Start(ctx, "tab-1")
	require.NoError(t, err)

	s, out, err := nav.Generate(ctx, "tab-1")
	require.NoError(t, err)
	assert.True(t, out.Skipped)
	assert.Nil(t, s.Result)
	assert.Zero(t, journal.Len())

	_, err = nav.Select(ctx, "tab-1", "late")
	require.NoError(t, err)
	_, err = nav.Select(ctx, "tab-1", "wait")
	require.NoError(t, err)

	s, out, err = nav.Generate(ctx, "tab-1")
	require.NoError(t, err)
	assert.False(t, out.Stale)
	require.NotNil(t, s.Result)
	assert.Equal(t, out.Result.Text, s.Result.Text)
	assert.Equal(t, 1, journal.Len())
}

func TestNavigation_GenerateWithAuditSink(t *testing.T) {
	nav, journal := newNavigation(t, &blockingService{})
	ctx := context.Background()

	_, err := nav.Start(ctx, "tab-1")
	require.NoError(t, err)
	_, err = nav.Select(ctx, "tab-1", "late")
	require.NoError(t, err)
	_, err = nav.Select(ctx, "tab-1", "cancel")
	require.NoError(t, err)

	_, out, err := nav.Generate(ctx, "tab-1", session.WithAuditSink(journal.For("op-3")))
	require.NoError(t, err)
	assert.False(t, out.Result.Failed)

	entries := journal.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "op-3", entries[0].UserID)
	assert.Equal(t, navigator.ToolName, entries[0].Tool)
}

func TestNavigation_GenerateDiscardsStaleResult(t *testing.T) {
	svc := &blockingService{started: make(chan struct{}), release: make(chan struct{})}
	nav, journal := newNavigation(t, svc)
	ctx := context.Background()

	_, err := nav.Start(ctx, "tab-1")
	require.NoError(t, err)
	_, err = nav.Select(ctx, "tab-1", "late")
	require.NoError(t, err)
	_, err = nav.Select(ctx, "tab-1", "wait")
	require.NoError(t, err)

	var wg sync.WaitGroup
	var out navigator.Outcome
	var final *domain.Session
	wg.Add(1)
	go func() {
		defer wg.Done()
		final, out, err = nav.Generate(ctx, "tab-1")
	}()

	<-svc.started
	// The session lock is free during the call, so the operator can move on.
	_, backErr := nav.Back(ctx, "tab-1")
	require.NoError(t, backErr)
	_, selErr := nav.Select(ctx, "tab-1", "wait")
	require.NoError(t, selErr)
	close(svc.release)
	wg.Wait()

	require.NoError(t, err)
	assert.True(t, out.Stale)
	assert.Nil(t, final.Result)
	assert.Equal(t, domain.Path{"late", "wait"}, final.Path)
	assert.Equal(t, 1, journal.Len(), "the call is audited even when its result is dropped")
}

func TestNavigation_Delete(t *testing.T) {
	nav, _ := newNavigation(t, &blockingService{})
	ctx := context.Background()

	_, err := nav.Start(ctx, "tab-1")
	require.NoError(t, err)
	require.NoError(t, nav.Delete(ctx, "tab-1"))

	_, err = nav.Get(ctx, "tab-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
