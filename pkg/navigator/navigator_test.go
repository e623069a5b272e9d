package navigator_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/dsl"
	"github.com/supportkit/pathfinder/pkg/flow"
	"github.com/supportkit/pathfinder/pkg/navigator"
)

func testGraph(t *testing.T) *flow.Graph {
	t.Helper()
	b := dsl.New()
	b.Add("late", "1. Driver is late").Option(
		dsl.Node("manual-call", "Manual call").Final(),
		dsl.Node("no-assign", "No driver assigned").
			Divider("What does the store want?").
			Option(
				dsl.Node("store-delivers", "Store delivers").Final(),
				dsl.Node("reassign", "Reassign").Final(),
			),
	)
	b.Add("cancel", "2. Driver cancels").Option(
		dsl.Node("after-pickup", "").RichTitle("callout", map[string]any{"text": "After pickup"}).Final(),
	)
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func titles(s domain.NavigatorState) []string {
	out := make([]string, len(s.Titles))
	for i, c := range s.Titles {
		out[i] = domain.Flatten(c)
	}
	return out
}

func TestNavigator_InitialState(t *testing.T) {
	nav := navigator.New(testGraph(t))

	s := nav.State()
	assert.Empty(t, s.Path)
	assert.Nil(t, s.Current)
	assert.Empty(t, s.Titles)
	assert.Empty(t, s.Options)
	assert.False(t, s.CanStepBack)
	assert.False(t, s.Final())
	assert.Nil(t, s.Result)
}

func TestNavigator_ScenarioA_ReachFinal(t *testing.T) {
	nav := navigator.New(testGraph(t))

	nav.Select("late")
	nav.Select("manual-call")

	s := nav.State()
	require.NotNil(t, s.Current)
	assert.True(t, s.Current.Final)
	assert.True(t, s.Final())
	assert.Equal(t, []string{"1. Driver is late", "Manual call"}, titles(s))
	assert.True(t, s.CanStepBack)
	assert.Empty(t, s.Options)
}

func TestNavigator_ScenarioB_StepBackToCategory(t *testing.T) {
	g := testGraph(t)
	nav := navigator.New(g)
	nav.Select("late")
	nav.Select("manual-call")

	nav.Back()

	s := nav.State()
	assert.Equal(t, domain.Path{"late"}, s.Path)
	late, _ := g.Root("late")
	assert.Same(t, late, s.Current)
	assert.False(t, s.CanStepBack)
	assert.Len(t, s.Options, 2)
}

func TestNavigator_ScenarioC_UnknownID(t *testing.T) {
	nav := navigator.New(testGraph(t))

	nav.Select("no-such-id")

	s := nav.State()
	assert.Nil(t, s.Current)
	assert.Equal(t, []string{"no-such-id"}, titles(s))
	assert.False(t, s.Resolved())
}

func TestNavigator_OptionsIncludeDividers(t *testing.T) {
	nav := navigator.New(testGraph(t))
	nav.Select("late")
	nav.Select("no-assign")

	s := nav.State()
	require.Len(t, s.Options, 3)
	assert.Equal(t, domain.Divider{Title: "What does the store want?"}, s.Options[0])
	assert.Len(t, s.Current.Choices(), 2)
}

func TestNavigator_SelectBackInverse(t *testing.T) {
	paths := []domain.Path{
		{"late"},
		{"late", "no-assign"},
		{"late", "no-assign", "reassign"},
		{"bogus"},
		{"late", "bogus", "deeper"},
	}
	for _, p := range paths {
		t.Run(p.String(), func(t *testing.T) {
			nav := navigator.New(testGraph(t))
			for _, id := range p {
				nav.Select(id)
			}
			nav.Select("k")
			nav.Back()
			assert.Equal(t, p, nav.Path())
		})
	}
}

func TestNavigator_BackBoundaries(t *testing.T) {
	nav := navigator.New(testGraph(t))

	nav.Back()
	assert.Empty(t, nav.Path())

	nav.Select("late")
	nav.Back()
	assert.Equal(t, domain.Path{"late"}, nav.Path())
}

func TestNavigator_ResetIdempotent(t *testing.T) {
	nav := navigator.New(testGraph(t))

	nav.Reset()
	assert.Empty(t, nav.Path())

	nav.Select("late")
	nav.Select("no-assign")
	nav.Select("reassign")
	nav.Reset()
	once := nav.State()
	nav.Reset()
	twice := nav.State()

	assert.Empty(t, once.Path)
	assert.Equal(t, once.Path, twice.Path)
	assert.Equal(t, once.Titles, twice.Titles)
	assert.Nil(t, twice.Current)
}

func TestNavigator_TransitionsClearResult(t *testing.T) {
	transitions := map[string]func(*navigator.Navigator){
		"select": func(n *navigator.Navigator) { n.Select("x") },
		"back":   func(n *navigator.Navigator) { n.Back() },
		"reset":  func(n *navigator.Navigator) { n.Reset() },
	}
	for name, move := range transitions {
		t.Run(name, func(t *testing.T) {
			nav := navigator.New(testGraph(t))
			nav.Select("late")
			nav.Select("manual-call")

			ticket, ok := nav.Begin()
			require.True(t, ok)
			require.True(t, nav.Complete(ticket, domain.TriggerResult{Text: "script"}))
			require.NotNil(t, nav.Result())

			move(nav)
			assert.Nil(t, nav.Result())
			assert.Nil(t, nav.State().Result)
		})
	}
}

func TestNavigator_EpochAdvancesOnEveryTransition(t *testing.T) {
	nav := navigator.New(testGraph(t))
	assert.Equal(t, uint64(0), nav.Epoch())

	nav.Back()
	nav.Reset()
	nav.Select("late")
	assert.Equal(t, uint64(3), nav.Epoch())
}

func TestNavigator_CompleteRejectsStaleTicket(t *testing.T) {
	nav := navigator.New(testGraph(t))
	nav.Select("late")
	nav.Select("manual-call")

	ticket, ok := nav.Begin()
	require.True(t, ok)

	// A -> B -> A returns to the same path, but the ticket is still stale.
	nav.Back()
	nav.Select("manual-call")

	assert.False(t, nav.Complete(ticket, domain.TriggerResult{Text: "late"}))
	assert.Nil(t, nav.Result())
}

func TestNavigator_SnapshotRestore(t *testing.T) {
	g := testGraph(t)
	nav := navigator.New(g)
	nav.Select("late")
	nav.Select("manual-call")
	ticket, _ := nav.Begin()
	nav.Complete(ticket, domain.TriggerResult{Text: "hello"})

	snap := nav.Snapshot()
	assert.Equal(t, domain.Path{"late", "manual-call"}, snap.Path)
	assert.Equal(t, uint64(2), snap.Epoch)
	require.NotNil(t, snap.Result)

	snap.ID = "tab-1"
	restored := navigator.Restore(g, snap)
	assert.Equal(t, nav.State().Path, restored.State().Path)
	assert.Equal(t, "hello", restored.Result().Text)
	assert.Equal(t, "tab-1", restored.Snapshot().ID)

	// Restoring keeps the epoch, so tickets issued before the snapshot still commit.
	assert.True(t, restored.Complete(ticket, domain.TriggerResult{Text: "again"}))
}

func TestNavigator_Hooks(t *testing.T) {
	var events []domain.TransitionEvent
	nav := navigator.New(testGraph(t), navigator.WithHooks(domain.LifecycleHooks{
		OnTransition: func(e *domain.TransitionEvent) { events = append(events, *e) },
	}))

	nav.Select("late")
	nav.Select("manual-call")
	nav.Back()
	nav.Select("ghost")
	nav.Reset()

	require.Len(t, events, 5)
	assert.Equal(t, domain.TransitionSelect, events[0].Kind)
	assert.Equal(t, "late", events[0].NodeID)
	assert.True(t, events[1].Final)
	assert.Equal(t, domain.TransitionBack, events[2].Kind)
	assert.False(t, events[3].Resolved)
	assert.Equal(t, domain.TransitionReset, events[4].Kind)
	assert.Empty(t, events[4].Path)
}

func TestNavigator_ConcurrentUse(t *testing.T) {
	nav := navigator.New(testGraph(t))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 4 {
			case 0:
				nav.Select("late")
			case 1:
				nav.Back()
			case 2:
				_ = nav.State()
			case 3:
				nav.Reset()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, uint64(38), nav.Epoch())
}
