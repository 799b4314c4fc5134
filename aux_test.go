package troupe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTroupe_ShoutReachesEveryMember(t *testing.T) {
	stg := NewStage()
	play, err := Cast(stg, struct{}{}, func(*Scene[struct{}], any) {}, Lifecycle[struct{}]{})
	require.NoError(t, err)

	troupe, err := EnterTroupe(stg, play.ID)
	require.NoError(t, err)

	heard := make([]chan any, 3)
	for i := range heard {
		ch := make(chan any, 1)
		heard[i] = ch
		_, err := Enlist(stg, troupe, struct{}{}, func(scene *Scene[struct{}], msg any) {
			select {
			case ch <- msg:
			default:
			}
		}, Lifecycle[struct{}]{})
		require.NoError(t, err)
	}

	require.NoError(t, Say(stg, troupe, Shout{Msg: "curtain up"}))

	for _, ch := range heard {
		select {
		case msg := <-ch:
			assert.Equal(t, "curtain up", msg)
		case <-time.After(time.Second):
			t.Fatal("a member never heard the shout")
		}
	}

	stg.Shutdown()
	stg.Wait()
}

func TestTroupe_DeadMemberIsDroppedFromRoster(t *testing.T) {
	stg := NewStage()
	play, err := Cast(stg, struct{}{}, func(*Scene[struct{}], any) {}, Lifecycle[struct{}]{})
	require.NoError(t, err)

	troupe, err := EnterTroupe(stg, play.ID)
	require.NoError(t, err)

	doomed, err := Enlist(stg, troupe, panickyState{}, panickyHear, Lifecycle[panickyState]{})
	require.NoError(t, err)

	survivorHeard := make(chan any, 1)
	_, err = Enlist(stg, troupe, struct{}{}, func(scene *Scene[struct{}], msg any) {
		select {
		case survivorHeard <- msg:
		default:
		}
	}, Lifecycle[struct{}]{})
	require.NoError(t, err)

	require.NoError(t, Say(stg, doomed, "boom"))
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, Say(stg, troupe, Shout{Msg: "still here"}))
	select {
	case msg := <-survivorHeard:
		assert.Equal(t, "still here", msg)
	case <-time.After(time.Second):
		t.Fatal("surviving member never heard the second shout")
	}

	ids := stg.Snapshot()
	assert.NotContains(t, ids, doomed.ID, "a dead member must be removed from the stage registry too")

	stg.Shutdown()
	stg.Wait()
}

func TestDelegate_RunsActionOnceThenLeaves(t *testing.T) {
	stg := NewStage()
	ran := make(chan []any, 1)
	delegateErr := make(chan error, 1)

	play, err := Cast(stg, struct{}{}, func(scene *Scene[struct{}], msg any) {
		if _, ok := msg.(Genesis); !ok {
			return
		}
		_, err := Delegate(func(sc *Scene[StoogeState], args ...any) {
			ran <- args
		}, scene, "hello", 42)
		delegateErr <- err
	}, Lifecycle[struct{}]{})
	require.NoError(t, err)
	_ = play
	require.NoError(t, <-delegateErr)

	select {
	case args := <-ran:
		assert.Equal(t, []any{"hello", 42}, args)
	case <-time.After(time.Second):
		t.Fatal("delegated action never ran")
	}

	stg.Shutdown()
	stg.Wait()
}

func TestDelegate_ActionCanShutDownTheStage(t *testing.T) {
	stg := NewStage()
	delegateErr := make(chan error, 1)

	play, err := Cast(stg, struct{}{}, func(scene *Scene[struct{}], msg any) {
		if _, ok := msg.(Genesis); !ok {
			return
		}
		_, err := Delegate(func(sc *Scene[StoogeState], args ...any) {
			sc.Stage().Shutdown()
		}, scene, 1)
		delegateErr <- err
	}, Lifecycle[struct{}]{})
	require.NoError(t, err)
	_ = play
	require.NoError(t, <-delegateErr)

	select {
	case <-stg.done:
	case <-time.After(time.Second):
		t.Fatal("the stage never shut down from the delegated action")
	}
}
