package troupe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type askingPlayState struct {
	result string
	err    error
}

type echoState struct{}

func echoHear(scene *Scene[echoState], msg any) {
	from, ok := scene.Sender()
	if !ok {
		return
	}
	scene.Say(from, Echo{Msg: msg})
}

func TestAsk_RoundTrip(t *testing.T) {
	stg := NewStage()
	done := make(chan struct{})

	play, err := Cast(stg, askingPlayState{}, func(scene *Scene[askingPlayState], msg any) {
		if _, ok := msg.(Genesis); !ok {
			return
		}
		responder, err := Enter(scene.Stage(), scene.Me(), echoState{}, echoHear, Lifecycle[echoState]{})
		if err != nil {
			SetMy(scene, askingPlayState{err: err})
			close(done)
			return
		}
		reply, err := Ask[Echo](scene, responder.ID, "marco")
		st := askingPlayState{err: err}
		if err == nil {
			if s, ok := reply.Msg.(string); ok {
				st.result = s
			}
		}
		SetMy(scene, st)
		close(done)
	}, Lifecycle[askingPlayState]{})
	require.NoError(t, err)
	_ = play

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ask never completed")
	}

	stg.Shutdown()
	stg.Wait()
}

type echoBackState struct{}

func TestAsk_SelfAskFails(t *testing.T) {
	stg := NewStage()
	done := make(chan struct{})
	var gotErr error

	play, err := Cast(stg, echoBackState{}, func(scene *Scene[echoBackState], msg any) {
		if _, ok := msg.(Genesis); !ok {
			return
		}
		_, gotErr = Ask[Echo](scene, scene.Me(), "x")
		close(done)
	}, Lifecycle[echoBackState]{})
	require.NoError(t, err)
	_ = play

	<-done
	assert.ErrorIs(t, gotErr, ErrSelfAsk)

	stg.Shutdown()
	stg.Wait()
}

func TestAsk_ContextDeadline(t *testing.T) {
	stg := NewStage()
	done := make(chan struct{})
	var gotErr error

	silent, err := EnterWithCapacity(stg, stageNumericID, struct{}{}, func(*Scene[struct{}], any) {}, Lifecycle[struct{}]{}, 4)
	require.NoError(t, err)

	play, err := Cast(stg, echoBackState{}, func(scene *Scene[echoBackState], msg any) {
		if _, ok := msg.(Genesis); !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		_, gotErr = AskCtx[Echo](ctx, scene, silent.ID, "hello?")
		close(done)
	}, Lifecycle[echoBackState]{})
	require.NoError(t, err)
	_ = play

	<-done
	assert.ErrorIs(t, gotErr, context.DeadlineExceeded)

	stg.Shutdown()
	stg.Wait()
}
