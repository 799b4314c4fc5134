package troupe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestShutdown_LeavesNoGoroutinesBehind is the P4 completeness property:
// every task an actor ever forks must have exited once Wait returns, Play
// included, regardless of how many actors were spawned along the way.
func TestShutdown_LeavesNoGoroutinesBehind(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	stg := NewStage()
	play, err := Cast(stg, struct{}{}, func(*Scene[struct{}], any) {}, Lifecycle[struct{}]{})
	require.NoError(t, err)

	troupe, err := EnterTroupe(stg, play.ID)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := Enlist(stg, troupe, struct{}{}, func(*Scene[struct{}], any) {}, Lifecycle[struct{}]{})
		require.NoError(t, err)
	}
	_, err = Enter(stg, play.ID, struct{}{}, func(*Scene[struct{}], any) {}, Lifecycle[struct{}]{})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	stg.Shutdown()
	stg.Wait()
}

func TestShutdown_GraceForcesStragglers(t *testing.T) {
	// A worker slow enough that Leave! is still queued behind real work
	// when the grace period expires: the Stage must not wait forever for
	// it to come back around and notice its mailbox closed on its own.
	stg := NewStage(WithShutdownGrace(30 * time.Millisecond))

	worker, err := Enter(stg, stageNumericID, struct{}{}, func(scene *Scene[struct{}], msg any) {
		time.Sleep(200 * time.Millisecond)
	}, Lifecycle[struct{}]{})
	require.NoError(t, err)
	require.NoError(t, Say(stg, worker, "slow"))
	time.Sleep(10 * time.Millisecond)

	start := time.Now()
	stg.Shutdown()
	stg.Wait()
	require.Less(t, time.Since(start), time.Second, "grace period should force shutdown rather than hang")
}
