package troupe

import (
	"sync"
	"sync/atomic"
	"time"
)

// StageOptions configures NewStage (spec.md §6 "external interfaces").
type StageOptions struct {
	MailboxCapacity int
	ShutdownGrace   time.Duration
}

// StageOption mutates a StageOptions in NewStage.
type StageOption func(*StageOptions)

// WithMailboxCapacity overrides the bootstrap actors' mailbox size.
func WithMailboxCapacity(n int) StageOption {
	return func(o *StageOptions) { o.MailboxCapacity = n }
}

// WithShutdownGrace bounds how long a full shutdown waits for children to
// drain their own Leave! before their mailboxes are force-closed
// (spec.md §4.7 "bounded grace period").
func WithShutdownGrace(d time.Duration) StageOption {
	return func(o *StageOptions) { o.ShutdownGrace = d }
}

func defaultStageOptions() StageOptions {
	return StageOptions{MailboxCapacity: DefaultCapacity, ShutdownGrace: 5 * time.Second}
}

// Stage is the root actor described in spec.md §3/§4.4: it assigns
// numeric ids, owns the registry of locally running actors, bootstraps
// the Logger and PassiveMinder, and drives system-wide graceful shutdown.
// Stage itself is addressable at ID 0.
type Stage struct {
	mu       sync.RWMutex
	children map[ID]*actor
	nextID   atomic.Uint64
	env      Environment

	box          *mailbox
	wg           sync.WaitGroup
	grace        time.Duration
	done         chan struct{}
	shutdownOnce sync.Once
	shutdown     atomic.Bool

	play ID
}

// NewStage constructs a Stage and bootstraps its two intrinsic minders,
// the Logger and the PassiveMinder (spec.md §4.4), both minded directly
// by the Stage. Use Cast to install the Play once the Stage is ready.
func NewStage(opts ...StageOption) *Stage {
	cfg := defaultStageOptions()
	for _, o := range opts {
		o(&cfg)
	}

	stg := &Stage{
		children: make(map[ID]*actor),
		box:      newMailbox(cfg.MailboxCapacity),
		grace:    cfg.ShutdownGrace,
		done:     make(chan struct{}),
	}
	go stg.run()

	loggerActor, _ := stg.register(stageNumericID, buildLogger(cfg.MailboxCapacity))
	stg.mu.Lock()
	stg.env.Logger = loggerActor.id
	stg.mu.Unlock()

	pmActor, _ := stg.register(stageNumericID, buildPassiveMinder(cfg.MailboxCapacity))
	stg.mu.Lock()
	stg.env.PassiveMinder = pmActor.id
	stg.mu.Unlock()

	return stg
}

// Cast spawns the Play, the application's root actor, minded by the
// PassiveMinder, and delivers it the Genesis message (spec.md §4.4
// "Play"). It is ordinarily called exactly once per Stage.
func Cast[S any](stg *Stage, state S, hear Handler[S], life Lifecycle[S]) (Id[S], error) {
	stg.mu.RLock()
	minder := stg.env.PassiveMinder
	stg.mu.RUnlock()

	id, err := enterCap(stg, minder, state, hear, life, DefaultCapacity)
	if err != nil {
		return id, err
	}
	if err := Say(stg, id, Genesis{}); err != nil {
		return id, err
	}
	stg.mu.Lock()
	stg.play = id.ID
	stg.mu.Unlock()
	return id, nil
}

// Enter spawns an ordinary actor minded by minder (spec.md §4.1 "Enter").
func Enter[S any](stg *Stage, minder ID, state S, hear Handler[S], life Lifecycle[S]) (Id[S], error) {
	return enterCap(stg, minder, state, hear, life, DefaultCapacity)
}

// EnterWithCapacity is Enter with an explicit mailbox capacity, overriding
// DefaultCapacity for actors expected to receive bursts (spec.md §5).
func EnterWithCapacity[S any](stg *Stage, minder ID, state S, hear Handler[S], life Lifecycle[S], capacity int) (Id[S], error) {
	return enterCap(stg, minder, state, hear, life, capacity)
}

func enterCap[S any](stg *Stage, minder ID, state S, hear Handler[S], life Lifecycle[S], capacity int) (Id[S], error) {
	a, err := stg.register(minder, assembleFor(state, hear, life, capacity))
	if err != nil {
		return Id[S]{}, err
	}
	return Id[S]{ID: a.id, core: a}, nil
}

func (stg *Stage) register(minder ID, asm assembler) (*actor, error) {
	if stg.shutdown.Load() {
		return nil, ErrClosed
	}
	id := ID(stg.nextID.Add(1))
	stg.mu.RLock()
	env := stg.env
	stg.mu.RUnlock()

	a, start := asm(id, minder, stg, env)
	stg.mu.Lock()
	stg.children[id] = a
	stg.mu.Unlock()

	stg.wg.Add(1)
	go func() {
		defer stg.wg.Done()
		start()
	}()
	return a, nil
}

// Say sends msg to id from outside any actor's task (no sender recorded).
// Sends from inside a Handler should go through Scene.Say instead, which
// stamps a sender so the recipient can Ask back.
func Say[S any](stg *Stage, id Id[S], msg any) error {
	if id.IsRemote() {
		return ErrRemote
	}
	return stg.sayToID(id.ID, 0, false, msg)
}

// SayID is Say for callers that only have the numeric id, used by
// Enlist to enrol a new member with its Troupe.
func SayID(stg *Stage, id ID, msg any) error {
	return stg.sayToID(id, 0, false, msg)
}

func (stg *Stage) sayToID(target ID, from ID, hasFrom bool, msg any) error {
	if target == stageNumericID {
		return stg.box.put(envelope{from: from, hasFrom: hasFrom, msg: msg})
	}
	stg.mu.RLock()
	a, ok := stg.children[target]
	stg.mu.RUnlock()
	if !ok {
		return ErrUnbound
	}
	return a.box.put(envelope{from: from, hasFrom: hasFrom, msg: msg})
}

func (stg *Stage) removeChild(id ID) {
	stg.mu.Lock()
	delete(stg.children, id)
	stg.mu.Unlock()
}

func (stg *Stage) notifyMinder(minder ID, msg any) {
	_ = stg.sayToID(minder, stageNumericID, true, msg)
}

// Snapshot lists the ids of every actor currently registered with the
// Stage, including the Logger, the PassiveMinder, and the Play (spec.md
// §6 "introspection").
func (stg *Stage) Snapshot() []ID {
	stg.mu.RLock()
	defer stg.mu.RUnlock()
	ids := make([]ID, 0, len(stg.children))
	for id := range stg.children {
		ids = append(ids, id)
	}
	return ids
}

// PlayID returns the id of the actor Cast installed as the application
// root, or false if Cast has not been called yet.
func (stg *Stage) PlayID() (ID, bool) {
	stg.mu.RLock()
	defer stg.mu.RUnlock()
	return stg.play, stg.play != 0
}

// PassiveMinderID returns the id of the Stage's bootstrap PassiveMinder,
// the default minder an ordinary actor should be entered with (spec.md
// §4.4 "PassiveMinder").
func (stg *Stage) PassiveMinderID() ID {
	stg.mu.RLock()
	defer stg.mu.RUnlock()
	return stg.env.PassiveMinder
}

// LoggerID returns the id of the Stage's bootstrap Logger.
func (stg *Stage) LoggerID() ID {
	stg.mu.RLock()
	defer stg.mu.RUnlock()
	return stg.env.Logger
}

// Shutdown requests a graceful, cascading stop of every actor on the
// Stage (spec.md §4.7): every child is sent Leave!, then the Stage waits
// up to its configured grace period before force-closing stragglers.
func (stg *Stage) Shutdown() {
	_ = stg.box.put(envelope{msg: leave{}})
}

// Wait blocks until a Shutdown has fully drained the Stage.
func (stg *Stage) Wait() {
	<-stg.done
}

// run is the Stage's own dispatch loop. It is not the generic run[S]
// used by ordinary actors: the Stage must special-case Leave! (begin
// shutdown rather than simply stopping) and Died!/Left! reports from its
// two bootstrap children (spec.md §4.3 step 2).
func (stg *Stage) run() {
	for {
		e, ok := stg.box.take()
		if !ok {
			return
		}
		switch m := e.msg.(type) {
		case leave:
			stg.beginShutdown()
			return
		case Died:
			stg.handleDied(m)
		case Left:
			stg.handleLeft(m)
		}
	}
}

// handleDied always brings the whole Stage down (spec.md §4.7: a Died!
// reaching the Stage, whether the Logger or PassiveMinder crashed directly
// or an ordinary actor's crash was forwarded up by the PassiveMinder,
// "will initiate shutdown"). Whoever forwarded it here is responsible for
// any LogDied! it owed the Logger first; the Stage's only job left is to
// stop the system.
func (stg *Stage) handleDied(m Died) {
	stg.beginShutdown()
}

func (stg *Stage) handleLeft(m Left) {
	stg.mu.RLock()
	logger := stg.env.Logger
	stg.mu.RUnlock()
	stg.notifyMinder(logger, m)
}

func (stg *Stage) beginShutdown() {
	stg.shutdownOnce.Do(func() {
		stg.shutdown.Store(true)

		stg.mu.RLock()
		ids := make([]ID, 0, len(stg.children))
		for id := range stg.children {
			ids = append(ids, id)
		}
		stg.mu.RUnlock()

		for _, id := range ids {
			stg.sayToID(id, stageNumericID, false, leave{})
		}

		go func() {
			waitCh := make(chan struct{})
			go func() {
				stg.wg.Wait()
				close(waitCh)
			}()

			if stg.grace > 0 {
				select {
				case <-waitCh:
				case <-time.After(stg.grace):
					stg.forceCloseAll()
					<-waitCh
				}
			} else {
				<-waitCh
			}

			stg.box.close()
			close(stg.done)
		}()
	})
}

func (stg *Stage) forceCloseAll() {
	stg.mu.RLock()
	boxes := make([]*mailbox, 0, len(stg.children))
	for _, a := range stg.children {
		boxes = append(boxes, a.box)
	}
	stg.mu.RUnlock()
	for _, b := range boxes {
		b.close()
	}
}
