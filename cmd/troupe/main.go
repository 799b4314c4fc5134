// Command troupe runs small end-to-end demonstrations of the actor
// runtime: a Play spawns a few workers, exercises one corner of the
// supervision/messaging model, and shuts the Stage down cleanly.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/castheatre/troupe"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

func main() {
	root := &cobra.Command{
		Use:   "troupe",
		Short: "demo scenarios for the troupe actor runtime",
	}
	root.AddCommand(helloCmd(), crashCmd(), askCmd(), broadcastCmd(), enlistCmd(), delegateCmd(), leaveCmd(), backpressureCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func settle(stg *troupe.Stage) {
	time.Sleep(150 * time.Millisecond)
	stg.Shutdown()
	stg.Wait()
}

type helloState struct{}

func helloHear(*troupe.Scene[helloState], any) {}

func helloCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hello",
		Short: "cast a Play and let it greet the room",
		RunE: func(cmd *cobra.Command, args []string) error {
			stg := troupe.NewStage()
			_, err := troupe.Cast(stg, helloState{}, helloHear, troupe.Lifecycle[helloState]{
				Prologue: func(scene *troupe.Scene[helloState]) {
					fmt.Println(headerStyle.Render("hello from the Play"))
				},
			})
			if err != nil {
				return err
			}
			settle(stg)
			return nil
		},
	}
}

// boom panics any actor that receives it, to exercise Died!/PassiveMinder/Logger.
type boom struct{}

type crashWorkerState struct{}

func crashWorkerHear(scene *troupe.Scene[crashWorkerState], msg any) {
	if _, ok := msg.(boom); ok {
		panic("the worker received boom")
	}
}

type crashPlayState struct{}

func crashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crash",
		Short: "spawn a worker that panics and watch the stage shut itself down",
		RunE: func(cmd *cobra.Command, args []string) error {
			stg := troupe.NewStage()
			_, err := troupe.Cast(stg, crashPlayState{}, func(*troupe.Scene[crashPlayState], any) {}, troupe.Lifecycle[crashPlayState]{})
			if err != nil {
				return err
			}
			// Minded by the PassiveMinder, same as any ordinary actor
			// entered without an explicit minder of its own: its crash
			// bubbles to the PassiveMinder, then to the Stage, which
			// brings the whole system down on its own.
			worker, err := troupe.Enter(stg, stg.PassiveMinderID(), crashWorkerState{}, crashWorkerHear, troupe.Lifecycle[crashWorkerState]{})
			if err != nil {
				return err
			}
			fmt.Println(headerStyle.Render("sending boom"))
			if err := troupe.Say(stg, worker, boom{}); err != nil {
				return err
			}
			fmt.Println(headerStyle.Render("waiting for the crash to bring the stage down"))
			stg.Wait()
			return nil
		},
	}
}

type askPlayState struct{}

// echoResponderState is a plain receive-loop actor that echoes whatever
// it is sent back to the sender — the target of the "ask" scenario.
// Unlike a Stooge, it sticks around for more than one message.
type echoResponderState struct{}

func echoResponderHear(scene *troupe.Scene[echoResponderState], msg any) {
	from, ok := scene.Sender()
	if !ok {
		return
	}
	scene.Say(from, troupe.Echo{Msg: msg})
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask",
		Short: "ask an echo responder for a reply and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			stg := troupe.NewStage()
			var result string
			done := make(chan struct{})

			playID, err := troupe.Cast(stg, askPlayState{}, func(scene *troupe.Scene[askPlayState], msg any) {
				if _, ok := msg.(troupe.Genesis); !ok {
					return
				}
				responder, err := troupe.Enter(scene.Stage(), scene.Me(), echoResponderState{}, echoResponderHear, troupe.Lifecycle[echoResponderState]{})
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					close(done)
					return
				}
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				reply, err := troupe.AskCtx[troupe.Echo](ctx, scene, responder.ID, "ping")
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
				} else if s, ok := reply.Msg.(string); ok {
					result = s
				}
				close(done)
			}, troupe.Lifecycle[askPlayState]{})
			if err != nil {
				return err
			}
			_ = playID

			select {
			case <-done:
			case <-time.After(2 * time.Second):
			}
			fmt.Println(headerStyle.Render(fmt.Sprintf("echoed back: %q", result)))
			settle(stg)
			return nil
		},
	}
}

type listenerState struct{ heard int }

func listenerHear(scene *troupe.Scene[listenerState], msg any) {
	if s, ok := msg.(string); ok {
		st := troupe.My(scene)
		st.heard++
		troupe.SetMy(scene, st)
		fmt.Printf("listener #%d heard %q\n", scene.Me(), s)
	}
}

type broadcastPlayState struct{}

func broadcastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "broadcast",
		Short: "shout a message at a Troupe of listeners",
		RunE: func(cmd *cobra.Command, args []string) error {
			stg := troupe.NewStage()
			playID, err := troupe.Cast(stg, broadcastPlayState{}, func(*troupe.Scene[broadcastPlayState], any) {}, troupe.Lifecycle[broadcastPlayState]{})
			if err != nil {
				return err
			}
			room, err := troupe.EnterTroupe(stg, playID.ID)
			if err != nil {
				return err
			}
			for i := 0; i < 3; i++ {
				if _, err := troupe.Enlist(stg, room, listenerState{}, listenerHear, troupe.Lifecycle[listenerState]{}); err != nil {
					return err
				}
			}
			if err := troupe.Say(stg, room, troupe.Shout{Msg: "curtain up"}); err != nil {
				return err
			}
			settle(stg)
			return nil
		},
	}
}

type enlistedWorkerState struct{ name string }

func enlistedWorkerHear(scene *troupe.Scene[enlistedWorkerState], msg any) {
	st := troupe.My(scene)
	fmt.Printf("%s: %v\n", st.name, msg)
}

type enlistPlayState struct{}

func enlistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enlist",
		Short: "enlist a new worker into a Troupe and shout at the Troupe",
		RunE: func(cmd *cobra.Command, args []string) error {
			stg := troupe.NewStage()
			playID, err := troupe.Cast(stg, enlistPlayState{}, func(*troupe.Scene[enlistPlayState], any) {}, troupe.Lifecycle[enlistPlayState]{})
			if err != nil {
				return err
			}
			crew, err := troupe.EnterTroupe(stg, playID.ID)
			if err != nil {
				return err
			}
			worker, err := troupe.Enter(stg, playID.ID, enlistedWorkerState{name: "stand-in"}, enlistedWorkerHear, troupe.Lifecycle[enlistedWorkerState]{})
			if err != nil {
				return err
			}
			if err := troupe.Say(stg, worker, "before enlisting"); err != nil {
				return err
			}
			if _, err := troupe.Enlist(stg, crew, enlistedWorkerState{name: "enlisted"}, enlistedWorkerHear, troupe.Lifecycle[enlistedWorkerState]{}); err != nil {
				return err
			}
			if err := troupe.Say(stg, crew, troupe.Shout{Msg: "after enlisting"}); err != nil {
				return err
			}
			settle(stg)
			return nil
		},
	}
}

type delegatePlayState struct{}

// delegateCmd is end-to-end scenario 5: a Play delegates a one-shot
// Stooge whose action asks the Stage itself to leave, bringing the whole
// system down from inside a closure it never had to name ahead of time.
func delegateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delegate",
		Short: "delegate a one-shot action that shuts the stage down",
		RunE: func(cmd *cobra.Command, args []string) error {
			stg := troupe.NewStage()
			_, err := troupe.Cast(stg, delegatePlayState{}, func(scene *troupe.Scene[delegatePlayState], msg any) {
				if _, ok := msg.(troupe.Genesis); !ok {
					return
				}
				fmt.Println(headerStyle.Render("delegating a stooge that will shut the stage down"))
				if _, err := troupe.Delegate(func(sc *troupe.Scene[troupe.StoogeState], args ...any) {
					n, _ := args[0].(int)
					fmt.Printf("stooge ran with n=%d, asking the stage to leave\n", n)
					sc.Stage().Shutdown()
				}, scene, 1); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			}, troupe.Lifecycle[delegatePlayState]{})
			if err != nil {
				return err
			}
			stg.Wait()
			return nil
		},
	}
}

type leavingWorkerState struct{}

func leaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "an ordinary actor requests its own graceful exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			stg := troupe.NewStage()
			done := make(chan struct{})
			worker, err := troupe.Enter(stg, stg.PassiveMinderID(), leavingWorkerState{}, func(scene *troupe.Scene[leavingWorkerState], msg any) {
				if _, ok := msg.(string); ok {
					fmt.Println(headerStyle.Render("worker leaving on its own"))
					troupe.Leave(scene)
				}
			}, troupe.Lifecycle[leavingWorkerState]{
				Epilogue: func(*troupe.Scene[leavingWorkerState]) { close(done) },
			})
			if err != nil {
				return err
			}
			if err := troupe.Say(stg, worker, "quit"); err != nil {
				return err
			}
			select {
			case <-done:
			case <-time.After(2 * time.Second):
			}
			settle(stg)
			return nil
		},
	}
}

type slowWorkerState struct{}

func slowWorkerHear(scene *troupe.Scene[slowWorkerState], msg any) {
	time.Sleep(20 * time.Millisecond)
	fmt.Printf("slow worker processed %v\n", msg)
}

type backpressurePlayState struct{}

func backpressureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backpressure",
		Short: "flood a tiny mailbox and watch senders block",
		RunE: func(cmd *cobra.Command, args []string) error {
			stg := troupe.NewStage()
			playID, err := troupe.Cast(stg, backpressurePlayState{}, func(*troupe.Scene[backpressurePlayState], any) {}, troupe.Lifecycle[backpressurePlayState]{})
			if err != nil {
				return err
			}
			worker, err := troupe.EnterWithCapacity(stg, playID.ID, slowWorkerState{}, slowWorkerHear, troupe.Lifecycle[slowWorkerState]{}, 2)
			if err != nil {
				return err
			}
			start := time.Now()
			for i := 0; i < 10; i++ {
				if err := troupe.Say(stg, worker, i); err != nil {
					return err
				}
			}
			fmt.Println(headerStyle.Render(fmt.Sprintf("10 sends took %s against a mailbox of 2", time.Since(start))))
			time.Sleep(300 * time.Millisecond)
			stg.Shutdown()
			stg.Wait()
			return nil
		},
	}
}
