package troupe

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	crashStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)

	departureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// LoggerState tracks the running totals the Logger has observed; the
// totals exist mostly so tests can assert the Logger actually saw what
// it was sent, since its real job is the side effect of printing
// (spec.md §4.4 "Logger").
type LoggerState struct {
	Crashes    int
	Departures int
}

// loggerHear renders a highlighted banner plus the dimmed stack trace for
// every crash it is told about, and a quieter line for every ordinary
// departure.
func loggerHear(scene *Scene[LoggerState], msg any) {
	switch m := msg.(type) {
	case LogDied:
		st := My(scene)
		st.Crashes++
		SetMy(scene, st)
		fmt.Println(crashStyle.Render(fmt.Sprintf("actor #%d died: %s", m.Died.Who, m.Died.Reason)))
		fmt.Println(lipgloss.NewStyle().Faint(true).Render(m.Died.Stack))
	case Died:
		st := My(scene)
		st.Crashes++
		SetMy(scene, st)
		fmt.Println(crashStyle.Render(fmt.Sprintf("actor #%d died: %s", m.Who, m.Reason)))
		fmt.Println(lipgloss.NewStyle().Faint(true).Render(m.Stack))
	case Left:
		st := My(scene)
		st.Departures++
		SetMy(scene, st)
		fmt.Println(departureStyle.Render(fmt.Sprintf("actor #%d left", m.Who)))
	}
}

func buildLogger(capacity int) assembler {
	return assembleFor(LoggerState{}, loggerHear, Lifecycle[LoggerState]{}, capacity)
}

// PassiveMinderState is the default minder every ordinary actor gets
// unless something else adopts it: it forwards every Died! to the
// Logger as a LogDied! and then to the Stage, which shuts the whole
// system down. It ignores Left! and never restarts an actor.
type PassiveMinderState struct {
	Crashes int
}

func passiveMinderHear(scene *Scene[PassiveMinderState], msg any) {
	switch m := msg.(type) {
	case Died:
		st := My(scene)
		st.Crashes++
		SetMy(scene, st)
		scene.Say(scene.Env().Logger, LogDied{Died: m})
		// Having logged it, hand the raw report up to the Stage, which
		// will begin a full shutdown (spec.md §4.7 "then forward the
		// Died! to the Stage").
		scene.Say(scene.StageID(), m)
	}
}

func buildPassiveMinder(capacity int) assembler {
	return assembleFor(PassiveMinderState{}, passiveMinderHear, Lifecycle[PassiveMinderState]{}, capacity)
}
