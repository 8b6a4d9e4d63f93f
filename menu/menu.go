// Package menu runs a numbered text menu and hands the chosen number to a
// Handler.
package menu

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Handler performs the action bound to a menu choice.
//
// ExecuteOption reports whether the menu should keep running. A non-nil
// error means the action failed in a way the caller cannot recover from.
type Handler interface {
	ExecuteOption(ctx context.Context, choice int) (keepGoing bool, err error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, choice int) (bool, error)

func (f HandlerFunc) ExecuteOption(ctx context.Context, choice int) (bool, error) {
	return f(ctx, choice)
}

// Prompter is the console surface the menu needs.
type Prompter interface {
	Println(a ...any)
	String(prompt, def string) (string, error)
}

// Menu is a fixed, ordered list of labels. Choices are 1-based and the last
// label is the terminal one.
type Menu struct {
	io     Prompter
	labels []string
}

// New returns a Menu showing labels through io.
func New(io Prompter, labels ...string) *Menu {
	return &Menu{io: io, labels: labels}
}

// Len returns the number of choices.
func (m *Menu) Len() int { return len(m.labels) }

// IsTerminal reports whether choice, in either sign, selects the last label.
func (m *Menu) IsTerminal(choice int) bool {
	return len(m.labels) > 0 && abs(choice) == len(m.labels)
}

// Choose shows the menu and asks for a number until one between 1 and Len()
// is entered. def is offered as the default when it is in range. The choice
// is dispatched to h exactly once; if h says not to keep going the choice is
// returned negated.
//
// A menu without labels returns 0 without asking.
func (m *Menu) Choose(ctx context.Context, h Handler, prompt string, def int) (int, error) {
	n := len(m.labels)
	if n == 0 {
		return 0, nil
	}

	defString := ""
	if def >= 1 && def <= n {
		defString = strconv.Itoa(def)
	}

	var choice int
	for {
		for i, label := range m.labels {
			m.io.Println(fmt.Sprintf("%d) %s", i+1, label))
		}
		m.io.Println()

		answer, err := m.io.String(prompt, defString)
		if err != nil {
			return 0, err
		}

		c, err := strconv.Atoi(strings.TrimSpace(answer))
		if err == nil && c >= 1 && c <= n {
			choice = c
			m.io.Println()
			break
		}
		m.io.Println("Invalid option selected.")
		m.io.Println(fmt.Sprintf("Please choose an option between 1 and %d", n))
		m.io.Println()
	}

	if h == nil {
		return choice, nil
	}
	keepGoing, err := h.ExecuteOption(ctx, choice)
	if !keepGoing || err != nil {
		choice = -choice
	}
	return choice, err
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
