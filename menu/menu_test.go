package menu_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/moviedb/console"
	"github.com/Skryldev/moviedb/menu"
)

// recorder remembers every choice it is handed.
type recorder struct {
	calls     []int
	keepGoing bool
	err       error
}

func (r *recorder) ExecuteOption(_ context.Context, choice int) (bool, error) {
	r.calls = append(r.calls, choice)
	return r.keepGoing, r.err
}

func newMenu(input string, labels ...string) (*menu.Menu, *bytes.Buffer) {
	out := &bytes.Buffer{}
	con := console.New(strings.NewReader(input), out)
	return menu.New(con, labels...), out
}

var labels = []string{"Search", "Insert", "Quit"}

func TestChoose_DispatchesOnce(t *testing.T) {
	m, out := newMenu("2\n", labels...)
	h := &recorder{keepGoing: true}

	choice, err := m.Choose(context.Background(), h, "Enter your choice: ", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, choice)
	assert.Equal(t, []int{2}, h.calls)
	assert.Equal(t, "1) Search\n2) Insert\n3) Quit\n\nEnter your choice: \n", out.String())
}

func TestChoose_InvalidInputNeverDispatches(t *testing.T) {
	m, out := newMenu("0\n4\nabc\n\n-1\n1\n", labels...)
	h := &recorder{keepGoing: true}

	choice, err := m.Choose(context.Background(), h, "> ", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, choice)
	assert.Equal(t, []int{1}, h.calls)
	assert.Equal(t, 5, strings.Count(out.String(), "Invalid option selected.\nPlease choose an option between 1 and 3\n"))
}

func TestChoose_NegatesWhenHandlerStops(t *testing.T) {
	m, _ := newMenu("3\n", labels...)
	h := &recorder{keepGoing: false}

	choice, err := m.Choose(context.Background(), h, "> ", 0)
	require.NoError(t, err)
	assert.Equal(t, -3, choice)
	assert.True(t, m.IsTerminal(choice))
}

func TestChoose_HandlerErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	m, _ := newMenu("1\n", labels...)
	h := &recorder{keepGoing: true, err: boom}

	choice, err := m.Choose(context.Background(), h, "> ", 0)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, -1, choice)
}

func TestChoose_Default(t *testing.T) {
	m, _ := newMenu("\n", labels...)
	h := &recorder{keepGoing: true}

	choice, err := m.Choose(context.Background(), h, "> ", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, choice)

	// An out-of-range default is not offered.
	m, _ = newMenu("\n3\n", labels...)
	choice, err = m.Choose(context.Background(), h, "> ", 9)
	require.NoError(t, err)
	assert.Equal(t, 3, choice)
}

func TestChoose_NilHandler(t *testing.T) {
	m, _ := newMenu("3\n", labels...)
	choice, err := m.Choose(context.Background(), nil, "> ", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, choice)
}

func TestChoose_NoLabels(t *testing.T) {
	m, out := newMenu("1\n")
	h := &recorder{keepGoing: true}

	choice, err := m.Choose(context.Background(), h, "> ", 0)
	require.NoError(t, err)
	assert.Zero(t, choice)
	assert.Empty(t, h.calls)
	assert.Empty(t, out.String())
}

func TestChoose_InputClosed(t *testing.T) {
	m, _ := newMenu("", labels...)
	h := &recorder{keepGoing: true}

	_, err := m.Choose(context.Background(), h, "> ", 0)
	assert.ErrorIs(t, err, console.ErrInputClosed)
	assert.Empty(t, h.calls)
}

func TestHandlerFunc(t *testing.T) {
	var got int
	h := menu.HandlerFunc(func(_ context.Context, choice int) (bool, error) {
		got = choice
		return true, nil
	})
	m, _ := newMenu("2\n", labels...)

	_, err := m.Choose(context.Background(), h, "> ", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, 3, m.Len())
	assert.False(t, m.IsTerminal(2))
}
