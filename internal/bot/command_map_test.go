package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	hits map[string]int
}

func (c *counter) handler(name string) Handler[*counter] {
	return func(this *counter, req *Request) *Response {
		this.hits[name]++
		return Say(name + ":" + req.Args())
	}
}

func newCounter() *counter {
	return &counter{hits: make(map[string]int)}
}

func mustRequest(t *testing.T, text string) *Request {
	t.Helper()
	req, ok := ParseRequest(1000, "#test", text)
	require.True(t, ok, "expected %q to parse as a request", text)
	return req
}

func TestCommandMap_LongestMatchWins(t *testing.T) {
	c := newCounter()
	cmds, err := NewCommandMap(NewCommandRegistry(), "test", []CommandEntry[*counter]{
		{Name: "foo", Handler: c.handler("foo")},
		{Name: "foobar", Handler: c.handler("foobar")},
	})
	require.NoError(t, err)

	resp := cmds.Dispatch(c, mustRequest(t, "!foobar args"))

	require.NotNil(t, resp)
	assert.Equal(t, []string{"foobar:args"}, resp.Lines())
	assert.Equal(t, 1, c.hits["foobar"])
	assert.Equal(t, 0, c.hits["foo"])
}

func TestCommandMap_LongestMatchIndependentOfOrder(t *testing.T) {
	c := newCounter()
	cmds, err := NewCommandMap(NewCommandRegistry(), "test", []CommandEntry[*counter]{
		{Name: "foobar", Handler: c.handler("foobar")},
		{Name: "foo", Handler: c.handler("foo")},
	})
	require.NoError(t, err)

	cmds.Dispatch(c, mustRequest(t, "!foobar"))
	cmds.Dispatch(c, mustRequest(t, "!foo bar"))

	assert.Equal(t, 1, c.hits["foobar"])
	assert.Equal(t, 1, c.hits["foo"])
}

func TestCommandMap_RemainderBecomesArgs(t *testing.T) {
	c := newCounter()
	cmds, err := NewCommandMap(NewCommandRegistry(), "test", []CommandEntry[*counter]{
		{Name: "quote", Handler: c.handler("quote")},
	})
	require.NoError(t, err)

	resp := cmds.Dispatch(c, mustRequest(t, "!quote add hello there"))

	require.NotNil(t, resp)
	assert.Equal(t, []string{"quote:add hello there"}, resp.Lines())
}

func TestCommandMap_NoMatchInvokesNothing(t *testing.T) {
	c := newCounter()
	cmds, err := NewCommandMap(NewCommandRegistry(), "test", []CommandEntry[*counter]{
		{Name: "foo", Handler: c.handler("foo")},
	})
	require.NoError(t, err)

	assert.Nil(t, cmds.Dispatch(c, mustRequest(t, "!bar")))
	assert.Nil(t, cmds.Dispatch(c, mustRequest(t, "!foox")))
	assert.Empty(t, c.hits)
}

func TestCommandMap_CollisionFailsConstruction(t *testing.T) {
	reg := NewCommandRegistry()
	c := newCounter()

	_, err := NewCommandMap(reg, "first", []CommandEntry[*counter]{
		{Name: "help", Handler: c.handler("help")},
	})
	require.NoError(t, err)

	cmds, err := NewCommandMap(reg, "second", []CommandEntry[*counter]{
		{Name: "extra", Handler: c.handler("extra")},
		{Name: "help", Handler: c.handler("help")},
	})

	assert.ErrorIs(t, err, ErrCommandAlreadyExists)
	assert.Nil(t, cmds)
	assert.False(t, reg.Exists("extra"), "failed batch must not leak names")

	owner, _ := reg.Lookup("help")
	assert.Equal(t, "first", owner.Namespace())
}

func TestCommandMap_RejectsNilHandler(t *testing.T) {
	reg := NewCommandRegistry()

	_, err := NewCommandMap(reg, "test", []CommandEntry[*counter]{{Name: "foo"}})

	assert.ErrorIs(t, err, ErrInvalidCommand)
	assert.False(t, reg.Exists("foo"))
}

func TestCommandMap_Names(t *testing.T) {
	c := newCounter()
	cmds, err := NewCommandMap(NewCommandRegistry(), "test", []CommandEntry[*counter]{
		{Name: "b", Handler: c.handler("b")},
		{Name: "a", Handler: c.handler("a")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, cmds.Names())
}

func TestCommandMap_IsSubsetOfRegistry(t *testing.T) {
	reg := NewCommandRegistry()
	c := newCounter()
	cmds, err := NewCommandMap(reg, "test", []CommandEntry[*counter]{
		{Name: "one", Handler: c.handler("one")},
		{Name: "two", Handler: c.handler("two")},
	})
	require.NoError(t, err)

	for _, name := range cmds.Names() {
		owner, ok := reg.Lookup(name)
		require.True(t, ok, "expected %q in registry", name)
		assert.Equal(t, "test", owner.Namespace())
	}
}
