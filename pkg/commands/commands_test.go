package commands_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korjavin/lunchbot/pkg/commands"
	"github.com/korjavin/lunchbot/pkg/identity"
	"github.com/korjavin/lunchbot/pkg/lunch"
	"github.com/korjavin/lunchbot/pkg/messages"
	"github.com/korjavin/lunchbot/pkg/scheduler"
	"github.com/korjavin/lunchbot/pkg/shops"
)

// fakeResolver resolves usernames from a fixed map, standing in for the
// storage-backed registry.
type fakeResolver map[string]string

func (r fakeResolver) Resolve(_ context.Context, ref string) (string, error) {
	name, ok := r[strings.ToLower(strings.TrimPrefix(ref, "@"))]
	if !ok {
		return "", errors.Wrap(identity.ErrUnknownUser, ref)
	}
	return name, nil
}

type nopNotifier struct{}

func (nopNotifier) Announce(int64, string) {}

type env struct {
	d        *commands.Dispatcher
	resolver fakeResolver
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := shops.Default()
	sched := scheduler.New(scheduler.SystemClock(), time.Minute)
	render := messages.New(nil)
	svc := lunch.New(dir, sched, nopNotifier{}, render, nil)
	return &env{
		d: commands.NewDispatcher(svc, dir, render),
		resolver: fakeResolver{
			"alice": "Alice",
			"bob":   "Bob",
			"carol": "Carol",
		},
	}
}

// say dispatches one message as the given user and returns the replies.
func (e *env) say(t *testing.T, user, text string) []string {
	t.Helper()
	var replies []string
	ctx := &commands.Context{
		Ctx:      context.Background(),
		ChatID:   1,
		Private:  true,
		UserRef:  user,
		Resolver: e.resolver,
		Reply:    func(reply string) { replies = append(replies, reply) },
	}
	e.d.Dispatch(ctx, text)
	return replies
}

func (e *env) sayOne(t *testing.T, user, text string) string {
	t.Helper()
	replies := e.say(t, user, text)
	require.Len(t, replies, 1, "expected exactly one reply to %q", text)
	return replies[0]
}

func TestShopQueries(t *testing.T) {
	e := newEnv(t)

	list := e.sayOne(t, "alice", "open shops")
	assert.Contains(t, list, "Subway")
	assert.Contains(t, list, "Bakker Bart")

	menu := e.sayOne(t, "alice", "menu from subway")
	assert.Contains(t, menu, "Chicken Teriyaki")

	url := e.sayOne(t, "alice", "webpage Subway")
	assert.Contains(t, url, "thuisbezorgd.nl")
}

func TestUnknownShopReplies(t *testing.T) {
	e := newEnv(t)

	for _, text := range []string{
		"menu from McDonalds",
		"webpage McDonalds",
		"order from McDonalds at 12:30: Big Mac",
	} {
		assert.Equal(t, "Shop not found", e.sayOne(t, "alice", text), "for %q", text)
	}
}

func TestOrderFlow(t *testing.T) {
	e := newEnv(t)

	opened := e.sayOne(t, "alice", "order from Subway at 12:30: Chicken Teriyaki, Tonijn")
	assert.Contains(t, opened, "Alice")
	assert.Contains(t, opened, "Subway")
	assert.Contains(t, opened, "12:30")

	added := e.sayOne(t, "bob", "order from Subway: Ham")
	assert.Contains(t, added, "Bob")
	assert.Contains(t, added, "Ham")

	listing := e.sayOne(t, "carol", "who is ordering")
	assert.Contains(t, listing, "Alice")
	assert.Contains(t, listing, "Subway")
	assert.Contains(t, listing, "12:30")

	described := e.sayOne(t, "carol", "what is being ordered from Subway")
	assert.Contains(t, described, "Chicken Teriyaki — Alice")
	assert.Contains(t, described, "Tonijn — Alice")
	assert.Contains(t, described, "Ham — Bob")
}

func TestAddItemsWithoutOpenOrder(t *testing.T) {
	e := newEnv(t)

	reply := e.sayOne(t, "bob", "order from Subway: Ham")
	assert.Equal(t, "No shop found with that order", reply)
}

func TestDescribeUnknownOrder(t *testing.T) {
	e := newEnv(t)

	reply := e.sayOne(t, "bob", "what is being ordered from Subway")
	assert.Equal(t, "No shop found with that order", reply)
}

func TestBadTimeReply(t *testing.T) {
	e := newEnv(t)

	reply := e.sayOne(t, "alice", "order from Subway at 25:30: Ham")
	assert.Contains(t, reply, "H:MM")
}

func TestOutingFlow(t *testing.T) {
	e := newEnv(t)

	declared := e.sayOne(t, "alice", "going out to Bakker Bart at 12:00")
	assert.Contains(t, declared, "Alice")
	assert.Contains(t, declared, "Bakker Bart")
	assert.Contains(t, declared, "12:00")

	joined := e.sayOne(t, "bob", "join @alice")
	assert.Contains(t, joined, "Bob")

	asked := e.sayOne(t, "carol", "ask @alice for bread")
	assert.Contains(t, asked, "Carol")

	listing := e.sayOne(t, "alice", "who is going out")
	assert.Contains(t, listing, "Alice, Bob are going out to Bakker Bart at 12:00")
	assert.Contains(t, listing, "bread")
	assert.Contains(t, listing, "Carol")
}

func TestJoinTargetNotGoingOut(t *testing.T) {
	e := newEnv(t)

	reply := e.sayOne(t, "bob", "join @alice")
	assert.Contains(t, reply, "Alice")
	assert.Contains(t, reply, "not going out")
}

func TestUnknownUserAbortsCommand(t *testing.T) {
	e := newEnv(t)

	e.sayOne(t, "alice", "going out to Bakker Bart at 12:00")

	reply := e.sayOne(t, "bob", "join @stranger")
	assert.Contains(t, reply, "don't know that user")

	// The outing is untouched.
	listing := e.sayOne(t, "alice", "who is going out")
	assert.NotContains(t, listing, "Bob")
}

func TestHello(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, "Hello!", e.sayOne(t, "alice", "hello"))
}

func TestHelp(t *testing.T) {
	e := newEnv(t)

	full := e.sayOne(t, "alice", "help")
	assert.Contains(t, full, "order from <shop>")
	assert.Contains(t, full, "going out to <shop>")
	assert.Contains(t, full, "open shops")

	outings := e.sayOne(t, "alice", "help outings")
	assert.Contains(t, outings, "join <@user>")
	assert.NotContains(t, outings, "order from <shop>")

	unknown := e.sayOne(t, "alice", "help dinners")
	assert.Contains(t, unknown, "Topics:")
}

func TestUnmatchedTextIgnored(t *testing.T) {
	e := newEnv(t)

	ctx := &commands.Context{
		Ctx:      context.Background(),
		ChatID:   1,
		Private:  true,
		UserRef:  "alice",
		Resolver: e.resolver,
		Reply:    func(string) { t.Fatal("unexpected reply") },
	}
	assert.False(t, e.d.Dispatch(ctx, "what's for dinner?"))
}

func TestDirectOnlyCommandsSkippedInGroups(t *testing.T) {
	e := newEnv(t)

	var replies []string
	ctx := &commands.Context{
		Ctx:      context.Background(),
		ChatID:   1,
		Private:  false,
		UserRef:  "alice",
		Resolver: e.resolver,
		Reply:    func(reply string) { replies = append(replies, reply) },
	}

	// Shop browsing is direct-message only.
	assert.False(t, e.d.Dispatch(ctx, "open shops"))

	// Coordination commands work in groups.
	assert.True(t, e.d.Dispatch(ctx, "who is ordering"))
	require.Len(t, replies, 1)
}
