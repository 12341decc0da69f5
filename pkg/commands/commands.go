// Package commands maps inbound chat text onto the lunch store. Each command
// is a regular expression with positional captures; the dispatcher tries them
// in order and runs the first match. The adapter holds no state of its own:
// it extracts captures, resolves identities and calls the store.
package commands

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/korjavin/lunchbot/pkg/identity"
	"github.com/korjavin/lunchbot/pkg/logger"
	"github.com/korjavin/lunchbot/pkg/lunch"
	"github.com/korjavin/lunchbot/pkg/messages"
	"github.com/korjavin/lunchbot/pkg/models"
	"github.com/korjavin/lunchbot/pkg/shops"
)

// Scope says where a command is listened for.
type Scope int

const (
	// ScopeAny matches in private chats and group chats alike.
	ScopeAny Scope = iota
	// ScopeDirect matches in private chats only.
	ScopeDirect
)

// Context carries everything a handler needs for one inbound message.
type Context struct {
	Ctx      context.Context
	ChatID   int64
	Private  bool
	UserRef  string
	Resolver identity.Resolver
	Reply    func(text string)
}

type handlerFunc func(ctx *Context, args []string)

type command struct {
	name    string
	topic   string
	pattern *regexp.Regexp
	scope   Scope
	help    string
	handle  handlerFunc
}

// Dispatcher owns the command table.
type Dispatcher struct {
	commands []command
	svc      *lunch.Service
	dir      *shops.Directory
	render   *messages.Service
	logger   *logger.Logger
}

// NewDispatcher builds the dispatcher with the full command grammar.
func NewDispatcher(svc *lunch.Service, dir *shops.Directory, render *messages.Service) *Dispatcher {
	d := &Dispatcher{
		svc:    svc,
		dir:    dir,
		render: render,
		logger: logger.New("commands"),
	}
	d.commands = []command{
		{
			name:    "hello",
			pattern: regexp.MustCompile(`^hello$`),
			scope:   ScopeAny,
			handle:  func(ctx *Context, _ []string) { ctx.Reply("Hello!") },
		},
		{
			name:    "open shops",
			topic:   "shops",
			pattern: regexp.MustCompile(`^open shops$`),
			scope:   ScopeDirect,
			help:    "open shops — list the shops I know",
			handle:  d.handleOpenShops,
		},
		{
			name:    "menu",
			topic:   "shops",
			pattern: regexp.MustCompile(`^menu from (.+)$`),
			scope:   ScopeDirect,
			help:    "menu from <shop> — show a shop's menu",
			handle:  d.handleMenu,
		},
		{
			name:    "webpage",
			topic:   "shops",
			pattern: regexp.MustCompile(`^webpage (.+)$`),
			scope:   ScopeDirect,
			help:    "webpage <shop> — show a shop's webpage",
			handle:  d.handleWebpage,
		},
		// The timed form must come before the contribution form: both start
		// with "order from".
		{
			name:    "open order",
			topic:   "orders",
			pattern: regexp.MustCompile(`^order from (.+?) at ([0-9]{1,2}:[0-9]{2})(?::(.+))?$`),
			scope:   ScopeAny,
			help:    "order from <shop> at <H:MM>[: item, item] — open a delivery order",
			handle:  d.handleOpenOrder,
		},
		{
			name:    "add items",
			topic:   "orders",
			pattern: regexp.MustCompile(`^order from ([^:]+):(.+)$`),
			scope:   ScopeAny,
			help:    "order from <shop>: <item, item> — add items to an open order",
			handle:  d.handleAddItems,
		},
		{
			name:    "who is ordering",
			topic:   "orders",
			pattern: regexp.MustCompile(`^who is ordering$`),
			scope:   ScopeAny,
			help:    "who is ordering — list open orders",
			handle:  func(ctx *Context, _ []string) { ctx.Reply(d.render.OrderList(d.svc.ListOrders())) },
		},
		{
			name:    "describe order",
			topic:   "orders",
			pattern: regexp.MustCompile(`^what is being ordered from (.+)$`),
			scope:   ScopeAny,
			help:    "what is being ordered from <shop> — show an order's items",
			handle:  d.handleDescribeOrder,
		},
		{
			name:    "going out",
			topic:   "outings",
			pattern: regexp.MustCompile(`^going out to (.+?) at ([0-9]{1,2}:[0-9]{2})$`),
			scope:   ScopeAny,
			help:    "going out to <shop> at <H:MM> — declare a walk-out trip",
			handle:  d.handleOpenOuting,
		},
		{
			name:    "who is going out",
			topic:   "outings",
			pattern: regexp.MustCompile(`^who is going out$`),
			scope:   ScopeAny,
			help:    "who is going out — list outings",
			handle:  func(ctx *Context, _ []string) { ctx.Reply(d.render.OutingList(d.svc.ListOutings())) },
		},
		{
			name:    "join",
			topic:   "outings",
			pattern: regexp.MustCompile(`^join @?(\S+)$`),
			scope:   ScopeAny,
			help:    "join <@user> — join that user's outing",
			handle:  d.handleJoin,
		},
		{
			name:    "ask",
			topic:   "outings",
			pattern: regexp.MustCompile(`^ask @?(\S+) for (.+)$`),
			scope:   ScopeAny,
			help:    "ask <@user> for <text> — ask that user's outing to bring something back",
			handle:  d.handleAsk,
		},
		{
			name:    "help",
			pattern: regexp.MustCompile(`^help(?:\s+(.+))?$`),
			scope:   ScopeAny,
			handle:  d.handleHelp,
		},
	}
	return d
}

// Dispatch matches text against the grammar and runs the first matching
// handler. It reports whether anything matched; unmatched text is ignored.
func (d *Dispatcher) Dispatch(ctx *Context, text string) bool {
	text = strings.TrimSpace(text)
	for i := range d.commands {
		cmd := &d.commands[i]
		if cmd.scope == ScopeDirect && !ctx.Private {
			continue
		}
		m := cmd.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		d.logger.Info("Handling %q from %s", cmd.name, ctx.UserRef)
		cmd.handle(ctx, m[1:])
		return true
	}
	return false
}

func (d *Dispatcher) handleOpenShops(ctx *Context, _ []string) {
	ctx.Reply(d.render.ShopList(d.dir.Names()))
}

func (d *Dispatcher) handleMenu(ctx *Context, args []string) {
	shop, err := d.dir.Lookup(strings.TrimSpace(args[0]))
	if err != nil {
		ctx.Reply(d.render.ShopNotFound())
		return
	}
	ctx.Reply(d.render.Menu(shop))
}

func (d *Dispatcher) handleWebpage(ctx *Context, args []string) {
	shop, err := d.dir.Lookup(strings.TrimSpace(args[0]))
	if err != nil {
		ctx.Reply(d.render.ShopNotFound())
		return
	}
	ctx.Reply(d.render.Webpage(shop))
}

func (d *Dispatcher) handleOpenOrder(ctx *Context, args []string) {
	at, err := models.ParseDayTime(args[1])
	if err != nil {
		ctx.Reply(d.render.BadTime())
		return
	}
	initiator, ok := d.resolve(ctx, ctx.UserRef)
	if !ok {
		return
	}
	order, err := d.svc.OpenOrder(ctx.ChatID, strings.TrimSpace(args[0]), at, initiator, splitItems(args[2]))
	if err != nil {
		if errors.Is(err, shops.ErrShopNotFound) {
			ctx.Reply(d.render.ShopNotFound())
			return
		}
		d.replyInternal(ctx, err)
		return
	}
	ctx.Reply(d.render.OrderOpened(order))
}

func (d *Dispatcher) handleAddItems(ctx *Context, args []string) {
	items := splitItems(args[1])
	if len(items) == 0 {
		ctx.Reply(d.render.NoItems())
		return
	}
	contributor, ok := d.resolve(ctx, ctx.UserRef)
	if !ok {
		return
	}
	order, err := d.svc.AddItems(strings.TrimSpace(args[0]), items, contributor)
	if err != nil {
		ctx.Reply(d.render.OrderNotFound())
		return
	}
	ctx.Reply(d.render.ItemsAdded(order, contributor, items))
}

func (d *Dispatcher) handleDescribeOrder(ctx *Context, args []string) {
	order, err := d.svc.DescribeOrder(strings.TrimSpace(args[0]))
	if err != nil {
		ctx.Reply(d.render.OrderNotFound())
		return
	}
	ctx.Reply(d.render.OrderDescription(order))
}

func (d *Dispatcher) handleOpenOuting(ctx *Context, args []string) {
	at, err := models.ParseDayTime(args[1])
	if err != nil {
		ctx.Reply(d.render.BadTime())
		return
	}
	declarer, ok := d.resolve(ctx, ctx.UserRef)
	if !ok {
		return
	}
	outing := d.svc.OpenOuting(ctx.ChatID, strings.TrimSpace(args[0]), at, declarer)
	ctx.Reply(d.render.OutingOpened(outing))
}

func (d *Dispatcher) handleJoin(ctx *Context, args []string) {
	target, ok := d.resolve(ctx, args[0])
	if !ok {
		return
	}
	joiner, ok := d.resolve(ctx, ctx.UserRef)
	if !ok {
		return
	}
	outing, err := d.svc.JoinOuting(target, joiner)
	if err != nil {
		ctx.Reply(d.render.UserNotInAnyOuting(target))
		return
	}
	ctx.Reply(d.render.OutingJoined(outing, joiner))
}

func (d *Dispatcher) handleAsk(ctx *Context, args []string) {
	target, ok := d.resolve(ctx, args[0])
	if !ok {
		return
	}
	requester, ok := d.resolve(ctx, ctx.UserRef)
	if !ok {
		return
	}
	outing, err := d.svc.AddRequest(target, requester, strings.TrimSpace(args[1]))
	if err != nil {
		ctx.Reply(d.render.UserNotInAnyOuting(target))
		return
	}
	ctx.Reply(d.render.RequestAdded(outing, requester))
}

func (d *Dispatcher) handleHelp(ctx *Context, args []string) {
	topic := strings.TrimSpace(args[0])
	var lines []string
	for _, cmd := range d.commands {
		if cmd.help == "" {
			continue
		}
		if topic != "" && cmd.topic != topic {
			continue
		}
		lines = append(lines, cmd.help)
	}
	if len(lines) == 0 {
		ctx.Reply("No help for " + topic + ". Topics: shops, orders, outings")
		return
	}
	ctx.Reply(strings.Join(lines, "\n"))
}

// resolve turns a user reference into a display name. A failed resolution
// aborts only the in-flight command: the user gets an apology and the error
// is logged.
func (d *Dispatcher) resolve(ctx *Context, ref string) (string, bool) {
	name, err := ctx.Resolver.Resolve(ctx.Ctx, ref)
	if err != nil {
		d.logger.Error("Identity resolution failed for %q: %v", ref, err)
		ctx.Reply(d.render.IdentityFailure())
		return "", false
	}
	return name, true
}

func (d *Dispatcher) replyInternal(ctx *Context, err error) {
	d.logger.Error("Command failed: %v", err)
	ctx.Reply("😢 Sorry, something went wrong. Please try again later.")
}

// splitItems parses a comma-separated item list, dropping empty entries.
func splitItems(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
