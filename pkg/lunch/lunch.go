package lunch

import (
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/korjavin/lunchbot/pkg/logger"
	"github.com/korjavin/lunchbot/pkg/messages"
	"github.com/korjavin/lunchbot/pkg/models"
	"github.com/korjavin/lunchbot/pkg/scheduler"
	"github.com/korjavin/lunchbot/pkg/shops"
)

var (
	// ErrOrderNotFound is returned when no open order matches a shop.
	ErrOrderNotFound = errors.New("no open order for that shop")
	// ErrUserNotInAnyOuting is returned when a join/ask target participates
	// in no outing.
	ErrUserNotInAnyOuting = errors.New("user is not in any outing")
)

// Notifier delivers an unsolicited announcement to a chat.
type Notifier interface {
	Announce(chatID int64, text string)
}

// Journal records fired reminders. May be nil; the journal is best-effort.
type Journal interface {
	AppendJournal(rec models.JournalRecord) error
}

// openOrder and openOuting pair the entity with its reminder handle, so a
// future cancel command would have something to revoke.
type openOrder struct {
	*models.Order
	reminder *scheduler.Handle
}

type openOuting struct {
	*models.Outing
	reminder *scheduler.Handle
}

// Service is the aggregation store: every open order and outing of the day,
// in creation order, behind one mutex. Each mutation holds the lock for its
// whole read-scan-append body, so contributions arriving while another
// command awaits identity resolution cannot split an operation. Entities are
// never deleted; state is volatile and dies with the process.
type Service struct {
	dir      *shops.Directory
	sched    *scheduler.Scheduler
	notifier Notifier
	render   *messages.Service
	journal  Journal
	logger   *logger.Logger

	mu      sync.Mutex
	orders  []*openOrder
	outings []*openOuting
}

// New creates the store. journal may be nil.
func New(dir *shops.Directory, sched *scheduler.Scheduler, notifier Notifier, render *messages.Service, journal Journal) *Service {
	return &Service{
		dir:      dir,
		sched:    sched,
		notifier: notifier,
		render:   render,
		journal:  journal,
		logger:   logger.New("lunch"),
	}
}

// OpenOrder creates a new order for a directory shop and schedules its
// reminder atomically. Each initial item is attributed to the initiator.
// Returns shops.ErrShopNotFound for unknown shops.
func (s *Service) OpenOrder(chatID int64, shop string, at models.DayTime, initiator string, items []string) (models.Order, error) {
	sh, err := s.dir.Lookup(shop)
	if err != nil {
		return models.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o := &openOrder{Order: &models.Order{
		ChatID:    chatID,
		Shop:      sh.Name,
		At:        at,
		Initiator: initiator,
		Items:     make(map[string][]string),
		OpenedAt:  time.Now(),
	}}
	for _, item := range items {
		addItem(o.Order, item, initiator)
	}
	s.orders = append(s.orders, o)
	o.reminder = s.sched.ScheduleAt(at.Hour, at.Minute, func() { s.fireOrder(o) })

	s.logger.Info("Opened order from %s at %s by %s", sh.Name, at, initiator)
	return o.Clone(), nil
}

// AddItems appends the contributor to each named item of the most recently
// opened order matching the shop. The merge key is the shop name alone, not
// shop+time; when two same-shop orders are open at different times, the most
// recent one collects everything. That matches the behavior this bot has
// always had and is documented as a known defect.
func (s *Service) AddItems(shop string, items []string, contributor string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.orders) - 1; i >= 0; i-- {
		o := s.orders[i]
		if !strings.EqualFold(o.Shop, shop) {
			continue
		}
		for _, item := range items {
			addItem(o.Order, item, contributor)
		}
		s.logger.Info("%s added %d item(s) to the %s order", contributor, len(items), o.Shop)
		return o.Clone(), nil
	}
	return models.Order{}, errors.Wrap(ErrOrderNotFound, shop)
}

// ListOrders returns snapshots of every open order in creation order.
func (s *Service) ListOrders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]models.Order, len(s.orders))
	for i, o := range s.orders {
		list[i] = o.Clone()
	}
	return list
}

// DescribeOrder returns a snapshot of the most recently opened order matching
// the shop. Read-only and idempotent.
func (s *Service) DescribeOrder(shop string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.orders) - 1; i >= 0; i-- {
		if strings.EqualFold(s.orders[i].Shop, shop) {
			return s.orders[i].Clone(), nil
		}
	}
	return models.Order{}, errors.Wrap(ErrOrderNotFound, shop)
}

// OpenOuting declares a trip to a shop and schedules its reminder atomically.
// Outings are not validated against the directory: people walk to places the
// delivery site never heard of. Distinct times to the same shop are distinct
// outings.
func (s *Service) OpenOuting(chatID int64, shop string, at models.DayTime, declarer string) models.Outing {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := &openOuting{Outing: &models.Outing{
		ChatID:       chatID,
		Shop:         shop,
		At:           at,
		Participants: []string{declarer},
		OpenedAt:     time.Now(),
	}}
	s.outings = append(s.outings, o)
	o.reminder = s.sched.ScheduleAt(at.Hour, at.Minute, func() { s.fireOuting(o) })

	s.logger.Info("%s is going out to %s at %s", declarer, shop, at)
	return o.Clone()
}

// JoinOuting appends the joiner to the first outing, in creation order, whose
// participants contain the target. When the target is in several outings the
// earliest one wins; there is no way to pick another.
func (s *Service) JoinOuting(target, joiner string) (models.Outing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.findOutingLocked(target)
	if o == nil {
		return models.Outing{}, errors.Wrap(ErrUserNotInAnyOuting, target)
	}
	o.Participants = append(o.Participants, joiner)
	s.logger.Info("%s joined the outing to %s at %s", joiner, o.Shop, o.At)
	return o.Clone(), nil
}

// AddRequest attaches a bring-back request to the first outing containing the
// target, with the same first-match rule as JoinOuting.
func (s *Service) AddRequest(target, requester, text string) (models.Outing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.findOutingLocked(target)
	if o == nil {
		return models.Outing{}, errors.Wrap(ErrUserNotInAnyOuting, target)
	}
	o.Requests = append(o.Requests, models.Request{From: requester, Text: text})
	s.logger.Info("%s asked the %s party to bring back %q", requester, o.Shop, text)
	return o.Clone(), nil
}

// ListOutings returns snapshots of every open outing in creation order.
func (s *Service) ListOutings() []models.Outing {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]models.Outing, len(s.outings))
	for i, o := range s.outings {
		list[i] = o.Clone()
	}
	return list
}

// findOutingLocked scans outings in creation order for one whose participants
// contain the target display name (exact match; only shop names compare
// case-insensitively). Caller holds s.mu.
func (s *Service) findOutingLocked(target string) *openOuting {
	for _, o := range s.outings {
		for _, p := range o.Participants {
			if p == target {
				return o
			}
		}
	}
	return nil
}

// fireOrder runs at the order's declared time. It re-reads the live order
// under the lock, so items contributed up to the fire instant are included.
func (s *Service) fireOrder(o *openOrder) {
	s.mu.Lock()
	snap := o.Clone()
	s.mu.Unlock()

	text := s.render.OrderReminder(snap)
	s.notifier.Announce(snap.ChatID, text)
	s.appendJournal("order", snap.Shop, snap.At.String(), text)
}

// fireOuting runs at the outing's declared time, reading live state the same
// way as fireOrder.
func (s *Service) fireOuting(o *openOuting) {
	s.mu.Lock()
	snap := o.Clone()
	s.mu.Unlock()

	text := s.render.OutingReminder(snap)
	s.notifier.Announce(snap.ChatID, text)
	s.appendJournal("outing", snap.Shop, snap.At.String(), text)
}

func (s *Service) appendJournal(kind, shop, at, summary string) {
	if s.journal == nil {
		return
	}
	rec := models.JournalRecord{
		Kind:    kind,
		Shop:    shop,
		At:      at,
		Summary: summary,
		FiredAt: time.Now(),
	}
	if err := s.journal.AppendJournal(rec); err != nil {
		s.logger.Error("Failed to journal %s reminder for %s: %v", kind, shop, err)
	}
}

// addItem registers one item for a contributor, creating the item entry on
// first mention so listings keep a stable order.
func addItem(o *models.Order, item, contributor string) {
	if _, ok := o.Items[item]; !ok {
		o.ItemNames = append(o.ItemNames, item)
	}
	o.Items[item] = append(o.Items[item], contributor)
}
