package messages

import (
	"fmt"
	"strings"

	"github.com/korjavin/lunchbot/pkg/logger"
	"github.com/korjavin/lunchbot/pkg/models"
	"github.com/korjavin/lunchbot/pkg/openai"
	"github.com/korjavin/lunchbot/pkg/shops"
)

// Service renders every user-visible text. Reminder announcements are
// optionally paraphrased through OpenAI; everything else is deterministic.
type Service struct {
	openaiClient *openai.Client
	logger       *logger.Logger
}

// New creates a new message service. openaiClient may be nil, in which case
// reminders use the static rendering.
func New(openaiClient *openai.Client) *Service {
	return &Service{
		openaiClient: openaiClient,
		logger:       logger.New("messages"),
	}
}

// ShopList renders the shop directory names.
func (s *Service) ShopList(names []string) string {
	return strings.Join(names, "\n")
}

// Menu renders a shop's menu.
func (s *Service) Menu(shop shops.Shop) string {
	if len(shop.Menu) == 0 {
		return fmt.Sprintf("No menu on file for %s", shop.Name)
	}
	return strings.Join(shop.Menu, "\n")
}

// Webpage renders a shop's webpage link.
func (s *Service) Webpage(shop shops.Shop) string {
	if shop.URL == "" {
		return fmt.Sprintf("No webpage on file for %s", shop.Name)
	}
	return shop.URL
}

// OrderOpened confirms a freshly opened order.
func (s *Service) OrderOpened(o models.Order) string {
	msg := fmt.Sprintf("%s will order from %s at %s", o.Initiator, o.Shop, o.At)
	if len(o.ItemNames) > 0 {
		msg += "\n" + itemLines(o)
	}
	return msg
}

// ItemsAdded confirms a contribution to an existing order.
func (s *Service) ItemsAdded(o models.Order, contributor string, items []string) string {
	return fmt.Sprintf("Added for %s: %s (order from %s at %s)",
		contributor, strings.Join(items, ", "), o.Shop, o.At)
}

// OrderList renders the "who is ordering" overview.
func (s *Service) OrderList(orders []models.Order) string {
	if len(orders) == 0 {
		return "Nobody is ordering anything yet"
	}
	lines := make([]string, len(orders))
	for i, o := range orders {
		lines[i] = fmt.Sprintf("%s is ordering from %s at %s", o.Initiator, o.Shop, o.At)
	}
	return strings.Join(lines, "\n")
}

// OrderDescription renders everything collected so far for one order.
func (s *Service) OrderDescription(o models.Order) string {
	header := fmt.Sprintf("Order from %s at %s (opened by %s):", o.Shop, o.At, o.Initiator)
	if len(o.ItemNames) == 0 {
		return header + "\nnothing yet"
	}
	return header + "\n" + itemLines(o)
}

// OutingOpened confirms a freshly declared outing.
func (s *Service) OutingOpened(o models.Outing) string {
	return fmt.Sprintf("%s is going out to %s at %s", o.Participants[0], o.Shop, o.At)
}

// OutingJoined confirms a join.
func (s *Service) OutingJoined(o models.Outing, joiner string) string {
	return fmt.Sprintf("%s joins the trip to %s at %s", joiner, o.Shop, o.At)
}

// RequestAdded confirms a bring-back request.
func (s *Service) RequestAdded(o models.Outing, requester string) string {
	return fmt.Sprintf("Noted! The %s party (%s) will be asked to bring something back for %s",
		o.Shop, o.At, requester)
}

// OutingList renders the "who is going out" overview.
func (s *Service) OutingList(outings []models.Outing) string {
	if len(outings) == 0 {
		return "Nobody is going out yet"
	}
	lines := make([]string, 0, len(outings))
	for _, o := range outings {
		line := fmt.Sprintf("%s are going out to %s at %s",
			strings.Join(o.Participants, ", "), o.Shop, o.At)
		lines = append(lines, line)
		for _, r := range o.Requests {
			lines = append(lines, fmt.Sprintf("• bring back %s (for %s)", r.Text, r.From))
		}
	}
	return strings.Join(lines, "\n")
}

// OrderReminder renders the announcement fired at an order's declared time.
func (s *Service) OrderReminder(o models.Order) string {
	static := fmt.Sprintf("⏰ Time to order from %s (%s)! %s, here is everything collected so far:\n%s",
		o.Shop, o.At, o.Initiator, s.orderReminderBody(o))

	if s.openaiClient == nil {
		return static
	}
	msg, err := s.openaiClient.GenerateChatMessage("order_reminder", map[string]interface{}{
		"shop":      o.Shop,
		"time":      o.At.String(),
		"initiator": o.Initiator,
		"items":     o.Items,
	})
	if err != nil {
		s.logger.Error("Failed to generate order reminder message: %v", err)
		return static
	}
	return msg
}

func (s *Service) orderReminderBody(o models.Order) string {
	if len(o.ItemNames) == 0 {
		return "nothing was added to this order"
	}
	return itemLines(o)
}

// OutingReminder renders the announcement fired at an outing's declared time.
func (s *Service) OutingReminder(o models.Outing) string {
	static := fmt.Sprintf("🚶 Time to head to %s (%s)! Going: %s",
		o.Shop, o.At, strings.Join(o.Participants, ", "))
	if len(o.Requests) > 0 {
		asks := make([]string, len(o.Requests))
		for i, r := range o.Requests {
			asks[i] = fmt.Sprintf("• %s (for %s)", r.Text, r.From)
		}
		static += "\nDon't forget to bring back:\n" + strings.Join(asks, "\n")
	}

	if s.openaiClient == nil {
		return static
	}
	msg, err := s.openaiClient.GenerateChatMessage("outing_reminder", map[string]interface{}{
		"shop":         o.Shop,
		"time":         o.At.String(),
		"participants": o.Participants,
		"requests":     o.Requests,
	})
	if err != nil {
		s.logger.Error("Failed to generate outing reminder message: %v", err)
		return static
	}
	return msg
}

// Error texts, kept in one place so every handler answers the same way.

// ShopNotFound is the reply for any command naming an unknown shop.
func (s *Service) ShopNotFound() string { return "Shop not found" }

// OrderNotFound is the reply when no open order matches a shop.
func (s *Service) OrderNotFound() string { return "No shop found with that order" }

// UserNotInAnyOuting is the reply when a join/ask target has no outing.
func (s *Service) UserNotInAnyOuting(name string) string {
	return fmt.Sprintf("%s is not going out anywhere today", name)
}

// IdentityFailure is the reply when the user directory lookup fails.
func (s *Service) IdentityFailure() string {
	return "😢 Sorry, I don't know that user yet. They need to talk to me once first."
}

// NoItems is the reply when a contribution parses to an empty item list.
func (s *Service) NoItems() string {
	return "I couldn't find any items in that message"
}

// BadTime is the reply for an unparseable time argument.
func (s *Service) BadTime() string {
	return "I could not read that time, please use H:MM (for example 12:30)"
}

func itemLines(o models.Order) string {
	lines := make([]string, len(o.ItemNames))
	for i, name := range o.ItemNames {
		lines[i] = fmt.Sprintf("• %s — %s", name, strings.Join(o.Items[name], ", "))
	}
	return strings.Join(lines, "\n")
}
