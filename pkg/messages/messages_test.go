package messages_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korjavin/lunchbot/pkg/messages"
	"github.com/korjavin/lunchbot/pkg/models"
	"github.com/korjavin/lunchbot/pkg/shops"
)

func sampleOrder() models.Order {
	return models.Order{
		ChatID:    1,
		Shop:      "Subway",
		At:        models.DayTime{Hour: 12, Minute: 30},
		Initiator: "Alice",
		ItemNames: []string{"Chicken Teriyaki", "Ham"},
		Items: map[string][]string{
			"Chicken Teriyaki": {"Alice"},
			"Ham":              {"Bob", "Bob"},
		},
	}
}

func TestOrderReminderStaticRendering(t *testing.T) {
	render := messages.New(nil)

	text := render.OrderReminder(sampleOrder())
	assert.Contains(t, text, "Subway")
	assert.Contains(t, text, "12:30")
	assert.Contains(t, text, "Alice")
	assert.Contains(t, text, "Chicken Teriyaki — Alice")
	assert.Contains(t, text, "Ham — Bob, Bob")

	// Without an OpenAI client the rendering is fully deterministic.
	assert.Equal(t, text, render.OrderReminder(sampleOrder()))
}

func TestOrderReminderEmptyOrder(t *testing.T) {
	render := messages.New(nil)

	o := sampleOrder()
	o.ItemNames = nil
	o.Items = map[string][]string{}

	text := render.OrderReminder(o)
	assert.Contains(t, text, "nothing was added")
}

func TestOutingReminderIncludesEveryRequest(t *testing.T) {
	render := messages.New(nil)

	o := models.Outing{
		Shop:         "Bakker Bart",
		At:           models.DayTime{Hour: 12, Minute: 0},
		Participants: []string{"Alice", "Bob"},
		Requests: []models.Request{
			{From: "Carol", Text: "bread"},
			{From: "Dave", Text: "a coffee"},
		},
	}

	text := render.OutingReminder(o)
	assert.Contains(t, text, "Bakker Bart")
	assert.Contains(t, text, "Alice, Bob")
	assert.Contains(t, text, "bread (for Carol)")
	assert.Contains(t, text, "a coffee (for Dave)")
}

func TestOrderListEmpty(t *testing.T) {
	render := messages.New(nil)
	assert.Equal(t, "Nobody is ordering anything yet", render.OrderList(nil))
}

func TestOutingListEmpty(t *testing.T) {
	render := messages.New(nil)
	assert.Equal(t, "Nobody is going out yet", render.OutingList(nil))
}

func TestMenuFallsBackWhenEmpty(t *testing.T) {
	render := messages.New(nil)

	assert.Contains(t, render.Menu(shops.Shop{Name: "Bakker Bart"}), "No menu on file")
	assert.Contains(t, render.Webpage(shops.Shop{Name: "Bakker Bart"}), "No webpage on file")

	dir := shops.Default()
	subway, err := dir.Lookup("Subway")
	require.NoError(t, err)
	assert.Contains(t, render.Menu(subway), "Chicken Teriyaki € 7,30")
	assert.Equal(t, subway.URL, render.Webpage(subway))
}

func TestOrderDescriptionStable(t *testing.T) {
	render := messages.New(nil)

	o := sampleOrder()
	assert.Equal(t, render.OrderDescription(o), render.OrderDescription(o))
	assert.Contains(t, render.OrderDescription(o), "opened by Alice")
}
