package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DayTime is a wall-clock time of day (hour and minute). Orders and outings
// are always scheduled for today, so no date component is carried.
type DayTime struct {
	Hour   int
	Minute int
}

// ParseDayTime parses a "H:MM" or "HH:MM" string.
func ParseDayTime(s string) (DayTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return DayTime{}, errors.Errorf("invalid time %q", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return DayTime{}, errors.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 || minute < 0 || minute > 59 {
		return DayTime{}, errors.Errorf("invalid minute in %q", s)
	}
	return DayTime{Hour: hour, Minute: minute}, nil
}

func (t DayTime) String() string {
	return strconv.Itoa(t.Hour) + ":" + twoDigits(t.Minute)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// Order is a delivery order being collected for a shop. Items maps an item
// description to the display names of everyone who asked for it, in the order
// they asked; the same name appears twice if someone orders twice. ItemNames
// preserves first-mention order so listings render deterministically.
type Order struct {
	ChatID    int64
	Shop      string
	At        DayTime
	Initiator string
	ItemNames []string
	Items     map[string][]string
	OpenedAt  time.Time
}

// Clone returns a deep copy safe to hand out of the store's lock.
func (o Order) Clone() Order {
	c := o
	c.ItemNames = append([]string(nil), o.ItemNames...)
	c.Items = make(map[string][]string, len(o.Items))
	for name, who := range o.Items {
		c.Items[name] = append([]string(nil), who...)
	}
	return c
}

// Outing is an in-person trip to a shop. The declarer is always the first
// participant; requests are favors other users asked the group to bring back.
type Outing struct {
	ChatID       int64
	Shop         string
	At           DayTime
	Participants []string
	Requests     []Request
	OpenedAt     time.Time
}

// Request is one "bring me back X" ask attached to an outing.
type Request struct {
	From string
	Text string
}

// Clone returns a deep copy safe to hand out of the store's lock.
func (o Outing) Clone() Outing {
	c := o
	c.Participants = append([]string(nil), o.Participants...)
	c.Requests = append([]Request(nil), o.Requests...)
	return c
}

// JournalRecord is the on-disk trace of one fired reminder.
type JournalRecord struct {
	Kind    string    `json:"kind"`
	Shop    string    `json:"shop"`
	At      string    `json:"at"`
	Summary string    `json:"summary"`
	FiredAt time.Time `json:"fired_at"`
}
