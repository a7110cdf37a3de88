// Package crm holds the static demo book the desk views render: contacts,
// deals and recent activity, plus the aggregation behind the dashboard.
package crm

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Stage is a deal's position in the sales pipeline.
type Stage string

const (
	StageLead        Stage = "lead"
	StageQualified   Stage = "qualified"
	StageProposal    Stage = "proposal"
	StageNegotiation Stage = "negotiation"
	StageWon         Stage = "won"
	StageLost        Stage = "lost"
)

// Stages lists pipeline stages in display order.
var Stages = []Stage{StageLead, StageQualified, StageProposal, StageNegotiation, StageWon, StageLost}

// ErrInvalidDeal is returned by Summarize for deals the dashboard cannot
// aggregate.
var ErrInvalidDeal = errors.New("invalid deal")

// Contact is a person in the book.
type Contact struct {
	ID      string
	Name    string
	Company string
	Email   string
	Phone   string
	Owner   string
}

// Deal is an opportunity attached to a contact.
type Deal struct {
	ID        string
	Title     string
	ContactID string
	Stage     Stage
	Value     int64 // whole currency units
	Owner     string
	UpdatedAt time.Time
}

// Activity is a logged touchpoint.
type Activity struct {
	At      time.Time
	Kind    string // call, email, meeting, note
	Subject string
	Contact string
}

// Book is the demo dataset.
type Book struct {
	Contacts   []Contact
	Deals      []Deal
	Activities []Activity
}

// StageTotal aggregates the deals in one stage.
type StageTotal struct {
	Stage Stage
	Count int
	Value int64
}

// Summary is what the dashboard shows.
type Summary struct {
	Contacts      int
	OpenDeals     int
	OpenValue     int64
	WonValue      int64
	WinRate       float64 // won / (won + lost), 0 when nothing closed
	Stages        []StageTotal
	TopOwner      string
	RecentActions []Activity
}

// Summarize validates the book and aggregates it. recent caps the number
// of activities returned, newest first.
func Summarize(b Book, recent int) (*Summary, error) {
	byStage := make(map[Stage]*StageTotal, len(Stages))
	for _, st := range Stages {
		byStage[st] = &StageTotal{Stage: st}
	}

	s := &Summary{Contacts: len(b.Contacts)}
	ownerValue := make(map[string]int64)
	var won, lost int

	for _, d := range b.Deals {
		total, ok := byStage[d.Stage]
		if !ok {
			return nil, fmt.Errorf("%w: %s has unknown stage %q", ErrInvalidDeal, d.ID, d.Stage)
		}
		if d.Value < 0 {
			return nil, fmt.Errorf("%w: %s has negative value %d", ErrInvalidDeal, d.ID, d.Value)
		}
		total.Count++
		total.Value += d.Value

		switch d.Stage {
		case StageWon:
			won++
			s.WonValue += d.Value
			ownerValue[d.Owner] += d.Value
		case StageLost:
			lost++
		default:
			s.OpenDeals++
			s.OpenValue += d.Value
		}
	}

	for _, st := range Stages {
		s.Stages = append(s.Stages, *byStage[st])
	}
	if won+lost > 0 {
		s.WinRate = float64(won) / float64(won+lost)
	}

	var best int64 = -1
	for owner, v := range ownerValue {
		if v > best || (v == best && owner < s.TopOwner) {
			best, s.TopOwner = v, owner
		}
	}

	acts := append([]Activity(nil), b.Activities...)
	sort.SliceStable(acts, func(i, j int) bool { return acts[i].At.After(acts[j].At) })
	if recent >= 0 && len(acts) > recent {
		acts = acts[:recent]
	}
	s.RecentActions = acts

	return s, nil
}

// ContactByID returns the contact with id, if present.
func (b Book) ContactByID(id string) (Contact, bool) {
	for _, c := range b.Contacts {
		if c.ID == id {
			return c, true
		}
	}
	return Contact{}, false
}
