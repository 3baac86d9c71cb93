// Package pillar defines the nine relational constructs a profile is scored
// on, their fixed relative weights, and the subset explored by the interview.
package pillar

import (
	"fmt"
	"sort"
	"strconv"
)

// ID identifies a pillar, 1 through 9.
type ID int

const (
	ConflictRepair   ID = 1
	Attachment       ID = 2
	Accountability   ID = 3
	Reliability      ID = 4
	Responsiveness   ID = 5
	DesireBoundaries ID = 6
	FriendshipJoy    ID = 7
	SharedVision     ID = 8
	StressResilience ID = 9
)

// Pillar is a named construct with its weight toward the overall score.
type Pillar struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Weight      int    `json:"weight"` // relative weight, all weights sum to 100
	Interviewed bool   `json:"interviewed"`
	Description string `json:"description"`
}

var catalogue = []Pillar{
	{ConflictRepair, "Conflict & Repair", 15, true, "How disagreements escalate, de-escalate and get repaired."},
	{Attachment, "Attachment", 12, false, "Comfort with closeness and dependence; anxiety about abandonment."},
	{Accountability, "Accountability", 12, true, "Owning mistakes and their impact without deflecting."},
	{Reliability, "Reliability", 10, true, "Following through on commitments, big and small."},
	{Responsiveness, "Responsiveness", 12, true, "Noticing and turning toward a partner's bids and needs."},
	{DesireBoundaries, "Desire & Boundaries", 10, true, "Expressing wants and limits, and honouring a partner's."},
	{FriendshipJoy, "Friendship & Joy", 9, false, "Play, shared interests and enjoyment of each other."},
	{SharedVision, "Shared Vision", 10, false, "Alignment on values, goals and the shape of a life together."},
	{StressResilience, "Stress Resilience", 10, true, "Staying regulated and connected under external pressure."},
}

// All returns every pillar in id order.
func All() []Pillar {
	out := make([]Pillar, len(catalogue))
	copy(out, catalogue)
	return out
}

// Interviewed returns the ids of the constructs explored by the interview:
// 1, 3, 4, 5, 6 and 9. Pillars 2, 7 and 8 are scored from the instruments
// and the matching judge only.
func Interviewed() []ID {
	var ids []ID
	for _, p := range catalogue {
		if p.Interviewed {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Get returns the pillar with the given id.
func Get(id ID) (Pillar, bool) {
	if id < 1 || int(id) > len(catalogue) {
		return Pillar{}, false
	}
	return catalogue[id-1], true
}

// Name returns the display name of id, or "Pillar N" if unknown.
func (id ID) Name() string {
	if p, ok := Get(id); ok {
		return p.Name
	}
	return fmt.Sprintf("Pillar %d", int(id))
}

// String implements fmt.Stringer using the numeric id, which is also the
// key used in the judge's JSON contract.
func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// IsInterviewed reports whether id is one of the interview constructs.
func (id ID) IsInterviewed() bool {
	p, ok := Get(id)
	return ok && p.Interviewed
}

// Parse converts a decimal string into an ID.
func Parse(s string) (ID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid pillar id %q: %w", s, err)
	}
	id := ID(n)
	if _, ok := Get(id); !ok {
		return 0, fmt.Errorf("invalid pillar id %d: must be 1-9", n)
	}
	return id, nil
}

// Sorted returns the ids of a set in ascending order.
func Sorted(set map[ID]bool) []ID {
	ids := make([]ID, 0, len(set))
	for id, ok := range set {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Overall computes the weighted mean of the given pillar scores. Pillars
// without a score are left out of both numerator and denominator; an
// empty map yields 0.
func Overall(scores map[ID]float64) float64 {
	totalWeight := 0
	weighted := 0.0
	for _, p := range catalogue {
		s, ok := scores[p.ID]
		if !ok {
			continue
		}
		totalWeight += p.Weight
		weighted += s * float64(p.Weight)
	}
	if totalWeight == 0 {
		return 0
	}
	return weighted / float64(totalWeight)
}
