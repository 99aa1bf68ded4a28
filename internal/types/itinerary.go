package types

// SlotType identifies the canonical segment of a day a slot occupies.
type SlotType string

const (
	SlotBreakfast SlotType = "breakfast"
	SlotMorning   SlotType = "morning"
	SlotLunch     SlotType = "lunch"
	SlotAfternoon SlotType = "afternoon"
	SlotDinner    SlotType = "dinner"
	SlotEvening   SlotType = "evening"
)

// SlotBehavior classifies how flexible a slot is when the schedule is edited.
type SlotBehavior string

const (
	BehaviorFlex   SlotBehavior = "flex"
	BehaviorMeal   SlotBehavior = "meal"
	BehaviorAnchor SlotBehavior = "anchor"
	BehaviorTravel SlotBehavior = "travel"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IsZero reports whether the point is unset. (0,0) is open ocean and never a
// real venue location in this system.
func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

// TimeRange holds 24h clock strings, e.g. "09:00".
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Place struct {
	ID           string      `json:"id,omitempty"`
	Name         string      `json:"name"`
	Coordinates  Coordinates `json:"coordinates"`
	Neighborhood string      `json:"neighborhood,omitempty"`
	Cost         string      `json:"cost,omitempty"`
}

type Activity struct {
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Category        string   `json:"category,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	Place           Place    `json:"place"`
	Tags            []string `json:"tags,omitempty"`
	IsFree          bool     `json:"is_free,omitempty"`
	Source          string   `json:"source,omitempty"`
}

// ActivityOption is one ranked candidate for a slot. Options are never
// deleted, only superseded by reordering the containing slot's sequence.
type ActivityOption struct {
	ID           string   `json:"id"`
	Rank         int      `json:"rank"`
	Score        float64  `json:"score"` // 0-150, >100 means bonus-adjusted
	Selected     bool     `json:"selected,omitempty"`
	Activity     Activity `json:"activity"`
	MatchReasons []string `json:"match_reasons,omitempty"`
	Tradeoffs    []string `json:"tradeoffs,omitempty"`
}

type Fragility struct {
	WeatherSensitivity string `json:"weather_sensitivity,omitempty"`
	CrowdSensitivity   string `json:"crowd_sensitivity,omitempty"`
	BookingRequired    bool   `json:"booking_required,omitempty"`
	TicketType         string `json:"ticket_type,omitempty"`
}

type Commute struct {
	Mode            string  `json:"mode,omitempty"`
	DurationMinutes int     `json:"duration_minutes,omitempty"`
	DistanceKm      float64 `json:"distance_km,omitempty"`
}

type Slot struct {
	ID              string           `json:"slot_id"`
	Type            SlotType         `json:"slot_type"`
	TimeRange       TimeRange        `json:"time_range"`
	Options         []ActivityOption `json:"options"`
	Behavior        SlotBehavior     `json:"behavior"`
	Fragility       *Fragility       `json:"fragility,omitempty"`
	DependsOn       []string         `json:"depends_on,omitempty"`
	Locked          bool             `json:"locked,omitempty"`
	CommuteFromPrev *Commute         `json:"commute_from_prev,omitempty"`
}

// First returns the slot's top-ranked option, or nil when the slot is empty.
func (s *Slot) First() *ActivityOption {
	if len(s.Options) == 0 {
		return nil
	}
	return &s.Options[0]
}

// IsMeal reports whether the slot holds a meal, by behavior or by type.
func (s *Slot) IsMeal() bool {
	return s.Behavior == BehaviorMeal ||
		s.Type == SlotBreakfast || s.Type == SlotLunch || s.Type == SlotDinner
}

type Accommodation struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

type Day struct {
	DayNumber     int            `json:"day_number"`
	Date          string         `json:"date"` // "2006-01-02"
	City          string         `json:"city"`
	Title         string         `json:"title,omitempty"`
	Slots         []Slot         `json:"slots"`
	Accommodation *Accommodation `json:"accommodation,omitempty"`
}

// FindSlot returns the slot with the given ID, or nil.
func (d *Day) FindSlot(slotID string) *Slot {
	for i := range d.Slots {
		if d.Slots[i].ID == slotID {
			return &d.Slots[i]
		}
	}
	return nil
}

type Itinerary struct {
	ID              string   `json:"id,omitempty"`
	Destination     string   `json:"destination"`
	Country         string   `json:"country,omitempty"`
	Days            []Day    `json:"days"`
	GeneralTips     []string `json:"general_tips,omitempty"`
	EstimatedBudget string   `json:"estimated_budget,omitempty"`
}

// DayByDate returns the day with the given calendar date, or nil.
func (it *Itinerary) DayByDate(date string) *Day {
	for i := range it.Days {
		if it.Days[i].Date == date {
			return &it.Days[i]
		}
	}
	return nil
}

// DayByNumber returns the day with the given 1-based number, or nil.
func (it *Itinerary) DayByNumber(n int) *Day {
	for i := range it.Days {
		if it.Days[i].DayNumber == n {
			return &it.Days[i]
		}
	}
	return nil
}

// FindSlot locates a slot anywhere in the itinerary and returns it together
// with its day, or (nil, nil).
func (it *Itinerary) FindSlot(slotID string) (*Day, *Slot) {
	for i := range it.Days {
		if s := it.Days[i].FindSlot(slotID); s != nil {
			return &it.Days[i], s
		}
	}
	return nil, nil
}

// Clone returns a deep copy. Pipeline stages operate on copies so that each
// stage yields a new Itinerary value and the input is never mutated.
func (it Itinerary) Clone() Itinerary {
	out := it
	out.Days = make([]Day, len(it.Days))
	for i, d := range it.Days {
		out.Days[i] = d.Clone()
	}
	out.GeneralTips = cloneStrings(it.GeneralTips)
	return out
}

func (d Day) Clone() Day {
	out := d
	out.Slots = make([]Slot, len(d.Slots))
	for i, s := range d.Slots {
		out.Slots[i] = s.Clone()
	}
	if d.Accommodation != nil {
		acc := *d.Accommodation
		out.Accommodation = &acc
	}
	return out
}

func (s Slot) Clone() Slot {
	out := s
	out.Options = make([]ActivityOption, len(s.Options))
	for i, o := range s.Options {
		out.Options[i] = o.Clone()
	}
	if s.Fragility != nil {
		f := *s.Fragility
		out.Fragility = &f
	}
	if s.CommuteFromPrev != nil {
		c := *s.CommuteFromPrev
		out.CommuteFromPrev = &c
	}
	out.DependsOn = cloneStrings(s.DependsOn)
	return out
}

func (o ActivityOption) Clone() ActivityOption {
	out := o
	out.MatchReasons = cloneStrings(o.MatchReasons)
	out.Tradeoffs = cloneStrings(o.Tradeoffs)
	out.Activity.Tags = cloneStrings(o.Activity.Tags)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
