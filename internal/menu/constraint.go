package menu

import (
	"encoding/json"
	"fmt"
	"time"
)

// ConstraintKind enumerates the order constraint variants.
type ConstraintKind string

const (
	ConstraintItemQuantity ConstraintKind = "ItemQuantity"
	ConstraintOrderTotal   ConstraintKind = "OrderTotal"
	ConstraintTime         ConstraintKind = "Time"
)

// OrderConstraint is a tagged union over the three constraint forms. Exactly
// one payload field is set, chosen by Kind.
type OrderConstraint struct {
	Kind         ConstraintKind
	ItemQuantity *ItemQuantityConstraint
	OrderTotal   *OrderTotalConstraint
	Time         *TimeConstraint
}

// ItemQuantityConstraint holds when the summed quantity of order lines whose
// item matches Selection falls within [MinimumQuantity, MaximumQuantity].
type ItemQuantityConstraint struct {
	Selection       Selector `json:"selection"`
	MinimumQuantity int      `json:"minimum_quantity"`
	MaximumQuantity int      `json:"maximum_quantity"`
}

// OrderTotalConstraint holds when the order subtotal (before the discount
// under evaluation) falls within [MinimumAmount, MaximumAmount] cents.
type OrderTotalConstraint struct {
	MinimumAmount int `json:"minimum_amount"`
	MaximumAmount int `json:"maximum_amount"`
}

// TimeConstraint holds when now's weekday is in DaysOfWeek and the second of
// day falls in the half-open window [StartTime, StopTime). A window crossing
// midnight is expressed as two constraints.
type TimeConstraint struct {
	DaysOfWeek []Weekday `json:"day_of_week"`
	StartTime  int       `json:"start_time"`
	StopTime   int       `json:"stop_time"`
}

// Contains evaluates the window against an injected clock value.
func (c *TimeConstraint) Contains(now time.Time) bool {
	dayOK := false
	for _, day := range c.DaysOfWeek {
		if day.Std() == now.Weekday() {
			dayOK = true
			break
		}
	}
	if !dayOK {
		return false
	}
	second := now.Hour()*3600 + now.Minute()*60 + now.Second()
	return second >= c.StartTime && second < c.StopTime
}

// Weekday is the snapshot's day-of-week token ("Mon".."Sun").
type Weekday string

const (
	Mon Weekday = "Mon"
	Tue Weekday = "Tue"
	Wed Weekday = "Wed"
	Thu Weekday = "Thu"
	Fri Weekday = "Fri"
	Sat Weekday = "Sat"
	Sun Weekday = "Sun"
)

var weekdayStd = map[Weekday]time.Weekday{
	Mon: time.Monday,
	Tue: time.Tuesday,
	Wed: time.Wednesday,
	Thu: time.Thursday,
	Fri: time.Friday,
	Sat: time.Saturday,
	Sun: time.Sunday,
}

// Std maps the token to the standard library weekday. Unknown tokens map to
// an impossible value so they never match.
func (w Weekday) Std() time.Weekday {
	if std, ok := weekdayStd[w]; ok {
		return std
	}
	return time.Weekday(-1)
}

// Wire form is externally tagged: {"ItemQuantity": {...}} |
// {"OrderTotal": {...}} | {"Time": {...}}.

func (c OrderConstraint) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ConstraintItemQuantity:
		return json.Marshal(map[string]*ItemQuantityConstraint{"ItemQuantity": c.ItemQuantity})
	case ConstraintOrderTotal:
		return json.Marshal(map[string]*OrderTotalConstraint{"OrderTotal": c.OrderTotal})
	case ConstraintTime:
		return json.Marshal(map[string]*TimeConstraint{"Time": c.Time})
	}
	return nil, fmt.Errorf("menu: cannot marshal constraint kind %q", c.Kind)
}

func (c *OrderConstraint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("menu: order constraint: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("menu: order constraint must carry exactly one variant, got %d", len(raw))
	}
	for key, payload := range raw {
		switch ConstraintKind(key) {
		case ConstraintItemQuantity:
			c.Kind = ConstraintItemQuantity
			c.ItemQuantity = &ItemQuantityConstraint{}
			return json.Unmarshal(payload, c.ItemQuantity)
		case ConstraintOrderTotal:
			c.Kind = ConstraintOrderTotal
			c.OrderTotal = &OrderTotalConstraint{}
			return json.Unmarshal(payload, c.OrderTotal)
		case ConstraintTime:
			c.Kind = ConstraintTime
			c.Time = &TimeConstraint{}
			return json.Unmarshal(payload, c.Time)
		default:
			return fmt.Errorf("menu: unknown constraint variant %q", key)
		}
	}
	return nil
}
