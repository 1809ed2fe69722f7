package rental

import "encoding/json"

// Direction selects which end of a stay a reservation lookup matches on.
type Direction int

const (
	CheckIn Direction = iota
	CheckOut
)

func (d Direction) String() string {
	if d == CheckOut {
		return "checkout"
	}
	return "checkin"
}

// Reservation is a guest stay at one property. Dates are YYYY-MM-DD.
type Reservation struct {
	PropertyID   ID
	CheckinDate  string
	CheckoutDate string
}

type wireReservation struct {
	PropertyID   ID      `json:"property_id"`
	CheckinDate  *string `json:"checkin_date"`
	CheckoutDate *string `json:"checkout_date"`
}

func DecodeReservation(raw json.RawMessage) (Reservation, error) {
	var w wireReservation
	if err := json.Unmarshal(raw, &w); err != nil {
		return Reservation{}, err
	}
	return Reservation{
		PropertyID:   w.PropertyID,
		CheckinDate:  orDefault(w.CheckinDate, ""),
		CheckoutDate: orDefault(w.CheckoutDate, ""),
	}, nil
}

// LastCheckout returns the latest checkout date among the reservations that
// belong to property. ok is false when none match.
func LastCheckout(rs []Reservation, property ID) (date string, ok bool) {
	for _, r := range rs {
		if r.PropertyID != property || r.CheckoutDate == "" {
			continue
		}
		// ISO dates order lexicographically.
		if !ok || r.CheckoutDate > date {
			date = r.CheckoutDate
			ok = true
		}
	}
	return date, ok
}
