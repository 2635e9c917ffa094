package model

// TimeSlot day and time are opaque labels compared by equality.
type TimeSlot struct {
	Day  string `csv:"day" validate:"required"`
	Time string `csv:"time" validate:"required"`
}

func (t *TimeSlot) String() string {
	return t.Day + " " + t.Time
}
