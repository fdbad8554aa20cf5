package event

// Reason codes for quality-gate rejections. These are expected,
// high-frequency outcomes: they are counted into the run summary and never
// surfaced as errors.
type Reason string

const (
	ReasonInvalidTitle      Reason = "invalid_title"
	ReasonInvalidDate       Reason = "invalid_date"
	ReasonDateOutOfRange    Reason = "date_out_of_range"
	ReasonCityMismatch      Reason = "city_mismatch"
	ReasonUnresolvableVenue Reason = "unresolvable_venue"
)

// Rejection records why a candidate record was dropped.
type Rejection struct {
	Reason Reason
	Detail string
}

func Reject(reason Reason, detail string) *Rejection {
	return &Rejection{Reason: reason, Detail: detail}
}
