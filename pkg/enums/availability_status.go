package enums

// AvailabilityStatus tags one day of a reservation timeline.
type AvailabilityStatus string

const (
	AvailabilityStatusAvailable AvailabilityStatus = "available"
	AvailabilityStatusLimited   AvailabilityStatus = "limited"
	AvailabilityStatusSoldOut   AvailabilityStatus = "sold_out"
)

// String implements fmt.Stringer.
func (s AvailabilityStatus) String() string {
	return string(s)
}
