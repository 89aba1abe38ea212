package seating

import "context"

// Statistics aggregates chair occupancy for dashboards.  Occupied
// counts are by seat range, not by guest tier, so a REGULAR guest
// sitting on a VIP chair after a switch is counted in the VIP section.
type Statistics struct {
	Total            int `json:"total"`
	TotalOccupied    int `json:"total_occupied"`
	TotalAvailable   int `json:"total_available"`
	VIPTotal         int `json:"vip_total"`
	VIPOccupied      int `json:"vip_occupied"`
	VIPAvailable     int `json:"vip_available"`
	RegularTotal     int `json:"regular_total"`
	RegularOccupied  int `json:"regular_occupied"`
	RegularAvailable int `json:"regular_available"`
}

// Reporter computes occupancy statistics from the derived pool view.
// Read-only; no side effects.
type Reporter struct {
	pool *Pool
}

// NewReporter returns a Reporter over the given pool.
func NewReporter(pool *Pool) *Reporter {
	if pool == nil {
		panic("nil pool passed to NewReporter")
	}
	return &Reporter{pool: pool}
}

// Statistics counts occupied chairs per section at the instant of the
// call and derives availability from the fixed section sizes.
func (r *Reporter) Statistics(ctx context.Context) (Statistics, error) {
	vipOcc, err := r.pool.OccupiedCount(ctx, SectionVIP)
	if err != nil {
		return Statistics{}, err
	}
	regOcc, err := r.pool.OccupiedCount(ctx, SectionRegular)
	if err != nil {
		return Statistics{}, err
	}
	s := Statistics{
		VIPTotal:         SectionVIP.Size(),
		VIPOccupied:      vipOcc,
		VIPAvailable:     SectionVIP.Size() - vipOcc,
		RegularTotal:     SectionRegular.Size(),
		RegularOccupied:  regOcc,
		RegularAvailable: SectionRegular.Size() - regOcc,
	}
	s.Total = s.VIPTotal + s.RegularTotal
	s.TotalOccupied = s.VIPOccupied + s.RegularOccupied
	s.TotalAvailable = s.VIPAvailable + s.RegularAvailable
	return s, nil
}
