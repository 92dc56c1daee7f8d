package models

// StatCount is one dashboard counter. Error is set when its query failed;
// the remaining counters are still reported.
type StatCount struct {
	Value int    `json:"value"`
	Error string `json:"error,omitempty"`
}

// DashboardStats holds the administration dashboard totals.
type DashboardStats struct {
	TotalBookings   StatCount `json:"total_bookings"`
	PendingBookings StatCount `json:"pending_bookings"`
	TotalCustomers  StatCount `json:"total_customers"`
	ActiveServices  StatCount `json:"active_services"`
}
