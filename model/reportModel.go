// model/report.go
package model

import "time"

// Report is the analytical snapshot exported as a workbook. Datasets are
// read independently and may reflect slightly different moments.
type Report struct {
	GeneratedAt          time.Time  `json:"generated_at"`
	LateCustomers        []Customer `json:"late_customers"`
	NeverRentedMovies    []Movie    `json:"never_rented_movies"`
	MostRentedThisYear   []Movie    `json:"most_rented_this_year"`
	LeastRentedLastWeek  []Movie    `json:"least_rented_last_week"`
	RankedCustomer       *Customer  `json:"ranked_customer"`
	RankedCustomerNumber int        `json:"ranked_customer_position"`
}
