package models

import (
	"math"
	"time"
)

// Company is the employer a posting belongs to. Code matches a tenant's
// company filter.
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// JobPosting is a read-only posting sourced from the upstream API. It is
// never mutated by this service.
type JobPosting struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Department   string     `json:"department,omitempty"`
	Location     string     `json:"location,omitempty"`
	Description  string     `json:"description,omitempty"`
	Requirements string     `json:"requirements,omitempty"`
	Benefits     string     `json:"benefits,omitempty"`
	Salary       string     `json:"salary,omitempty"`
	Positions    int        `json:"positions"`
	ClosingDate  *time.Time `json:"closingDate,omitempty"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	Company      Company    `json:"company"`
}

// DaysUntilClosing returns the whole days left before the closing date,
// rounded up, or -1 when there is no closing date or it already passed.
func (j *JobPosting) DaysUntilClosing(now time.Time) int {
	if j.ClosingDate == nil {
		return -1
	}
	diff := j.ClosingDate.Sub(now)
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 0 {
		return -1
	}
	return days
}

// IsClosingSoon reports whether the posting closes within seven days.
func (j *JobPosting) IsClosingSoon(now time.Time) bool {
	days := j.DaysUntilClosing(now)
	return days >= 0 && days <= 7
}

// DisplaySalary falls back to "negotiable" copy when no salary is published.
func (j *JobPosting) DisplaySalary() string {
	if j.Salary == "" {
		return "ตามตกลง"
	}
	return j.Salary
}
