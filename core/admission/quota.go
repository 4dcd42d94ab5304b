package admission

import "time"

// Quota is the admission capacity of a department.
type Quota struct {
	Department string    `json:"department"`
	Capacity   int       `json:"capacity"`
	UpdatedAt  time.Time `json:"updated_at"` // UTC
	UpdatedBy  string    `json:"updated_by,omitempty"`
}

// QuotaAllocation is a quota split into its admission lists.
type QuotaAllocation struct {
	Quota
	DepartmentName string `json:"department_name"`
	Merit          int    `json:"merit"`
	Catchment      int    `json:"catchment"`
	ELDS           int    `json:"elds"`
	Filled         int    `json:"filled"`
	Available      int    `json:"available"`
}

// UpdateQuota holds the new capacity of a department.
type UpdateQuota struct {
	Capacity *int `json:"capacity" validate:"required,min=0,max=100000"`
}

// SplitQuota divides a capacity into merit (45%, floored), catchment (35%, floored)
// and educationally less developed states (20%, ceiled) slots.
func SplitQuota(capacity int) (merit, catchment, elds int) {
	if capacity <= 0 {
		return 0, 0, 0
	}
	merit = capacity * 45 / 100
	catchment = capacity * 35 / 100
	elds = (capacity*20 + 99) / 100
	return merit, catchment, elds
}

func allocate(q Quota, dept Department, filled int) QuotaAllocation {
	alloc := QuotaAllocation{
		Quota:          q,
		DepartmentName: dept.Name,
		Filled:         filled,
	}
	alloc.Merit, alloc.Catchment, alloc.ELDS = SplitQuota(q.Capacity)
	if filled < q.Capacity {
		alloc.Available = q.Capacity - filled
	}
	return alloc
}
