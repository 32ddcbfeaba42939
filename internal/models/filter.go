package models

// Filter narrows a task collection. Zero values disable the corresponding criterion.
// DeadlineFrom and DeadlineTo are inclusive ISO dates.
type Filter struct {
	Query        string   `json:"q,omitempty"             query:"q"`
	Status       Status   `json:"status,omitempty"        query:"status"`
	Priority     Priority `json:"priority,omitempty"      query:"priority"`
	Assignee     string   `json:"assignee,omitempty"      query:"assignee"`
	Tag          string   `json:"tag,omitempty"           query:"tag"`
	DeadlineFrom string   `json:"deadline_from,omitempty" query:"deadline_from"`
	DeadlineTo   string   `json:"deadline_to,omitempty"   query:"deadline_to"`
}

// IsZero reports whether no criterion is set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}
