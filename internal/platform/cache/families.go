package cache

import (
	"context"
	"log/slog"

	"hrms/internal/platform/events"
)

// List families. Each names one cached list endpoint. The user list is
// never cached: it carries decrypted identity and bank fields.
const (
	Departments  = "departments"
	Designations = "designations"
	Policies     = "policies"
	Salaries     = "salaries"
	PayrollItems = "payroll-items"
)

// affected lists which cached lists embed data touched by an event. List
// views carry employee counts, manager and department summaries, so one
// change fans out to several families.
var affected = map[string][]string{
	events.DepartmentCreated:  {Departments},
	events.DepartmentUpdated:  {Departments, Designations, Policies, Salaries},
	events.DepartmentDeleted:  {Departments, Designations, Policies, Salaries},
	events.DesignationCreated: {Designations},
	events.DesignationUpdated: {Designations, Salaries},
	events.DesignationDeleted: {Designations, Salaries},
	events.PolicyCreated:      {Policies},
	events.PolicyUpdated:      {Policies},
	events.PolicyDeleted:      {Policies},
	events.UserCreated:        {Departments, Designations},
	events.UserUpdated:        {Departments, Designations, Salaries},
	events.SalaryCreated:      {Salaries},
	events.SalaryUpdated:      {Salaries},
	events.PayrollItemCreated: {PayrollItems},
	events.PayrollItemUpdated: {PayrollItems},
	events.PayrollItemDeleted: {PayrollItems},
}

func Affected(event string) []string {
	return affected[event]
}

// Changed retires every list the committed event touches. It runs on the
// request path before the response, so a read that follows the write
// never sees the old list. Failures are logged; the write already stands.
func (c *Cache) Changed(ctx context.Context, event string) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx, Affected(event)...); err != nil {
		slog.Warn("cache invalidation failed", "event", event, "err", err)
	}
}
