// Package handler contains the gin handlers for the REST surface. Each
// handler depends on small consumer-side interfaces so tests can swap in
// fakes without a database.
package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RefChecker reports whether a referenced row exists. Used to validate
// foreign keys (goal_id, milestone_id, assignee_id) before writes.
type RefChecker interface {
	Exists(ctx context.Context, id int) (bool, error)
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// intQuery parses an optional integer query parameter. Absent or empty
// means zero, which the repositories treat as "no filter".
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// validProgress checks the 0-100 bound enforced on every progress field.
func validProgress(p int) bool {
	return p >= 0 && p <= 100
}
