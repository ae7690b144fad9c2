package models

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"
)

// Group names carried in the cognito:groups claim.
const (
	GroupStudents   = "students"
	GroupProfessors = "professors"
)

// callerKey is the gin context key the auth middleware stores the Caller under.
const callerKey = "caller"

// Caller is the authenticated identity behind a request.
type Caller struct {
	Subject  string
	Username string
	Email    string
	Groups   []string
}

// IsStudent reports membership in the students group.
func (c *Caller) IsStudent() bool {
	return slices.Contains(c.Groups, GroupStudents)
}

// IsProfessor reports membership in the professors group.
func (c *Caller) IsProfessor() bool {
	return slices.Contains(c.Groups, GroupProfessors)
}

// SetCaller stores the caller on a gin context.
func SetCaller(c *gin.Context, caller *Caller) {
	c.Set(callerKey, caller)
}

// CallerFromContext extracts the caller stored by the auth middleware.
// Returns nil if the request was not authenticated.
func CallerFromContext(ctx context.Context) *Caller {
	ginCtx, ok := ctx.(*gin.Context)
	if !ok {
		return nil
	}
	if v, exists := ginCtx.Get(callerKey); exists {
		if caller, ok := v.(*Caller); ok {
			return caller
		}
	}
	return nil
}
