package handlers

import (
	"strconv"

	"brasa_ops_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Actor is the authenticated caller as resolved from JWT claims by the auth
// middleware.
type Actor struct {
	UserID    int64
	Username  string
	Role      string
	StoreID   int64
	CompanyID string
}

// actorFromContext collects the claim values the auth middleware stored on the
// gin context.
func actorFromContext(c *gin.Context) Actor {
	actor := Actor{}
	if v, ok := c.Get("userID"); ok {
		actor.UserID, _ = v.(int64)
	}
	if v, ok := c.Get("username"); ok {
		actor.Username, _ = v.(string)
	}
	if v, ok := c.Get("userRole"); ok {
		actor.Role, _ = v.(string)
	}
	if v, ok := c.Get("storeID"); ok {
		actor.StoreID, _ = v.(int64)
	}
	if v, ok := c.Get("companyID"); ok {
		actor.CompanyID, _ = v.(string)
	}
	return actor
}

// resolveStoreID returns the store the request operates on: the caller's own
// store, or the store_id query override when a director/admin drills into a
// specific location. Non-privileged callers cannot cross stores.
func resolveStoreID(c *gin.Context, actor Actor) int64 {
	storeID := actor.StoreID
	if override := c.Query("store_id"); override != "" && middleware.IsPrivileged(actor.Role) {
		if id, err := strconv.ParseInt(override, 10, 64); err == nil {
			storeID = id
		}
	}
	return storeID
}
