package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/product-order-api/internal/shared/errors"
)

const (
	// HeaderUser carries the identity asserted by the authenticating gateway.
	HeaderUser = "X-Authenticated-User"
	// HeaderRoles carries a comma separated role list.
	HeaderRoles = "X-Authenticated-Roles"

	callerKey = "auth.caller"
)

// Middleware resolves the caller from gateway headers and rejects anonymous requests.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := NewCaller(c.GetHeader(HeaderUser), strings.Split(c.GetHeader(HeaderRoles), ",")...)
		if !caller.Authenticated() {
			apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail(ErrUnauthenticated.Error()))
			c.Abort()
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// FromContext returns the caller stored by Middleware.
func FromContext(c *gin.Context) (Caller, bool) {
	value, ok := c.Get(callerKey)
	if !ok {
		return Caller{}, false
	}
	caller, ok := value.(Caller)
	return caller, ok
}
