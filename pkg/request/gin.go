// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package request

import (
	"github.com/gin-gonic/gin"
)

// UsernameKey is the gin context key holding the authenticated user name.
const UsernameKey = "username"

type ginRequest struct {
	*httpRequest
	c *gin.Context
}

// FromGin adapts a gin request. The route template is reported as servlet
// path and the user stored under UsernameKey as remote user.
func FromGin(c *gin.Context, opts ...HTTPOption) Request {
	if c == nil || c.Request == nil {
		return nil
	}
	return &ginRequest{httpRequest: newHTTPRequest(c.Request, opts...), c: c}
}

func (g *ginRequest) HTTP() (HTTPRequest, bool) {
	return g, true
}

func (g *ginRequest) ServletPath() string {
	return g.c.FullPath()
}

func (g *ginRequest) RemoteUser() string {
	if user := g.c.GetString(UsernameKey); user != "" {
		return user
	}
	return g.httpRequest.RemoteUser()
}

// RemoteAddr honours gin's trusted proxy configuration.
func (g *ginRequest) RemoteAddr() string {
	if ip := g.c.ClientIP(); ip != "" {
		return ip
	}
	return g.httpRequest.RemoteAddr()
}
