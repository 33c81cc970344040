package handlers

import (
	"github.com/gin-gonic/gin"
)

const tenantParam = "tenant_id"

func tenantID(c *gin.Context) string {
	return c.Param(tenantParam)
}
