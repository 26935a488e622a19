package controller

import (
	"errors"
	"net/http"

	"booksProject/logic"

	"github.com/gin-gonic/gin"
)

// 业务错误到状态码的映射，没有列出的按 400 处理
var errStatus = []struct {
	err    error
	status int
}{
	{logic.ErrBookNotFound, http.StatusNotFound},
	{logic.ErrListBooks, http.StatusInternalServerError},
	{logic.ErrInvalidID, http.StatusBadRequest},
	{logic.ErrMissingFields, http.StatusBadRequest},
	{logic.ErrBookExist, http.StatusBadRequest},
	{logic.ErrNoUpdateFields, http.StatusBadRequest},
	{logic.ErrInvalidIDOrBody, http.StatusBadRequest},
}

func ResponseError(c *gin.Context, err error) {
	for _, e := range errStatus {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": e.err.Error()})
			return
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func ResponseSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
