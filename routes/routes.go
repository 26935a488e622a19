/**
  @Go version: 1.19
  @project: booksProject
  @ide: GoLand
  @file: routes.go
  @author: Lido
  @time: 2026-10-19 15:10
  @description: 路由注册
*/
package routes

import (
	"net/http"

	"booksProject/controller"
	"booksProject/dao"
	"booksProject/logger"
	"booksProject/logic"
	"booksProject/settings"

	"github.com/gin-gonic/gin"
)

func Setup(mode string, store dao.Store) *gin.Engine {
	if mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	// /books 和 /books/ 是两条不同的路由，不要互相重定向
	r.RedirectTrailingSlash = false
	r.Use(logger.GinLogger(), logger.GinRecovery(true))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.String(http.StatusOK, settings.Conf.Version)
	})

	bc := controller.NewBookController(logic.NewBookLogic(store))
	// *id 会把 /books/ 后面的内容（包括斜杠）原样交给处理函数
	r.GET("/books", bc.ListBooksHandler)
	r.POST("/books", bc.CreateBookHandler)
	r.GET("/books/*id", bc.GetBookHandler)
	r.PUT("/books/*id", bc.UpdateBookHandler)
	r.DELETE("/books/*id", bc.DeleteBookHandler)

	r.NoRoute(controller.NotFoundHandler)
	return r
}
