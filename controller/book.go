package controller

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"booksProject/logic"
	"booksProject/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type BookController struct {
	logic *logic.BookLogic
}

func NewBookController(l *logic.BookLogic) *BookController {
	return &BookController{logic: l}
}

// bookID 取 /books/ 之后的全部内容，不做任何校验，交给存储层解析
func bookID(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("id"), "/")
}

func (bc *BookController) ListBooksHandler(c *gin.Context) {
	books, err := bc.logic.ListBooks(c.Request.Context())
	if err != nil {
		ResponseError(c, err)
		return
	}
	ResponseSuccess(c, http.StatusOK, books)
}

func (bc *BookController) GetBookHandler(c *gin.Context) {
	book, err := bc.logic.GetBook(c.Request.Context(), bookID(c))
	if err != nil {
		ResponseError(c, err)
		return
	}
	ResponseSuccess(c, http.StatusOK, book)
}

func (bc *BookController) CreateBookHandler(c *gin.Context) {
	// 1. 获取参数和参数校验
	p := new(models.ParamCreateBook)
	if err := c.ShouldBindJSON(p); err != nil {
		// 判断err类型是否是validator内置的类型
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			zap.L().Debug("CreateBook with missing fields", zap.Error(errs))
		} else {
			zap.L().Debug("CreateBook with malformed body", zap.Error(err))
		}
		ResponseError(c, logic.ErrMissingFields)
		return
	}

	// 2. 业务逻辑
	book, err := bc.logic.CreateBook(c.Request.Context(), p)
	if err != nil {
		ResponseError(c, err)
		return
	}

	// 3. 返回值
	ResponseSuccess(c, http.StatusCreated, book)
}

func (bc *BookController) UpdateBookHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		zap.L().Debug("UpdateBook read body failed", zap.Error(err))
		ResponseError(c, logic.ErrInvalidIDOrBody)
		return
	}
	// null 解不出任何字段，按格式错误处理
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		ResponseError(c, logic.ErrInvalidIDOrBody)
		return
	}
	p := new(models.ParamUpdateBook)
	if err := binding.JSON.BindBody(body, p); err != nil {
		zap.L().Debug("UpdateBook with malformed body", zap.Error(err))
		ResponseError(c, logic.ErrInvalidIDOrBody)
		return
	}

	book, err := bc.logic.UpdateBook(c.Request.Context(), bookID(c), p)
	if err != nil {
		ResponseError(c, err)
		return
	}
	ResponseSuccess(c, http.StatusOK, book)
}

func (bc *BookController) DeleteBookHandler(c *gin.Context) {
	if err := bc.logic.DeleteBook(c.Request.Context(), bookID(c)); err != nil {
		ResponseError(c, err)
		return
	}
	ResponseSuccess(c, http.StatusOK, gin.H{"message": "book deleted successfully"})
}

// NotFoundHandler 没有匹配的路由，返回纯文本而不是 json
func NotFoundHandler(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		c.String(http.StatusNotFound, "Path not found in %s method", c.Request.Method)
	default:
		c.String(http.StatusNotFound, "Request type not found")
	}
}
