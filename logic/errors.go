package logic

import "errors"

// 这些错误的文本直接作为接口的 error 字段返回
var (
	ErrInvalidID       = errors.New("invalid id")
	ErrBookNotFound    = errors.New("book not found")
	ErrMissingFields   = errors.New("missing required fields (title, author, year)")
	ErrBookExist       = errors.New("book already registered")
	ErrNoUpdateFields  = errors.New("must send at least one field to update")
	ErrInvalidIDOrBody = errors.New("invalid id or malformed body")
	ErrListBooks       = errors.New("failed to list books")
)
