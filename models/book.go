package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookID 存储层的主键类型，所有后端统一使用 ObjectID
type BookID = primitive.ObjectID

// Book 存储中的一条记录
type Book struct {
	ID     BookID `bson:"_id,omitempty"`
	Title  string `bson:"title"`
	Author string `bson:"author"`
	Year   int    `bson:"year"`
}

// BookView 对外返回的书籍信息，id 一律转成字符串
type BookView struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

func (b *Book) View() *BookView {
	return &BookView{
		ID:     b.ID.Hex(),
		Title:  b.Title,
		Author: b.Author,
		Year:   b.Year,
	}
}

// BookFilter 查询条件，零值字段不参与过滤
type BookFilter struct {
	ID    BookID
	Title string
}

// BookFields 部分更新的字段，零值表示未提供
type BookFields struct {
	Title  string
	Author string
	Year   int
}

func (f *BookFields) IsEmpty() bool {
	return f.Title == "" && f.Author == "" && f.Year == 0
}

// BookUpdated 更新成功后只回显实际修改的字段
type BookUpdated struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// ParseBookID 把路径里的字符串解析成 BookID，格式不对直接返回错误
func ParseBookID(raw string) (BookID, error) {
	return primitive.ObjectIDFromHex(raw)
}
