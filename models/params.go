package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// Year 出版年份，JSON 里写成 1965 或 1965.0 都可以，带小数部分的拒绝
type Year int

func (y *Year) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return fmt.Errorf("year %v is not an integer", f)
	}
	*y = Year(f)
	return nil
}

// ParamCreateBook 创建书籍的请求参数，空字符串和 0 都视为缺失
type ParamCreateBook struct {
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
	Year   Year   `json:"year" binding:"required"`
}

// ParamUpdateBook 更新书籍的请求参数，只有非零值字段会被写入
type ParamUpdateBook struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   Year   `json:"year"`
}

func (p *ParamUpdateBook) Fields() *BookFields {
	return &BookFields{
		Title:  p.Title,
		Author: p.Author,
		Year:   int(p.Year),
	}
}
