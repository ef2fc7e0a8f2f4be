package core

// ProductQuery 目錄查詢條件
type ProductQuery struct {
	Query        string // 全文搜尋字串；空字串代表單純列表
	Category     string // 完全相符
	Manufacturer string // 不分大小寫的部分相符
	Limit        int64
	Offset       int64
}
