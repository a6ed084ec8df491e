package queryparams

// Liste sorguları için varsayılan değerler.
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
	DefaultOrderBy = "desc"
)

// ListParams liste endpoint'lerinde query string'den okunan ortak parametreler.
type ListParams struct {
	Q       string `query:"q"`
	SortBy  string `query:"sort_by"`
	OrderBy string `query:"order_by"`
	Page    int    `query:"page"`
	PerPage int    `query:"per_page"`
}

// DefaultListParams verilen sıralama sütunuyla varsayılan parametreleri döndürür.
func DefaultListParams(sortBy string) ListParams {
	return ListParams{
		SortBy:  sortBy,
		OrderBy: DefaultOrderBy,
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
	}
}

// Validate parametreleri güvenli aralıklara çeker.
func (p *ListParams) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	if p.OrderBy != "asc" && p.OrderBy != "desc" {
		p.OrderBy = DefaultOrderBy
	}
}

// CalculateOffset sayfalama için OFFSET değerini hesaplar.
func (p ListParams) CalculateOffset() int {
	return (p.Page - 1) * p.PerPage
}

// CalculateTotalPages toplam kayıt sayısından sayfa sayısını hesaplar.
func CalculateTotalPages(totalCount int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	pages := int(totalCount) / perPage
	if int(totalCount)%perPage != 0 {
		pages++
	}
	return pages
}

// PaginationMeta sayfalanmış sonuçların üst verisi.
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

// PaginatedResult sayfalanmış veri ve üst veriyi birlikte taşır.
type PaginatedResult struct {
	Data any            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}
