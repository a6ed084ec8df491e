package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound kayıt bulunamadığında repository katmanından dönen ortak hatadır.
// Servis katmanı bunu kendi NotFound hatasına çevirir.
var ErrNotFound = errors.New("kayıt bulunamadı")

// IBaseRepository tüm repository'lerde ortak olan temel işlemler için arayüz.
type IBaseRepository[T any] interface {
	FindByID(ctx context.Context, id string) (*T, error)
	Count(ctx context.Context) (int64, error)
	SetAllowedSortColumns(columns []string)
	ApplySort(query *gorm.DB, sortBy, orderBy string) *gorm.DB
}

// BaseRepository generik temel repository implementasyonu.
type BaseRepository[T any] struct {
	db                 *gorm.DB
	allowedSortColumns map[string]struct{}
	defaultSortColumn  string
}

// NewBaseRepository verilen DB (veya transaction) ile yeni bir BaseRepository oluşturur.
func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{
		db:                 db,
		allowedSortColumns: map[string]struct{}{},
		defaultSortColumn:  "created_at",
	}
}

// SetAllowedSortColumns sıralamada kullanılabilecek sütunları sınırlar.
// İzin verilmeyen bir sütun istendiğinde varsayılan sütun kullanılır.
func (r *BaseRepository[T]) SetAllowedSortColumns(columns []string) {
	r.allowedSortColumns = make(map[string]struct{}, len(columns))
	for _, col := range columns {
		r.allowedSortColumns[col] = struct{}{}
	}
}

// ApplySort güvenli sıralama uygular. sortBy beyaz listede değilse
// varsayılan sütuna düşülür; orderBy yalnızca asc/desc olabilir.
func (r *BaseRepository[T]) ApplySort(query *gorm.DB, sortBy, orderBy string) *gorm.DB {
	column := r.defaultSortColumn
	if _, ok := r.allowedSortColumns[sortBy]; ok {
		column = sortBy
	}
	direction := strings.ToLower(orderBy)
	if direction != "asc" && direction != "desc" {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

// FindByID birincil anahtara göre tek kayıt bulur.
func (r *BaseRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// Count tablodaki toplam kayıt sayısını döndürür.
func (r *BaseRepository[T]) Count(ctx context.Context) (int64, error) {
	var entity T
	var count int64
	err := r.db.WithContext(ctx).Model(&entity).Count(&count).Error
	return count, err
}

var _ IBaseRepository[struct{}] = (*BaseRepository[struct{}])(nil)
