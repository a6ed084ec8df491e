package turkishsearch

import (
	"strings"
)

// Türkçe büyük/küçük harf dönüşümü SQL'in lower() fonksiyonuyla birebir
// örtüşmez (İ/ı sorunu). Bu yüzden hem aranan terim hem de sütun aynı
// karakter sadeleştirmesinden geçirilerek karşılaştırılır.

// lower() sonrası sütunda kalabilecek Türkçe karakterler ve ASCII karşılıkları.
const (
	turkishLowerFrom = "çğıöşü"
	turkishLowerTo   = "cgiosu"
)

var normalizer = strings.NewReplacer(
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
)

// Normalize aranan terimi Türkçe karakterlerden arındırıp küçük harfe indirir.
func Normalize(term string) string {
	return strings.ToLower(normalizer.Replace(term))
}

// SQLFilter verilen sütun için Türkçe duyarsız bir LIKE filtresi üretir.
// Dönen fragment ve argümanlar GORM Where(...) çağrısına doğrudan verilebilir.
func SQLFilter(column, term string) (string, []interface{}) {
	normalized := Normalize(strings.TrimSpace(term))
	fragment := "translate(lower(" + column + "), ?, ?) LIKE ?"
	args := []interface{}{turkishLowerFrom, turkishLowerTo, "%" + normalized + "%"}
	return fragment, args
}
