package service

import "strings"

// биржа принимает интервалы в верхнем регистре с единицей
var intervalMap = map[string]string{
	"1m":  "1M",
	"5m":  "5M",
	"15m": "15M",
	"30m": "30M",
	"1h":  "1H",
	"4h":  "4H",
	"8h":  "8H",
	"12h": "12H",
	"1d":  "1D",
}

// MapInterval переводит короткую запись таймфрейма в формат биржи.
// Незнакомая строка проходит как есть, в верхнем регистре.
func MapInterval(interval string) string {
	if mapped, ok := intervalMap[strings.ToLower(interval)]; ok {
		return mapped
	}
	return strings.ToUpper(interval)
}
