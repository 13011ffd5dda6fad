package resthttp

import (
	"errors"
	"strconv"
	"strings"
)

const rangePrefix = "bytes="

var (
	errMalformedRange     = errors.New("malformed range header")
	errRangeUnsatisfiable = errors.New("range not satisfiable")
)

// byteSpan — разрешённый диапазон [start; end], оба конца включительно.
type byteSpan struct {
	start int64
	end   int64
}

func (s byteSpan) length() int64 {
	return s.end - s.start + 1
}

// resolveRange разбирает заголовок "Range: bytes=start-end" для содержимого
// длины size. Пропущенный start — это 0, пропущенный end — конец содержимого.
// Запрос нескольких диапазонов не поддерживается и отклоняется целиком.
// Итоговый диапазон ужимается до maxSpan: клиент получает валидный, но
// укороченный 206 и докачивает остаток следующими запросами.
func resolveRange(header string, size, maxSpan int64) (byteSpan, error) {
	if !strings.HasPrefix(header, rangePrefix) {
		return byteSpan{}, errMalformedRange
	}

	spec := strings.TrimSpace(strings.TrimPrefix(header, rangePrefix))
	if strings.Contains(spec, ",") {
		return byteSpan{}, errRangeUnsatisfiable
	}

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return byteSpan{}, errMalformedRange
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	span := byteSpan{start: 0, end: size - 1}
	if startStr != "" {
		v, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil || v < 0 {
			return byteSpan{}, errMalformedRange
		}
		span.start = v
	}
	if endStr != "" {
		v, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || v < 0 {
			return byteSpan{}, errMalformedRange
		}
		span.end = v
	}

	if span.end > size-1 {
		span.end = size - 1
	}
	if span.start >= size || span.start > span.end {
		return byteSpan{}, errRangeUnsatisfiable
	}
	if maxSpan > 0 && span.length() > maxSpan {
		span.end = span.start + maxSpan - 1
	}

	return span, nil
}
