package common

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"portal/internal/appers"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Version версия сервиса, переопределяется при сборке через -ldflags
var Version = "0.1.0"

var (
	// допустимы: "123", "123.4", "123,45", "+0.99", "-10", пробелы по краям
	reDec = regexp.MustCompile(`^\s*([+-])?(\d+)(?:[.,](\d+))?\s*$`)

	maxIntDigits = 16
	maxScale     = 2
)

// DecimalFromString2Strict парсит строку в точное десятичное число
// с масштабом не более 2 и целой частью до 16 знаков.
// Ничего не округляет: если больше 2 знаков после запятой - вернёт ошибку.
// Пустая строка - (zero, false, nil).
func DecimalFromString2Strict(s string) (primitive.Decimal128, bool, error) {
	var zero primitive.Decimal128

	s = strings.TrimSpace(s)
	if s == "" {
		return zero, false, nil
	}

	m := reDec.FindStringSubmatch(s)
	if m == nil {
		return zero, false, appers.ErrFormat
	}
	sign := m[1]
	intPart := trimZeros(m[2])
	frac := m[3]

	if len(frac) > maxScale {
		return zero, false, appers.ErrScale
	}
	if len(intPart) > maxIntDigits {
		return zero, false, appers.ErrPrecision
	}

	switch len(frac) {
	case 0:
		frac = "00"
	case 1:
		frac += "0"
	}
	if sign == "+" {
		sign = ""
	}

	d, err := primitive.ParseDecimal128(sign + intPart + "." + frac)
	if err != nil {
		return zero, false, err
	}
	return d, true, nil
}

func trimZeros(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}

func PgInterval(d time.Duration) string {
	sec := int64(d / time.Second)
	return fmt.Sprintf("%d seconds", sec)
}

func NextBackoffWithJitter(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 20 {
		attempts = 20
	}

	base := time.Second << attempts

	limit := 30 * time.Minute
	if base > limit {
		base = limit
	}

	jitter := time.Duration(rand.Int63n(int64(base / 2)))

	return base/2 + jitter
}

func SleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LoadLocation как time.LoadLocation, пустое имя - UTC
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
