package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Maybe string `validate:"rfc3339_optional"`
	Day   string `validate:"ymd"`
	Phone string `validate:"e164_optional"`
	Price string `validate:"decimal2"`
	Spec  string `validate:"cron_spec"`
}

func valid() sample {
	return sample{
		Maybe: "2026-01-20T15:00:00Z",
		Day:   "2026-01-20",
		Phone: "+33612345678",
		Price: "1299.90",
		Spec:  "0 9 * * 1-5",
	}
}

func TestCustomValidations_Valid(t *testing.T) {
	assert.NoError(t, Validate.Struct(valid()))

	s := valid()
	s.Phone, s.Price, s.Spec, s.Maybe = "", "", "", ""
	assert.NoError(t, Validate.Struct(s), "optional fields accept empty strings")
}

func TestCustomValidations_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*sample)
	}{
		{"rfc3339 without zone", func(s *sample) { s.Maybe = "2026-01-20 15:00" }},
		{"bad optional rfc3339", func(s *sample) { s.Maybe = "yesterday" }},
		{"bad day", func(s *sample) { s.Day = "20/01/2026" }},
		{"phone without plus", func(s *sample) { s.Phone = "0612345678" }},
		{"three decimals", func(s *sample) { s.Price = "1.999" }},
		{"seventeen digits", func(s *sample) { s.Price = "12345678901234567" }},
		{"bad cron", func(s *sample) { s.Spec = "every morning" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			assert.Error(t, Validate.Struct(s))
		})
	}
}

func TestCronParser_AcceptsAllForms(t *testing.T) {
	for _, spec := range []string{"30 7 * * 1-5", "0 30 7 * * 1-5", "@daily", "@every 1h"} {
		_, err := CronParser.Parse(spec)
		assert.NoError(t, err, spec)
	}
}
