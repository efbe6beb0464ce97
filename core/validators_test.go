package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitValidators(t *testing.T) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)

	type form struct {
		Name string `json:"name" validate:"notblank"`
		Date string `json:"date" validate:"required,isodate"`
	}

	tests := []struct {
		name string
		form form
		want map[string]string
	}{
		{name: "valid", form: form{Name: "Ali", Date: "2025-09-07"}},
		{name: "blank name", form: form{Name: "  ", Date: "2025-09-07"}, want: map[string]string{"name": notBlankText}},
		{name: "missing date", form: form{Name: "Ali"}, want: map[string]string{"date": requiredText}},
		{name: "bad date", form: form{Name: "Ali", Date: "07.09.2025"}, want: map[string]string{"date": isoDateText}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.form)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			var vErrs validator.ValidationErrors
			require.ErrorAs(t, err, &vErrs)
			got := make(map[string]string, len(vErrs))
			for _, fe := range vErrs {
				got[fe.Field()] = fe.Translate(translator)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
