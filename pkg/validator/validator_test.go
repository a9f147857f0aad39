package validator_test

import (
	"testing"

	"dreamdrape/pkg/validator"

	"github.com/stretchr/testify/assert"
)

type passwordProbe struct {
	Password string `validate:"password"`
}

type pincodeProbe struct {
	Pincode string `validate:"pincode"`
}

func TestValidateStruct_Password(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"ok", "Str0ngPass", true},
		{"too short", "Ab1x", false},
		{"no upper", "weakpass1", false},
		{"no lower", "WEAKPASS1", false},
		{"no digit", "WeakPassword", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := validator.ValidateStruct(passwordProbe{Password: tc.password})
			if tc.ok {
				assert.Empty(t, errs)
				return
			}
			if assert.Len(t, errs, 1) {
				assert.Equal(t, "password", errs[0].Tag)
				assert.Equal(t, "passwordProbe.Password", errs[0].FailedField)
			}
		})
	}
}

func TestValidateStruct_Pincode(t *testing.T) {
	assert.Empty(t, validator.ValidateStruct(pincodeProbe{Pincode: "110001"}))
	assert.Empty(t, validator.ValidateStruct(pincodeProbe{Pincode: "1234"}))

	for _, bad := range []string{"", "123", "12345678901", "11000a"} {
		errs := validator.ValidateStruct(pincodeProbe{Pincode: bad})
		if assert.Len(t, errs, 1, "pincode %q", bad) {
			assert.Equal(t, "pincode", errs[0].Tag)
		}
	}
}
