package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emailRequest struct {
	Email string `json:"email" validate:"required,itememail"`
}

type selfValidating struct{ err error }

func (s selfValidating) Validate() error { return s.err }

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		noBody  bool
		wantErr error
		errText string
		want    string
	}{
		{name: "valid", body: `{"email":"a@b.co"}`, want: "a@b.co"},
		{name: "empty body", noBody: true, wantErr: ErrEmptyBody},
		{name: "whitespace only", body: "   ", wantErr: ErrEmptyBody},
		{name: "malformed", body: `{"email":`, errText: "unexpected EOF"},
		{name: "trailing object", body: `{"email":"a@b.co"}{"email":"c@d.co"}`, errText: "single JSON object"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var req *http.Request
			if tc.noBody {
				req = httptest.NewRequest(http.MethodPost, "/", http.NoBody)
			} else {
				req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			}

			var got emailRequest
			err := DecodeJSON(httptest.NewRecorder(), req, &got)

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.errText != "":
				assert.ErrorContains(t, err, tc.errText)
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.want, got.Email)
			}
		})
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	body := `{"email":"` + strings.Repeat("a", MaxRequestBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var got emailRequest
	err := DecodeJSON(httptest.NewRecorder(), req, &got)

	var tooLarge *http.MaxBytesError
	assert.ErrorAs(t, err, &tooLarge)
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"valid email", "user@example.com", true},
		{"consecutive dots", "bad@em..ail.com", false},
		{"missing at", "example.com", false},
		{"short tld", "user@example.c", false},
		{"missing", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(emailRequest{Email: tc.email})
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}

	want := errors.New("custom")
	assert.Same(t, want, ValidateRequest(selfValidating{err: want}))
}
