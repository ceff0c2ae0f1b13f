package validators

import (
	"testing"

	"github.com/gestorerp/admin-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateNationalID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"valid plain", "12345678909", true},
		{"valid formatted", "123.456.789-09", true},
		{"valid second sample", "98765432100", true},
		{"valid third sample", "11144477735", true},
		{"first check digit flipped", "12345678919", false},
		{"second check digit flipped", "12345678908", false},
		{"all digits equal", "11111111111", false},
		{"all digits equal formatted", "222.222.222-22", false},
		{"too short", "1234567890", false},
		{"too long", "123456789091", false},
		{"empty", "", false},
		{"letters only", "abcdefghijk", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidateNationalID(tc.id))
		})
	}
}

func TestFormatNationalIDRoundTrip(t *testing.T) {
	formatted := FormatNationalID("12345678909")
	assert.Equal(t, "123.456.789-09", formatted)
	assert.Equal(t, "12345678909", StripDigits(formatted))

	// Values that do not strip to 11 digits come back stripped, unformatted.
	assert.Equal(t, "123", FormatNationalID("1-2-3"))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("ana.silva@example.com"))
	assert.True(t, ValidateEmail("x@y.co"))
	assert.False(t, ValidateEmail("no-at-sign.example.com"))
	assert.False(t, ValidateEmail("two@@example.com"))
	assert.False(t, ValidateEmail("@example.com"))
	assert.False(t, ValidateEmail("user@domain"))
	assert.False(t, ValidateEmail("user name@example.com"))
	assert.False(t, ValidateEmail(""))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
}

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("ana_silva"))
	assert.True(t, ValidateUsername("abc"))
	assert.True(t, ValidateUsername("A1_"))
	assert.False(t, ValidateUsername("ab"))
	assert.False(t, ValidateUsername("with space"))
	assert.False(t, ValidateUsername("hyphen-ated"))
	assert.False(t, ValidateUsername(""))
	assert.False(t, ValidateUsername("a234567890123456789012345678901")) // 31 chars
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("11987654321"))
	assert.True(t, ValidatePhone("(11) 98765-4321"))
	assert.True(t, ValidatePhone("1187654321"))
	assert.False(t, ValidatePhone("987654321"))
	assert.False(t, ValidatePhone("119876543210"))
	assert.False(t, ValidatePhone(""))
}

func TestValidatePostalCode(t *testing.T) {
	assert.True(t, ValidatePostalCode("01310-100"))
	assert.True(t, ValidatePostalCode("01310100"))
	assert.False(t, ValidatePostalCode("0131-0100"))
	assert.False(t, ValidatePostalCode("1310100"))
	assert.False(t, ValidatePostalCode("01310-10a"))

	assert.Equal(t, "01310-100", FormatPostalCode("01310100"))
}

func TestValidateFullName(t *testing.T) {
	assert.True(t, ValidateFullName("Ana Silva"))
	assert.True(t, ValidateFullName("  Ana   Maria  Silva  "))
	assert.False(t, ValidateFullName("Ana"))
	assert.False(t, ValidateFullName("   "))
}

func TestValidateStateCode(t *testing.T) {
	assert.True(t, ValidateStateCode("SP", models.StateCodes))
	assert.True(t, ValidateStateCode("sp", models.StateCodes))
	assert.False(t, ValidateStateCode("XX", models.StateCodes))
	assert.False(t, ValidateStateCode("", models.StateCodes))
}

func TestPermissionScopeValid(t *testing.T) {
	assert.True(t, models.AllScope().Valid())
	assert.True(t, models.SpecificScope([]string{"usuario"}).Valid())
	assert.True(t, models.SpecificScope(nil).Valid())
	assert.False(t, models.PermissionScope{Type: "specific"}.Valid())
	assert.False(t, models.PermissionScope{Type: "everything"}.Valid())
	assert.False(t, models.PermissionScope{}.Valid())
}
