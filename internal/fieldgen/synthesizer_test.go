package fieldgen

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isotest/iso-testgen/pkg/types"
)

// fixedSource always draws the same index (clamped into range)
type fixedSource int

func (s fixedSource) IntN(n int) int {
	if int(s) >= n {
		return n - 1
	}
	return int(s)
}

func newTestSynthesizer(seed int64) *Synthesizer {
	return NewSynthesizer(NewSource(seed), nil)
}

func onlyChars(s, alphabet string) bool {
	for _, r := range s {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return true
}

func TestSynthesize_ExpiryDateScenario(t *testing.T) {
	s := newTestSynthesizer(1)

	result, err := s.Synthesize(types.FieldDefinition{
		Format:     types.FormatFixed,
		Type:       types.TypeNumeric,
		Length:     types.IntPtr(4),
		Name:       "ExpiryDate",
		SampleData: types.StringPtr("2512"),
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	want := &types.ValidationRules{
		ExactLength:  types.IntPtr(4),
		AllowedChars: "0-9",
		Description:  "Must be exactly 4 characters long with numeric characters",
		IsDateTime:   true,
		Format:       "MMDD",
	}
	if diff := cmp.Diff(want, result.ValidationRules); diff != "" {
		t.Errorf("validation rules mismatch (-want +got):\n%s", diff)
	}

	invalidDate, ok := result.TestCases.Get(CaseInvalidDate)
	require.True(t, ok)
	assert.Equal(t, types.TestCase{Value: "1332", Description: "Invalid date value (invalid month)"}, invalidDate)

	require.NotNil(t, result.ValidExample)
	assert.Equal(t, "2512", *result.ValidExample, "date/time sample is used verbatim")
	assert.Nil(t, result.ValidExampleRaw)
}

func TestSynthesize_ExpiryDateRulesSerialization(t *testing.T) {
	s := newTestSynthesizer(1)
	result, err := s.Synthesize(types.FieldDefinition{
		Format: types.FormatFixed,
		Type:   types.TypeNumeric,
		Length: types.IntPtr(4),
		Name:   "ExpiryDate",
	})
	require.NoError(t, err)

	data, err := types.Marshal(result.ValidationRules)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"exactLength":4,"allowedChars":"0-9","description":"Must be exactly 4 characters long with numeric characters","isDateTime":true,"format":"MMDD"}`,
		string(data))
}

func TestSynthesize_DateTimeWithoutSample(t *testing.T) {
	s := newTestSynthesizer(1)
	result, err := s.Synthesize(types.FieldDefinition{
		Format: types.FormatFixed,
		Type:   types.TypeNumeric,
		Length: types.IntPtr(6),
		Name:   "LocalTime",
	})
	require.NoError(t, err)
	assert.Nil(t, result.ValidExample, "missing sample degrades to an absent example")

	c, ok := result.TestCases.Get(CaseInvalidTime)
	require.True(t, ok)
	assert.Equal(t, "126000", c.Value)
}

func TestSynthesize_DateTimeCasesByLength(t *testing.T) {
	tests := []struct {
		length  int
		key     string
		value   string
		format  string
		hasCase bool
	}{
		{4, CaseInvalidDate, "1332", "MMDD", true},
		{6, CaseInvalidTime, "126000", "hhmmss", true},
		{10, CaseInvalidDateTime, "1332126000", "MMDDhhmmss", true},
		{8, "", "", "YYMM", false},
		{12, "", "", "YYMM", false},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.length), func(t *testing.T) {
			s := newTestSynthesizer(3)
			result, err := s.Synthesize(types.FieldDefinition{
				Format: types.FormatFixed,
				Type:   types.TypeNumeric,
				Length: types.IntPtr(tt.length),
				Name:   "TransmissionDateTime",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.format, result.ValidationRules.Format)
			assert.True(t, result.ValidationRules.IsDateTime)

			for _, key := range []string{CaseInvalidDate, CaseInvalidTime, CaseInvalidDateTime} {
				c, ok := result.TestCases.Get(key)
				if tt.hasCase && key == tt.key {
					require.True(t, ok)
					assert.Equal(t, tt.value, c.Value)
				} else {
					assert.False(t, ok, "unexpected %s", key)
				}
			}
		})
	}
}

func TestSynthesize_DateTimeCaseOnlyForNumeric(t *testing.T) {
	s := newTestSynthesizer(5)
	result, err := s.Synthesize(types.FieldDefinition{
		Format: types.FormatFixed,
		Type:   types.TypeAlphanumeric,
		Length: types.IntPtr(4),
		Name:   "ExpiryDate",
	})
	require.NoError(t, err)

	_, ok := result.TestCases.Get(CaseInvalidDate)
	assert.False(t, ok)
	assert.True(t, result.ValidationRules.IsDateTime)
	require.NotNil(t, result.ValidExample)
	assert.Len(t, *result.ValidExample, 4, "non-numeric date fields are synthesized")
}

func TestSynthesize_TypeCases(t *testing.T) {
	tests := []struct {
		fieldType string
		want      map[string]string
	}{
		{types.TypeNumeric, map[string]string{
			CaseInvalidType:         Letters,
			CaseInvalidSpecialChars: Punctuation,
		}},
		{types.TypeAlphanumeric, map[string]string{
			CaseInvalidSpecialChars: Punctuation,
		}},
		{types.TypeBinary, map[string]string{
			CaseInvalidType:        LettersDigits,
			CaseInvalidBinaryChars: NonBinaryDigits,
		}},
		{types.TypeHex, map[string]string{
			CaseInvalidType:     NonHexLower + Punctuation,
			CaseInvalidHexChars: NonHexUpper,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.fieldType, func(t *testing.T) {
			s := newTestSynthesizer(11)
			result, err := s.Synthesize(types.FieldDefinition{
				Format: types.FormatFixed,
				Type:   tt.fieldType,
				Length: types.IntPtr(16),
				Name:   "Data",
			})
			require.NoError(t, err)

			// type cases plus the two length cases
			assert.Equal(t, len(tt.want)+2, result.TestCases.Len())
			for key, alphabet := range tt.want {
				c, ok := result.TestCases.Get(key)
				require.True(t, ok, key)
				assert.Len(t, c.Value, 16, key)
				assert.True(t, onlyChars(c.Value, alphabet), "%s: %q", key, c.Value)
			}
		})
	}
}

func TestSynthesize_HexCharsOutsideRange(t *testing.T) {
	s := newTestSynthesizer(21)
	result, err := s.Synthesize(types.FieldDefinition{
		Format: types.FormatFixed,
		Type:   types.TypeHex,
		Length: types.IntPtr(64),
	})
	require.NoError(t, err)

	c, _ := result.TestCases.Get(CaseInvalidHexChars)
	assert.NotRegexp(t, `[A-Fa-f0-9]`, c.Value)
	c, _ = result.TestCases.Get(CaseInvalidType)
	assert.NotRegexp(t, `[A-Fa-f0-9]`, c.Value)
}

func TestSynthesize_TypeCasesUseMaxLengthForVariable(t *testing.T) {
	s := newTestSynthesizer(2)
	result, err := s.Synthesize(types.FieldDefinition{
		Format:    types.FormatLLLVar,
		Type:      types.TypeNumeric,
		MaxLength: types.IntPtr(25),
	})
	require.NoError(t, err)

	c, _ := result.TestCases.Get(CaseInvalidType)
	assert.Len(t, c.Value, 25)
	c, _ = result.TestCases.Get(CaseInvalidSpecialChars)
	assert.Len(t, c.Value, 25)
}

func TestSynthesize_FixedLengthCases(t *testing.T) {
	for _, fieldType := range Types() {
		for _, length := range []int{1, 2, 7, 19} {
			s := newTestSynthesizer(int64(length))
			result, err := s.Synthesize(types.FieldDefinition{
				Format: types.FormatFixed,
				Type:   fieldType,
				Length: types.IntPtr(length),
				Name:   "Amount",
			})
			require.NoError(t, err)

			alphabet := LettersDigits
			if fieldType == types.TypeNumeric {
				alphabet = Digits
			}

			short, ok := result.TestCases.Get(CaseInvalidLengthShort)
			require.True(t, ok)
			assert.Len(t, short.Value, length-1)
			assert.True(t, onlyChars(short.Value, alphabet))
			assert.Equal(t, "Length shorter than required "+strconv.Itoa(length)+" characters", short.Description)

			long, ok := result.TestCases.Get(CaseInvalidLengthLong)
			require.True(t, ok)
			assert.Len(t, long.Value, length+1)
			assert.True(t, onlyChars(long.Value, alphabet))
		}
	}
}

func TestSynthesize_FixedValidExample(t *testing.T) {
	tests := []struct {
		fieldType    string
		alphabet     string
		allowedChars string
	}{
		{types.TypeNumeric, Digits, "0-9"},
		{types.TypeAlphanumeric, LettersDigits, "a-zA-Z0-9"},
		{types.TypeBinary, BinaryDigits, "0-1"},
		{types.TypeHex, "0123456789abcdef", "0-9A-F"},
	}

	for _, tt := range tests {
		t.Run(tt.fieldType, func(t *testing.T) {
			s := newTestSynthesizer(99)
			result, err := s.Synthesize(types.FieldDefinition{
				Format: types.FormatFixed,
				Type:   tt.fieldType,
				Length: types.IntPtr(32),
				Name:   "ProcessingCode",
			})
			require.NoError(t, err)

			require.NotNil(t, result.ValidExample)
			assert.Len(t, *result.ValidExample, 32)
			assert.True(t, onlyChars(*result.ValidExample, tt.alphabet), *result.ValidExample)
			assert.Nil(t, result.ValidExampleRaw)

			assert.Equal(t, tt.allowedChars, result.ValidationRules.AllowedChars)
			assert.False(t, result.ValidationRules.IsDateTime)
			assert.Empty(t, result.ValidationRules.Format)
			assert.Nil(t, result.ValidationRules.FormatExample)
		})
	}
}

func TestSynthesize_VariableLength(t *testing.T) {
	for _, format := range []string{types.FormatLLVar, types.FormatLLLVar} {
		width := LengthIndicatorWidths[format]
		for seed := int64(1); seed <= 50; seed++ {
			s := newTestSynthesizer(seed)
			result, err := s.Synthesize(types.FieldDefinition{
				Format:    format,
				Type:      types.TypeNumeric,
				MaxLength: types.IntPtr(19),
				Name:      "PAN",
			})
			require.NoError(t, err)

			raw := *result.ValidExampleRaw
			example := *result.ValidExample
			assert.GreaterOrEqual(t, len(raw), 1)
			assert.LessOrEqual(t, len(raw), 19)
			assert.Equal(t, types.ZeroPad(len(raw), width)+raw, example)

			indicator, err := strconv.Atoi(example[:width])
			require.NoError(t, err)
			assert.Equal(t, len(example)-width, indicator)

			fe := result.ValidationRules.FormatExample
			require.NotNil(t, fe)
			assert.Equal(t, raw, fe.Raw)
			assert.Equal(t, example, fe.Formatted)
			assert.Contains(t, fe.Explanation, example[:width])
			assert.Contains(t, fe.Explanation, raw)
		}
	}
}

func TestSynthesize_PANScenario(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{2}\d{1,19}$`)
	for seed := int64(1); seed <= 20; seed++ {
		s := newTestSynthesizer(seed)
		result, err := s.Synthesize(types.FieldDefinition{
			Format:    types.FormatLLVar,
			Type:      types.TypeNumeric,
			MaxLength: types.IntPtr(19),
			Name:      "PAN",
		})
		require.NoError(t, err)

		example := *result.ValidExample
		assert.Regexp(t, pattern, example)
		n, err := strconv.Atoi(example[:2])
		require.NoError(t, err)
		assert.Equal(t, len(example[2:]), n)
	}
}

func TestSynthesize_VariableLengthBounds(t *testing.T) {
	def := types.FieldDefinition{
		Format:    types.FormatLLVar,
		Type:      types.TypeAlphanumeric,
		MaxLength: types.IntPtr(11),
	}

	result, err := NewSynthesizer(fixedSource(0), nil).Synthesize(def)
	require.NoError(t, err)
	assert.Equal(t, "01", (*result.ValidExample)[:2])
	assert.Len(t, *result.ValidExampleRaw, 1)

	result, err = NewSynthesizer(fixedSource(1000), nil).Synthesize(def)
	require.NoError(t, err)
	assert.Equal(t, "11", (*result.ValidExample)[:2])
	assert.Len(t, *result.ValidExampleRaw, 11)
}

func TestSynthesize_VariableLengthRules(t *testing.T) {
	s := newTestSynthesizer(8)
	result, err := s.Synthesize(types.FieldDefinition{
		Format:    types.FormatLLLVar,
		Type:      types.TypeBinary,
		MaxLength: types.IntPtr(999),
	})
	require.NoError(t, err)

	rules := result.ValidationRules
	assert.Equal(t, types.IntPtr(999), rules.MaxLength)
	assert.Nil(t, rules.ExactLength)
	assert.Equal(t, 3, rules.LengthIndicatorSize)
	assert.Equal(t, "0-1", rules.AllowedChars)
	assert.Equal(t, "Variable length up to 999 characters with lllvar length indicator", rules.Description)
	assert.True(t, onlyChars(*result.ValidExampleRaw, LettersDigits))
}

func TestSynthesize_VariableLengthCases(t *testing.T) {
	s := newTestSynthesizer(4)
	result, err := s.Synthesize(types.FieldDefinition{
		Format:    types.FormatLLVar,
		Type:      types.TypeNumeric,
		MaxLength: types.IntPtr(28),
	})
	require.NoError(t, err)

	exceed, ok := result.TestCases.Get(CaseInvalidLengthExceedMax)
	require.True(t, ok)
	assert.Len(t, exceed.Value, 29)
	assert.True(t, onlyChars(exceed.Value, Digits))
	assert.Equal(t, "Exceeds maximum length of 28 characters", exceed.Description)

	empty, ok := result.TestCases.Get(CaseInvalidEmpty)
	require.True(t, ok)
	assert.Equal(t, "", empty.Value)

	_, ok = result.TestCases.Get(CaseInvalidLengthIndicator)
	assert.False(t, ok, "legacy indicator cases are off by default")
	_, ok = result.TestCases.Get(CaseInvalidLengthShort)
	assert.False(t, ok)
}

func TestSynthesize_LegacyIndicatorCases(t *testing.T) {
	s := NewSynthesizer(NewSource(4), &Options{LegacyIndicatorCases: true})
	result, err := s.Synthesize(types.FieldDefinition{
		Format:    types.FormatLLLVar,
		Type:      types.TypeAlphanumeric,
		MaxLength: types.IntPtr(12),
	})
	require.NoError(t, err)

	mismatch, ok := result.TestCases.Get(CaseInvalidLengthIndicator)
	require.True(t, ok)
	missing, ok := result.TestCases.Get(CaseMissingLengthIndicator)
	require.True(t, ok)

	assert.Len(t, missing.Value, 12)
	assert.Equal(t, "013"+missing.Value, mismatch.Value)
}

func TestSynthesize_Bitmap(t *testing.T) {
	s := newTestSynthesizer(6)
	result, err := s.Synthesize(types.FieldDefinition{
		Format: types.FormatBitmap,
		Type:   types.TypeBinary,
		Length: types.IntPtr(64),
		Name:   "Bitmap",
	})
	require.NoError(t, err)

	format, ok := result.TestCases.Get(CaseInvalidBitmapFormat)
	require.True(t, ok)
	assert.Len(t, format.Value, 64)
	assert.True(t, onlyChars(format.Value, LettersDigits))

	length, ok := result.TestCases.Get(CaseInvalidBitmapLength)
	require.True(t, ok)
	assert.Len(t, length.Value, 56)
	assert.True(t, onlyChars(length.Value, BinaryDigits))

	_, ok = result.TestCases.Get(CaseInvalidBinaryChars)
	assert.True(t, ok, "type cases apply to bitmaps too")

	assert.Nil(t, result.ValidationRules)
	assert.Nil(t, result.ValidExample)
}

func TestSynthesize_ShortBitmap(t *testing.T) {
	s := newTestSynthesizer(6)
	result, err := s.Synthesize(types.FieldDefinition{
		Format: types.FormatBitmap,
		Type:   types.TypeHex,
		Length: types.IntPtr(4),
	})
	require.NoError(t, err)

	length, _ := result.TestCases.Get(CaseInvalidBitmapLength)
	assert.Equal(t, "", length.Value)
}

func TestSynthesize_PassThrough(t *testing.T) {
	s := newTestSynthesizer(1)

	for _, def := range []types.FieldDefinition{
		{Type: types.TypeNumeric, Length: types.IntPtr(4)},
		{Format: types.FormatFixed, Length: types.IntPtr(4)},
		{Name: "Reserved"},
	} {
		result, err := s.Synthesize(def)
		assert.NoError(t, err)
		assert.Nil(t, result)
	}
}

func TestSynthesize_IncompleteDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		def     types.FieldDefinition
		wantErr error
	}{
		{"fixed without length", types.FieldDefinition{Format: types.FormatFixed, Type: types.TypeNumeric}, ErrMissingLength},
		{"bitmap without length", types.FieldDefinition{Format: types.FormatBitmap, Type: types.TypeBinary}, ErrMissingLength},
		{"llvar without max_length", types.FieldDefinition{Format: types.FormatLLVar, Type: types.TypeNumeric, Length: types.IntPtr(4)}, ErrMissingLength},
		{"lllvar zero max_length", types.FieldDefinition{Format: types.FormatLLLVar, Type: types.TypeNumeric, MaxLength: types.IntPtr(0)}, ErrInvalidLength},
		{"negative length", types.FieldDefinition{Format: types.FormatFixed, Type: types.TypeNumeric, Length: types.IntPtr(-3)}, ErrInvalidLength},
		{"unknown format", types.FieldDefinition{Format: "lvar", Type: types.TypeNumeric, Length: types.IntPtr(4)}, ErrUnknownFormat},
		{"unknown type", types.FieldDefinition{Format: types.FormatFixed, Type: "ans", Length: types.IntPtr(4)}, ErrUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestSynthesizer(1).Synthesize(tt.def)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsIncomplete(err))
		})
	}
}

func TestSynthesize_DeterministicWithSeed(t *testing.T) {
	def := types.FieldDefinition{
		Format:    types.FormatLLLVar,
		Type:      types.TypeAlphanumeric,
		MaxLength: types.IntPtr(40),
	}

	a, err := newTestSynthesizer(42).Synthesize(def)
	require.NoError(t, err)
	b, err := newTestSynthesizer(42).Synthesize(def)
	require.NoError(t, err)

	assert.Equal(t, *a.ValidExample, *b.ValidExample)
	assert.Equal(t, a.TestCases.Keys(), b.TestCases.Keys())
	for _, key := range a.TestCases.Keys() {
		ca, _ := a.TestCases.Get(key)
		cb, _ := b.TestCases.Get(key)
		assert.Equal(t, ca, cb, key)
	}
}

func TestRandomString(t *testing.T) {
	src := NewSource(7)
	assert.Equal(t, "", randomString(src, Digits, 0))
	assert.Equal(t, "", randomString(src, Digits, -2))
	assert.Equal(t, "", randomString(src, "", 5))
	assert.Equal(t, "zzz", randomString(fixedSource(0), "z", 3))

	s := randomString(src, BinaryDigits, 100)
	assert.Len(t, s, 100)
	assert.True(t, onlyChars(s, BinaryDigits))
}
