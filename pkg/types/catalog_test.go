package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_PreservesOrder(t *testing.T) {
	input := `{"10": {"name": "b"}, "2": {"name": "a"}, "1": {"name": "c"}}`

	catalog := NewCatalog()
	require.NoError(t, json.Unmarshal([]byte(input), catalog))
	assert.Equal(t, []string{"10", "2", "1"}, catalog.Keys())

	data, err := json.Marshal(catalog)
	require.NoError(t, err)
	assert.Equal(t, `{"10":{"name":"b"},"2":{"name":"a"},"1":{"name":"c"}}`, string(data))
}

func TestCatalog_RejectsNonObject(t *testing.T) {
	catalog := NewCatalog()
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), catalog))
	assert.Error(t, json.Unmarshal([]byte(`{"1": "fixed"}`), catalog))
	assert.Error(t, json.Unmarshal([]byte(`{"1": {"length": "four"}}`), catalog))
}

func TestField_Aliases(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxLength  *int
		sampleData *string
	}{
		{"max_length", `{"max_length": 19}`, IntPtr(19), nil},
		{"legacy maxLength", `{"maxLength": 28}`, IntPtr(28), nil},
		{"max_length wins", `{"maxLength": 28, "max_length": 19}`, IntPtr(19), nil},
		{"SampleData", `{"SampleData": "1231"}`, nil, StringPtr("1231")},
		{"sample_data", `{"sample_data": "0101"}`, nil, StringPtr("0101")},
		{"numeric sample", `{"SampleData": 1231}`, nil, StringPtr("1231")},
		{"null attributes", `{"max_length": null, "SampleData": null}`, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Field
			require.NoError(t, json.Unmarshal([]byte(tt.input), &f))
			assert.Equal(t, tt.maxLength, f.MaxLength)
			assert.Equal(t, tt.sampleData, f.SampleData)
		})
	}
}

func TestField_TypedAttributes(t *testing.T) {
	var f Field
	require.NoError(t, json.Unmarshal([]byte(`{"format": "fixed", "type": "numeric", "length": 4, "name": "ExpiryDate"}`), &f))

	assert.Equal(t, FormatFixed, f.Format)
	assert.Equal(t, TypeNumeric, f.Type)
	assert.Equal(t, IntPtr(4), f.Length)
	assert.Nil(t, f.MaxLength)
	assert.Equal(t, "ExpiryDate", f.Name)
	assert.False(t, f.IsExtended())
}

func TestField_RoundTripsExtendedData(t *testing.T) {
	input := `{"format":"llvar","type":"numeric","max_length":19,"name":"PAN","extra":[1,2],` +
		`"testCases":{"invalid_empty":{"value":"","description":"Empty value"},"invalid_type":{"value":"ab","description":"x"}},` +
		`"validationRules":{"maxLength":19,"lengthIndicatorSize":2,"allowedChars":"0-9","description":"d"},` +
		`"validExample":"031234","validExampleRaw":"1234"}`

	var f Field
	require.NoError(t, json.Unmarshal([]byte(input), &f))

	require.True(t, f.IsExtended())
	assert.Equal(t, []string{"invalid_empty", "invalid_type"}, f.TestCases.Keys())
	assert.Equal(t, 2, f.ValidationRules.LengthIndicatorSize)
	assert.Equal(t, "031234", *f.ValidExample)
	assert.Equal(t, "1234", *f.ValidExampleRaw)
	assert.Equal(t, []string{"format", "type", "max_length", "name", "extra"}, f.Attributes())

	data, err := json.Marshal(&f)
	require.NoError(t, err)
	assert.Equal(t, input, string(data))
}

func TestField_Copy(t *testing.T) {
	var f Field
	require.NoError(t, json.Unmarshal([]byte(`{"format":"fixed","type":"hex","length":16}`), &f))

	c := f.Copy()
	c.TestCases = NewTestCases()
	c.ValidExample = StringPtr("00")

	assert.False(t, f.IsExtended())
	assert.True(t, c.IsExtended())
	assert.Equal(t, f.Attributes(), c.Attributes())
}

func TestNewField(t *testing.T) {
	f := NewField(FieldDefinition{
		Format:    FormatLLLVar,
		Type:      TypeAlphanumeric,
		MaxLength: IntPtr(999),
		Name:      "AdditionalData",
	})

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"format":"lllvar","type":"alphanumeric","max_length":999,"name":"AdditionalData"}`, string(data))
}

func TestTestCases_OverwriteKeepsPosition(t *testing.T) {
	tc := NewTestCases()
	tc.Set("a", TestCase{Value: "1"})
	tc.Set("b", TestCase{Value: "2"})
	tc.Set("a", TestCase{Value: "3"})

	assert.Equal(t, []string{"a", "b"}, tc.Keys())
	c, ok := tc.Get("a")
	require.True(t, ok)
	assert.Equal(t, "3", c.Value)
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	data, err := Marshal(TestCase{Value: "<&>", Description: "punctuation"})
	require.NoError(t, err)
	assert.Equal(t, `{"value":"<&>","description":"punctuation"}`, string(data))
}

func TestObject_Delete(t *testing.T) {
	obj := NewObject()
	obj.Set("a", json.RawMessage(`1`))
	obj.Set("b", json.RawMessage(`2`))
	obj.Set("c", json.RawMessage(`3`))
	obj.Delete("b")
	obj.Delete("missing")

	assert.Equal(t, []string{"a", "c"}, obj.Keys())
	_, ok := obj.Get("b")
	assert.False(t, ok)
}

func TestZeroPad(t *testing.T) {
	assert.Equal(t, "05", ZeroPad(5, 2))
	assert.Equal(t, "005", ZeroPad(5, 3))
	assert.Equal(t, "19", ZeroPad(19, 2))
	assert.Equal(t, "150", ZeroPad(150, 2))
}
