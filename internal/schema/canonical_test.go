package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userSchema(doc string, fieldName string) *Record {
	return &Record{
		Name: Name{Name: "User", Namespace: "test"},
		Doc:  doc,
		Fields: []Field{
			{Name: fieldName, Schema: Long, Default: 1, HasDefault: true},
			{Name: "email", Schema: &Union{Branches: []Schema{Null, String}}},
		},
	}
}

func TestMarshalJSONRoundTrip(t *testing.T) {
	schemas := []Schema{
		Int,
		Uuid,
		Duration,
		TimestampNanos,
		&Decimal{Precision: 9, Scale: 2, Inner: Bytes},
		&Decimal{Precision: 9, Scale: 2, Inner: &Fixed{Name: Name{Name: "D"}, Size: 8}},
		&Array{Items: &Map{Values: Double}},
		&Union{Branches: []Schema{Null, Long, String}},
		userSchema("users", "id"),
		&Record{
			Name: Name{Name: "Node"},
			Fields: []Field{
				{Name: "value", Schema: Int},
				{Name: "next", Schema: &Union{Branches: []Schema{Null, &Ref{Name: Name{Name: "Node"}}}}},
				{Name: "kind", Schema: &Enum{Name: Name{Name: "Kind"}, Symbols: []string{"A", "B"}, Default: "A"}},
				{Name: "id", Schema: &Fixed{Name: Name{Name: "Id", Namespace: "other"}, Size: 16}},
			},
		},
	}

	for _, s := range schemas {
		t.Run(s.Kind().String(), func(t *testing.T) {
			data, err := MarshalJSON(s)
			require.NoError(t, err)

			got, err := Parse(data)
			require.NoError(t, err, string(data))
			assert.True(t, Equal(s, got), Diff(s, got))
		})
	}
}

func TestMarshalJSONLogicalForm(t *testing.T) {
	data, err := MarshalJSON(Date)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "int", "logicalType": "date"}`, string(data))

	data, err = MarshalJSON(&Record{
		Name:   Name{Name: "R"},
		Fields: []Field{{Name: "a", Schema: Duration}, {Name: "b", Schema: Duration}},
	})
	require.NoError(t, err)

	var form map[string]any
	require.NoError(t, json.Unmarshal(data, &form))
	fields := form["fields"].([]any)
	assert.Equal(t, "fixed", fields[0].(map[string]any)["type"].(map[string]any)["type"])
	assert.Equal(t, "duration", fields[1].(map[string]any)["type"], "a second duration refers to the first")
}

func TestMarshalJSONErrors(t *testing.T) {
	_, err := MarshalJSON(nil)
	assert.Error(t, err)

	_, err = MarshalJSON(&Array{})
	assert.Error(t, err)

	_, err = MarshalJSON(&Decimal{Precision: 2, Inner: String})
	assert.Error(t, err)
}

func TestCanonicalForm(t *testing.T) {
	tests := []struct {
		name string
		in   Schema
		want string
	}{
		{"primitive", Int, `"int"`},
		{"logical primitive", Uuid, `"string"`},
		{"timestamp", TimestampMillis, `"long"`},
		{"decimal", &Decimal{Precision: 4, Inner: Bytes}, `"bytes"`},
		{"ref", &Ref{Name: Name{Name: "User", Namespace: "test"}}, `"test.User"`},
		{"array", &Array{Items: Date}, `{"type":"array","items":"int"}`},
		{"record", userSchema("docs are dropped", "id"),
			`{"name":"test.User","type":"record","fields":[{"name":"id","type":"long"},{"name":"email","type":["null","string"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalForm(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalFormUnresolvedRefInside(t *testing.T) {
	_, err := CanonicalForm(&Array{Items: &Ref{Name: Name{Name: "Missing"}}})
	assert.Error(t, err)
}

func TestFingerprints(t *testing.T) {
	a := userSchema("first", "id")
	b := userSchema("second", "id")
	c := userSchema("first", "key")

	fa, err := Fingerprint64(a)
	require.NoError(t, err)
	fb, err := Fingerprint64(b)
	require.NoError(t, err)
	fc, err := Fingerprint64(c)
	require.NoError(t, err)

	assert.Equal(t, fa, fb, "documentation is not part of the canonical form")
	assert.NotEqual(t, fa, fc, "field names are")

	sa, err := FingerprintSHA256(a)
	require.NoError(t, err)
	sb, err := FingerprintSHA256(b)
	require.NoError(t, err)
	assert.Len(t, sa, 64)
	assert.Equal(t, sa, sb)

	_, err = Fingerprint64(&Ref{Name: Name{Name: "User"}})
	assert.ErrorIs(t, err, ErrUnresolvedRef)
}

func TestFingerprintKnownValues(t *testing.T) {
	tests := []struct {
		in     Schema
		rabin  uint64
		sha256 string
	}{
		{Int, 0x7275d51a3f395c8f, "3f2b87a9fe7cc9b13835598c3981cd45e3e355309e5090aa0933d7becb6fba45"},
		{String, 0x8f014872634503c7, "e9e5c1c9e4f6277339d1bcde0733a59bd42f8731f449da6dc13010a916930d48"},
	}
	for _, tt := range tests {
		t.Run(tt.in.Kind().String(), func(t *testing.T) {
			fp, err := Fingerprint64(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.rabin, fp)

			sum, err := FingerprintSHA256(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.sha256, sum)
		})
	}
}

func TestCanonicalCodec(t *testing.T) {
	codec, err := CanonicalCodec(&Record{
		Name:   Name{Name: "R"},
		Fields: []Field{{Name: "at", Schema: TimestampMillis}},
	})
	require.NoError(t, err)

	// The logical type is gone, so plain longs are accepted
	data, err := codec.BinaryFromNative(nil, map[string]any{"at": int64(1)})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02}, data)
}

func TestPhysicalTypeName(t *testing.T) {
	tests := []struct {
		in   Schema
		want string
	}{
		{Null, "null"},
		{Uuid, "string"},
		{Date, "int"},
		{LocalTimestampNanos, "long"},
		{BigDecimal, "bytes"},
		{Duration, "duration"},
		{&Decimal{Precision: 2, Inner: Bytes}, "bytes"},
		{&Decimal{Precision: 2, Inner: &Fixed{Name: Name{Name: "D", Namespace: "n"}}}, "n.D"},
		{&Record{Name: Name{Name: "R"}}, "R"},
		{&Ref{Name: Name{Name: "R", Namespace: "x"}}, "x.R"},
		{&Array{Items: Int}, "array"},
		{&Map{Values: Int}, "map"},
		{&Union{}, ""},
		{nil, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PhysicalTypeName(tt.in))
	}
}
