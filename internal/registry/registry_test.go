package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/avrovalue/internal/schema"
	"github.com/roach88/avrovalue/internal/schemaeq"
	"github.com/roach88/avrovalue/internal/testutil"
)

// createTestRegistry opens a registry in a temporary directory.
func createTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.db")
	r, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func userSchema(fieldName string, defaultValue any) *schema.Record {
	return &schema.Record{
		Name: schema.Name{Name: "User", Namespace: "test"},
		Fields: []schema.Field{
			{Name: fieldName, Schema: schema.Long, Default: defaultValue, HasDefault: defaultValue != nil},
			{Name: "email", Schema: schema.String},
		},
	}
}

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.NoError(t, r.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, r.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, r.verifyPragma("user_version", "1"))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	ctx := context.Background()

	r, err := Open(path, WithComparator(schemaeq.StructFieldEq{}))
	require.NoError(t, err)
	_, _, err = r.Register(ctx, "users", userSchema("id", nil))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	for i := 0; i < 3; i++ {
		r, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, r.Close())
	}

	r, err = Open(path)
	require.NoError(t, err)
	defer r.Close()

	e, err := r.Latest(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, 1, e.Version)
}

func TestRegister_AssignsVersions(t *testing.T) {
	r := createTestRegistry(t,
		WithComparator(schemaeq.StructFieldEq{}),
		WithIDGenerator(NewFixedGenerator("id-1", "id-2")),
	)
	ctx := context.Background()

	first, created, err := r.Register(ctx, "users", userSchema("id", nil))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "id-1", first.ID)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, "users", first.Subject)
	assert.Equal(t, `{"name":"test.User","type":"record","fields":[{"name":"id","type":"long"},{"name":"email","type":"string"}]}`, first.Canonical)

	second, created, err := r.Register(ctx, "users", &schema.Record{
		Name:   schema.Name{Name: "User", Namespace: "test"},
		Fields: []schema.Field{{Name: "id", Schema: schema.String}},
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "id-2", second.ID)
	assert.Equal(t, 2, second.Version)
}

func TestRegister_DedupesWithComparator(t *testing.T) {
	ctx := context.Background()

	t.Run("structural ignores field names and defaults", func(t *testing.T) {
		r := createTestRegistry(t, WithComparator(schemaeq.StructFieldEq{}),
			WithIDGenerator(NewFixedGenerator("id-1")))

		_, _, err := r.Register(ctx, "users", userSchema("id", nil))
		require.NoError(t, err)

		// FixedGenerator panics if a second ID is requested
		e, created, err := r.Register(ctx, "users", userSchema("key", 0))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 1, e.Version)
		assert.Equal(t, "id-1", e.ID)
	})

	t.Run("canonical form keeps field names", func(t *testing.T) {
		r := createTestRegistry(t, WithComparator(schemaeq.CanonicalFormEq{}))

		_, _, err := r.Register(ctx, "users", userSchema("id", nil))
		require.NoError(t, err)

		_, created, err := r.Register(ctx, "users", userSchema("id", 5))
		require.NoError(t, err)
		assert.False(t, created, "defaults are not part of the canonical form")

		e, created, err := r.Register(ctx, "users", userSchema("key", nil))
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, 2, e.Version)
	})

	t.Run("dedupes against older versions", func(t *testing.T) {
		r := createTestRegistry(t, WithComparator(schemaeq.CanonicalFormEq{}))

		_, _, err := r.Register(ctx, "s", schema.Int)
		require.NoError(t, err)
		_, _, err = r.Register(ctx, "s", schema.Long)
		require.NoError(t, err)

		e, created, err := r.Register(ctx, "s", schema.Int)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 1, e.Version)
	})

	t.Run("comparator func", func(t *testing.T) {
		never := schemaeq.ComparatorFunc(func(a, b schema.Schema) bool { return false })
		r := createTestRegistry(t, WithComparator(never))

		for i := 1; i <= 3; i++ {
			e, created, err := r.Register(ctx, "s", schema.Int)
			require.NoError(t, err)
			assert.True(t, created)
			assert.Equal(t, i, e.Version)
		}
	})
}

func TestRegister_Errors(t *testing.T) {
	r := createTestRegistry(t)
	ctx := context.Background()

	_, _, err := r.Register(ctx, "", schema.Int)
	assert.Error(t, err)

	_, _, err = r.Register(ctx, "refs", &schema.Ref{Name: schema.Name{Name: "Missing"}})
	assert.ErrorIs(t, err, schema.ErrUnresolvedRef)

	subjects, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, subjects)
}

func TestRegister_DefaultIDsAreUUIDv7(t *testing.T) {
	r := createTestRegistry(t, WithComparator(schemaeq.StructFieldEq{}))

	e, _, err := r.Register(context.Background(), "s", schema.Int)
	require.NoError(t, err)

	parsed, err := uuid.Parse(e.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestGetAndLatest(t *testing.T) {
	r := createTestRegistry(t, WithComparator(schemaeq.StructFieldEq{}))
	ctx := context.Background()

	_, _, err := r.Register(ctx, "s", schema.Int)
	require.NoError(t, err)
	_, _, err = r.Register(ctx, "s", &schema.Array{Items: schema.Uuid})
	require.NoError(t, err)

	v1, err := r.Get(ctx, "s", 1)
	require.NoError(t, err)
	assert.Equal(t, schema.Int, v1.Schema)

	latest, err := r.Latest(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Version)
	assert.True(t, schema.Equal(&schema.Array{Items: schema.Uuid}, latest.Schema), "logical types survive storage")
	assert.Equal(t, `{"type":"array","items":"string"}`, latest.Canonical)

	_, err = r.Get(ctx, "s", 3)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Latest(ctx, "other")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListVersionsAndDelete(t *testing.T) {
	r := createTestRegistry(t, WithComparator(schemaeq.StructFieldEq{}))
	ctx := context.Background()

	for _, subject := range []string{"b", "a", "c"} {
		_, _, err := r.Register(ctx, subject, schema.String)
		require.NoError(t, err)
	}
	_, _, err := r.Register(ctx, "a", schema.Bytes)
	require.NoError(t, err)

	subjects, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, subjects)

	versions, err := r.Versions(ctx, "a")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, schema.String, versions[0].Schema)
	assert.Equal(t, schema.Bytes, versions[1].Schema)

	none, err := r.Versions(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	n, err := r.Delete(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	subjects, err = r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, subjects)
}

func TestByFingerprint(t *testing.T) {
	r := createTestRegistry(t, WithComparator(schemaeq.StructFieldEq{}))
	ctx := context.Background()

	a, _, err := r.Register(ctx, "a", schema.Uuid)
	require.NoError(t, err)
	_, _, err = r.Register(ctx, "b", schema.String)
	require.NoError(t, err)
	_, _, err = r.Register(ctx, "c", schema.Long)
	require.NoError(t, err)

	want, err := schema.Fingerprint64(schema.String)
	require.NoError(t, err)
	assert.Equal(t, want, a.Fingerprint)

	entries, err := r.ByFingerprint(ctx, want)
	require.NoError(t, err)
	require.Len(t, entries, 2, "uuid and string share a canonical form")
	assert.Equal(t, "a", entries[0].Subject)
	assert.Equal(t, "b", entries[1].Subject)
	assert.Equal(t, want, entries[1].Fingerprint)
}

func TestFixedGeneratorPanicsWhenExhausted(t *testing.T) {
	g := NewFixedGenerator("only")
	assert.Equal(t, "only", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestRegister_DeterministicIDs(t *testing.T) {
	ctx := context.Background()
	ids := testutil.NewSequentialIDs("ver")

	run := func() []string {
		r := createTestRegistry(t, WithComparator(schemaeq.CanonicalFormEq{}), WithIDGenerator(ids))
		var got []string
		for _, field := range []string{"a", "b", "c"} {
			e, created, err := r.Register(ctx, "users", userSchema(field, nil))
			require.NoError(t, err)
			require.True(t, created)
			got = append(got, e.ID)
		}
		return got
	}

	first := run()
	assert.Equal(t, []string{"ver-1", "ver-2", "ver-3"}, first)

	ids.Reset()
	assert.Equal(t, first, run(), "a fresh registry replays the same IDs")
}
