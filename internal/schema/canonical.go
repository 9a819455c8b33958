package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/linkedin/goavro/v2"
)

// ErrUnresolvedRef is returned when a bare Ref is compiled on its own.
var ErrUnresolvedRef = errors.New("reference is not a standalone schema")

// CanonicalForm returns the Parsing Canonical Form of s.
//
// A bare Ref has no definition to canonicalize and yields its quoted full
// name.
func CanonicalForm(s Schema) (string, error) {
	if r, ok := s.(*Ref); ok {
		quoted, err := json.Marshal(r.Name.Fullname())
		if err != nil {
			return "", err
		}
		return string(quoted), nil
	}

	codec, err := compile(s)
	if err != nil {
		return "", err
	}
	return codec.CanonicalSchema(), nil
}

// CanonicalCodec compiles the canonical form of s. The codec sees only
// physical types, so its native values are the plain goavro ones.
func CanonicalCodec(s Schema) (*goavro.Codec, error) {
	if _, ok := s.(*Ref); ok {
		return nil, ErrUnresolvedRef
	}

	codec, err := compile(s)
	if err != nil {
		return nil, err
	}
	canonical, err := goavro.NewCodec(codec.CanonicalSchema())
	if err != nil {
		return nil, fmt.Errorf("compile canonical form: %w", err)
	}
	return canonical, nil
}

// Fingerprint64 returns the CRC-64-AVRO (Rabin) fingerprint of the
// canonical form of s.
func Fingerprint64(s Schema) (uint64, error) {
	codec, err := CanonicalCodec(s)
	if err != nil {
		return 0, err
	}
	return codec.Rabin, nil
}

// FingerprintSHA256 returns the hex SHA-256 of the canonical form of s.
func FingerprintSHA256(s Schema) (string, error) {
	canonical, err := CanonicalForm(s)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:]), nil
}

// PhysicalTypeName returns the name an encoder uses for s as a union
// branch: the physical type name for primitives, the full name for named
// types. Unions have no branch name and yield "".
func PhysicalTypeName(s Schema) string {
	switch s := s.(type) {
	case nil:
		return ""
	case Primitive:
		if s == Duration {
			return "duration"
		}
		if base, ok := logicalBase[s.Kind()]; ok {
			return base.String()
		}
		return s.String()
	case *Decimal:
		return PhysicalTypeName(s.Inner)
	case *Union:
		return ""
	}
	if name := NameOf(s); name != nil {
		return name.Fullname()
	}
	return s.Kind().String()
}

func compile(s Schema) (*goavro.Codec, error) {
	data, err := MarshalJSON(s)
	if err != nil {
		return nil, err
	}
	codec, err := goavro.NewCodec(string(data))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return codec, nil
}
