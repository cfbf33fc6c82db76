// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. The [TokenCodec] is injected into the services and the
// authorization gate through their constructors.
package sec

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// # Token Kinds

// TokenKind names one family of signed tokens. Each kind has its own secret
// and lifetime so that a token of one kind is never accepted as another.
type TokenKind string

const (
	// TokenActivation carries a pending registration plus its one-time code.
	TokenActivation TokenKind = "activation"

	// TokenAccess authenticates requests.
	TokenAccess TokenKind = "access"

	// TokenRefresh is used solely to mint a new access/refresh pair.
	TokenRefresh TokenKind = "refresh"
)

var (
	// ErrInvalidToken is returned for malformed, tampered or mis-kinded tokens.
	ErrInvalidToken = errors.New("sec: invalid token")

	// ErrTokenExpired is returned when the token is past its expiry (plus leeway).
	// It wraps [ErrInvalidToken].
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// DefaultLeeway is the clock-skew grace used when none is configured.
const DefaultLeeway = 2 * time.Second

// TokenSpec is the signing secret and lifetime of one [TokenKind].
type TokenSpec struct {
	Secret []byte
	TTL    time.Duration
}

// tokenClaims is the wire payload of every token minted by the codec.
type tokenClaims struct {
	jwt.RegisteredClaims

	// Claims are abbreviated to keep the JWT payload small.
	Kind    TokenKind       `json:"knd"`
	Payload json.RawMessage `json:"pld,omitempty"`
}

// # Codec

// TokenCodec issues and verifies HS256 tokens for every configured kind.
//
// It is immutable after construction and safe for concurrent use.
type TokenCodec struct {
	specs  map[TokenKind]TokenSpec
	issuer string
	leeway time.Duration
	now    func() time.Time
}

// CodecOption customizes a [TokenCodec].
type CodecOption func(*TokenCodec)

// WithLeeway overrides the clock-skew grace window.
func WithLeeway(leeway time.Duration) CodecOption {
	return func(codec *TokenCodec) { codec.leeway = leeway }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) CodecOption {
	return func(codec *TokenCodec) { codec.now = now }
}

// WithIssuer sets the 'iss' claim stamped on issued tokens.
func WithIssuer(issuer string) CodecOption {
	return func(codec *TokenCodec) { codec.issuer = issuer }
}

// NewTokenCodec validates the per-kind specs and returns a ready codec.
//
// Construction fails if a secret is empty, a TTL is not positive, or two
// kinds share the same secret.
func NewTokenCodec(specs map[TokenKind]TokenSpec, options ...CodecOption) (*TokenCodec, error) {
	if len(specs) == 0 {
		return nil, errors.New("sec: no token kinds configured")
	}

	seen := make(map[string]TokenKind, len(specs))
	copied := make(map[TokenKind]TokenSpec, len(specs))

	for kind, spec := range specs {
		if len(spec.Secret) == 0 {
			return nil, fmt.Errorf("sec: empty secret for %s tokens", kind)
		}
		if spec.TTL <= 0 {
			return nil, fmt.Errorf("sec: non-positive ttl for %s tokens", kind)
		}
		if other, dup := seen[string(spec.Secret)]; dup {
			return nil, fmt.Errorf("sec: %s and %s tokens share a secret", other, kind)
		}
		seen[string(spec.Secret)] = kind
		copied[kind] = TokenSpec{Secret: append([]byte(nil), spec.Secret...), TTL: spec.TTL}
	}

	codec := &TokenCodec{
		specs:  copied,
		leeway: DefaultLeeway,
		now:    time.Now,
	}
	for _, option := range options {
		option(codec)
	}

	return codec, nil
}

// TTL returns the configured lifetime of kind, or zero when unknown.
func (codec *TokenCodec) TTL(kind TokenKind) time.Duration {
	return codec.specs[kind].TTL
}

/*
Issue signs payload as a token of the given kind.

Parameters:
  - kind: TokenKind
  - payload: any JSON-serializable value

Returns:
  - string: Compact JWS
  - time.Time: Expiry of the token
  - error: Unknown kind or serialization failures
*/
func (codec *TokenCodec) Issue(kind TokenKind, payload any) (string, time.Time, error) {
	spec, ok := codec.specs[kind]
	if !ok {
		return "", time.Time{}, fmt.Errorf("sec: unknown token kind %q", kind)
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to encode %s payload: %w", kind, err)
	}

	issuedAt := codec.now()
	expiresAt := issuedAt.Add(spec.TTL)

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// The random ID makes two tokens minted in the same second distinct.
			ID:        uuid.NewString(),
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Kind:    kind,
		Payload: encoded,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(spec.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign %s token: %w", kind, err)
	}

	return signed, expiresAt, nil
}

/*
Verify checks signature, kind and expiry, then decodes the payload into target.

Parameters:
  - kind: TokenKind expected by the caller
  - token: string
  - target: pointer receiving the payload

Returns:
  - error: ErrTokenExpired, ErrInvalidToken, or nil
*/
func (codec *TokenCodec) Verify(kind TokenKind, token string, target any) error {
	spec, ok := codec.specs[kind]
	if !ok {
		return fmt.Errorf("sec: unknown token kind %q", kind)
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(token *jwt.Token) (interface{}, error) {
			return spec.Secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(codec.leeway),
		jwt.WithTimeFunc(codec.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !parsed.Valid || claims.Kind != kind {
		return ErrInvalidToken
	}

	if target != nil {
		if err := json.Unmarshal(claims.Payload, target); err != nil {
			return fmt.Errorf("%w: undecodable payload", ErrInvalidToken)
		}
	}

	return nil
}

// # Activation Codes

// ActivationCode returns a uniformly random 4-digit decimal code in [1000, 9999].
func ActivationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("sec: failed to generate activation code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}
