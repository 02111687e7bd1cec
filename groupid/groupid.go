// Package groupid decodes the opaque client-supplied group token into a
// store.GroupID. spec.md §6 treats this as a black-box "decode(token) ->
// GroupId | InvalidGroupId" primitive backed by an authenticated-cookie
// scheme; this implementation stands in a concrete wire format (an
// HS256-signed JWT) behind the same contract.
package groupid

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"crab.casa/fooskill/apperrors"
	"crab.casa/fooskill/store"
)

// claims is the minimal claim set the token carries: the raw group id.
type claims struct {
	GroupID string `json:"gid"`
	jwt.RegisteredClaims
}

// Codec decodes and issues group tokens under a single process-wide secret.
// Constructed once at startup (spec.md §9: "the group secret key is
// constructed once at startup from configuration; after that it is
// immutable and safely shared across all request handlers").
type Codec struct {
	key []byte
}

// NewCodec builds a Codec from the raw (already base64-decoded) group key.
func NewCodec(key []byte) Codec {
	return Codec{key: key}
}

// Decode validates token's signature and expiry and extracts the GroupID.
// Any failure — malformed token, bad signature, wrong algorithm, expired
// claim — collapses to apperrors.ErrInvalidGroupID, matching spec.md's
// closed error taxonomy (§7: "InvalidGroupId: token failed decryption").
func (c Codec) Decode(token string) (store.GroupID, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil {
		return "", apperrors.ErrInvalidGroupID
	}

	cl, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || cl.GroupID == "" {
		return "", apperrors.ErrInvalidGroupID
	}

	return store.GroupID(cl.GroupID), nil
}

// Issue mints a token for gid. Not part of spec.md's core contract — the
// core only ever decodes — but every decoder needs a matching encoder
// somewhere to hand tokens out, and the out-of-scope route layer needs one
// to bootstrap a group in tests and local development.
func (c Codec) Issue(gid store.GroupID) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{GroupID: string(gid)})
	return token.SignedString(c.key)
}
