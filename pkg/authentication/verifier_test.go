// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
	"github.com/canonical/lead-access-service/internal/tracing"
)

const testIssuer = "https://issuer.example.com"

func signToken(t *testing.T, key *rsa.PrivateKey, claims map[string]any) string {
	t.Helper()

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: key}, nil)
	if err != nil {
		t.Fatalf("failed to create signer: %v", err)
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("failed to encode claims: %v", err)
	}

	jws, err := signer.Sign(payload)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	raw, err := jws.CompactSerialize()
	if err != nil {
		t.Fatalf("failed to serialize: %v", err)
	}

	return raw
}

func TestJWTVerifier_VerifyToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name          string
		requiredScope string
		signer        *rsa.PrivateKey
		claims        map[string]any
		expectedSub   string
		expectErr     bool
	}{
		{
			name:        "no scope configured accepts any valid token",
			signer:      key,
			claims:      map[string]any{"iss": testIssuer, "sub": "user-1", "exp": exp},
			expectedSub: "user-1",
		},
		{
			name:          "scope in space separated claim",
			requiredScope: "leads:access",
			signer:        key,
			claims:        map[string]any{"iss": testIssuer, "sub": "user-2", "exp": exp, "scope": "openid leads:access"},
			expectedSub:   "user-2",
		},
		{
			name:          "scope in scp claim",
			requiredScope: "leads:access",
			signer:        key,
			claims:        map[string]any{"iss": testIssuer, "sub": "user-3", "exp": exp, "scp": []string{"leads:access"}},
			expectedSub:   "user-3",
		},
		{
			name:          "missing scope",
			requiredScope: "leads:access",
			signer:        key,
			claims:        map[string]any{"iss": testIssuer, "sub": "user-4", "exp": exp, "scope": "openid"},
			expectErr:     true,
		},
		{
			name:      "expired",
			signer:    key,
			claims:    map[string]any{"iss": testIssuer, "sub": "user-5", "exp": time.Now().Add(-time.Hour).Unix()},
			expectErr: true,
		},
		{
			name:      "wrong issuer",
			signer:    key,
			claims:    map[string]any{"iss": "https://evil.example.com", "sub": "user-6", "exp": exp},
			expectErr: true,
		},
		{
			name:      "unknown signing key",
			signer:    other,
			claims:    map[string]any{"iss": testIssuer, "sub": "user-7", "exp": exp},
			expectErr: true,
		},
		{
			name:      "no subject",
			signer:    key,
			claims:    map[string]any{"iss": testIssuer, "exp": exp},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
			logger := logging.NewNoopLogger()

			v := NewJWTVerifierDirect(
				oidc.NewVerifier(testIssuer, keySet, verifierConfig()),
				tt.requiredScope,
				tracing.NewNoopTracer(),
				monitoring.NewNoopMonitor("lead-access-service", logger),
				logger,
			)

			sub, err := v.VerifyToken(context.Background(), signToken(t, tt.signer, tt.claims))

			if (err != nil) != tt.expectErr {
				t.Fatalf("expected error %v, got %v", tt.expectErr, err)
			}

			if sub != tt.expectedSub {
				t.Errorf("expected subject %q, got %q", tt.expectedSub, sub)
			}
		})
	}
}

func TestNoopVerifier(t *testing.T) {
	sub, err := NewNoopVerifier().VerifyToken(context.Background(), "user-1")
	if err != nil || sub != "user-1" {
		t.Fatalf("unexpected result %q %v", sub, err)
	}
}
