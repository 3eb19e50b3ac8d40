// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

// RegistrationPayload is the body the identity provider posts after a
// sign-up, shaped by the hook's jsonnet template.
type RegistrationPayload struct {
	ID     string         `json:"id" validate:"required,max=64"`
	Traits IdentityTraits `json:"traits"`
}

type IdentityTraits struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty" validate:"max=200"`
}
