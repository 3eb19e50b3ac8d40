// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenant

// CreateTenantRequest carries the limits of a new tenant, a limit of 0 means
// unlimited.
type CreateTenantRequest struct {
	CompanyName      string `json:"companyName" validate:"required,max=200"`
	Domain           string `json:"domain" validate:"omitempty,fqdn"`
	SubscriptionTier string `json:"subscriptionTier" validate:"omitempty,max=64"`
	MaxUsers         int64  `json:"maxUsers" validate:"gte=0"`
	MaxLeadsPerMonth int64  `json:"maxLeadsPerMonth" validate:"gte=0"`
	MaxCustomers     int64  `json:"maxCustomers" validate:"gte=0"`
}

// UpdateTenantRequest only touches the fields that are set.
type UpdateTenantRequest struct {
	CompanyName      *string `json:"companyName" validate:"omitempty,min=1,max=200"`
	SubscriptionTier *string `json:"subscriptionTier" validate:"omitempty,max=64"`
	MaxUsers         *int64  `json:"maxUsers" validate:"omitempty,gte=0"`
	MaxLeadsPerMonth *int64  `json:"maxLeadsPerMonth" validate:"omitempty,gte=0"`
	MaxCustomers     *int64  `json:"maxCustomers" validate:"omitempty,gte=0"`
}

type TenantStatusRequest struct {
	Active *bool `json:"active" validate:"required"`
}
