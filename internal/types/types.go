// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

type Role string

const (
	RoleSuperAdmin      Role = "super_admin"
	RoleTenantAdmin     Role = "tenant_admin"
	RoleManager         Role = "manager"
	RoleTerminalManager Role = "terminal_manager"
	RoleSalesRep        Role = "sales_rep"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleManager, RoleTerminalManager, RoleSalesRep:
		return true
	default:
		return false
	}
}

type IdentityStatus string

const (
	IdentityPending  IdentityStatus = "pending"
	IdentityActive   IdentityStatus = "active"
	IdentityInactive IdentityStatus = "inactive"
)

func (s IdentityStatus) Valid() bool {
	return s == IdentityPending || s == IdentityActive || s == IdentityInactive
}

// Identity is a caller of the system. TenantID, ManagerID and TerminalCode
// are empty when unset.
type Identity struct {
	ID              string         `db:"id" json:"id"`
	Email           string         `db:"email" json:"email"`
	DisplayName     string         `db:"display_name" json:"displayName"`
	Role            Role           `db:"role" json:"role"`
	TenantID        string         `db:"tenant_id" json:"tenantId,omitempty"`
	ManagerID       string         `db:"manager_id" json:"managerId,omitempty"`
	TerminalCode    string         `db:"terminal_code" json:"terminalCode,omitempty"`
	AssignedRegions []string       `json:"assignedRegions"`
	Status          IdentityStatus `db:"status" json:"status"`
	LastSeenAt      *time.Time     `db:"last_seen_at" json:"lastSeenAt,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
}

func (i *Identity) IsSuperAdmin() bool {
	return i != nil && i.Role == RoleSuperAdmin
}

type Tenant struct {
	ID               string    `db:"id" json:"id"`
	CompanyName      string    `db:"company_name" json:"companyName"`
	Domain           string    `db:"domain" json:"domain"`
	SubscriptionTier string    `db:"subscription_tier" json:"subscriptionTier"`
	IsActive         bool      `db:"is_active" json:"isActive"`
	MaxUsers         int64     `db:"max_users" json:"maxUsers"`
	MaxLeadsPerMonth int64     `db:"max_leads_per_month" json:"maxLeadsPerMonth"`
	MaxCustomers     int64     `db:"max_customers" json:"maxCustomers"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

// Scope is the organizational scope a request runs in. Tenant is nil only
// for super admins that did not narrow to a tenant.
type Scope struct {
	Identity      *Identity `json:"identity"`
	Tenant        *Tenant   `json:"tenant"`
	IsSuperAdmin  bool      `json:"isSuperAdmin"`
	Impersonating bool      `json:"impersonating"`
}

// TenantID returns the id of the tenant in scope, empty when unscoped.
func (s *Scope) TenantID() string {
	if s == nil || s.Tenant == nil {
		return ""
	}
	return s.Tenant.ID
}

type UsageType string

const (
	UsageLeads            UsageType = "leads"
	UsageCustomers        UsageType = "customers"
	UsageAPICalls         UsageType = "api_calls"
	UsageMonitoringChecks UsageType = "monitoring_checks"
)

// Column returns the usage_ledger column backing the usage type.
func (u UsageType) Column() (string, bool) {
	switch u {
	case UsageLeads:
		return "leads_created", true
	case UsageCustomers:
		return "customers_created", true
	case UsageAPICalls:
		return "api_calls", true
	case UsageMonitoringChecks:
		return "monitoring_checks", true
	default:
		return "", false
	}
}

// Resource names the tenant-scoped resources that are gated by quotas.
type Resource string

const (
	ResourceLeads     Resource = "leads"
	ResourceCustomers Resource = "customers"
	ResourceUsers     Resource = "users"
)

type UsageLedgerEntry struct {
	TenantID         string    `db:"tenant_id" json:"tenantId"`
	MonthBucket      string    `db:"month_bucket" json:"monthBucket"`
	LeadsCreated     int64     `db:"leads_created" json:"leadsCreated"`
	CustomersCreated int64     `db:"customers_created" json:"customersCreated"`
	APICalls         int64     `db:"api_calls" json:"apiCalls"`
	MonitoringChecks int64     `db:"monitoring_checks" json:"monitoringChecks"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// MonthBucket formats t as the ledger bucket key, in UTC.
func MonthBucket(t time.Time) string {
	return t.UTC().Format("2006-01")
}

type AuditEntry struct {
	ID              string    `db:"id" json:"id"`
	IdentityID      string    `db:"identity_id" json:"identityId"`
	TenantID        string    `db:"tenant_id" json:"tenantId"`
	Action          string    `db:"action" json:"action"`
	Method          string    `db:"method" json:"method"`
	Path            string    `db:"path" json:"path"`
	StatusCode      int       `db:"status_code" json:"statusCode"`
	DurationMs      int64     `db:"duration_ms" json:"durationMs"`
	RequestSummary  string    `db:"request_summary" json:"requestSummary"`
	ResponseSummary string    `db:"response_summary" json:"responseSummary"`
	HighVisibility  bool      `db:"high_visibility" json:"highVisibility"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

type MonitoredCustomer struct {
	ID       string `db:"id" json:"id"`
	TenantID string `db:"tenant_id" json:"tenantId"`
	Name     string `db:"name" json:"name"`
}

// CustomerState is the observable state of a monitored customer as
// returned by the collector.
type CustomerState struct {
	Metrics     map[string]float64 `json:"metrics"`
	Competitors []string           `json:"competitors"`
}

type Snapshot struct {
	CustomerID string        `db:"customer_id" json:"customerId"`
	State      CustomerState `db:"state" json:"state"`
	CapturedAt time.Time     `db:"captured_at" json:"capturedAt"`
}

type AlertKind string

const (
	AlertThreshold  AlertKind = "threshold"
	AlertCompetitor AlertKind = "competitor"
)

type Alert struct {
	ID         string    `db:"id" json:"id"`
	TenantID   string    `db:"tenant_id" json:"tenantId"`
	CustomerID string    `db:"customer_id" json:"customerId"`
	Kind       AlertKind `db:"kind" json:"kind"`
	Subject    string    `db:"subject" json:"subject"`
	Previous   string    `db:"previous_value" json:"previous"`
	Current    string    `db:"current_value" json:"current"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// CycleSummary is what a single monitoring cycle reports back.
type CycleSummary struct {
	Processed    int `json:"processed"`
	AlertsRaised int `json:"alertsRaised"`
	Errors       int `json:"errors"`
}

// CycleRun is the record of one scheduler fire.
type CycleRun struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Trigger    string    `json:"trigger"`
	CycleSummary
	Err string `json:"error,omitempty"`
}
