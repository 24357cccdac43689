// Package masterdata serves the reference tables behind the planning
// screens: org units, sales reps, industry fields, service codes,
// clients and common codes. All reads are company scoped.
package masterdata

import "time"

type OrgUnit struct {
	OrgID      int64     `json:"org_id"`
	OrgName    string    `json:"org_name"`
	ParentID   *int64    `json:"parent_id"`
	ParentName *string   `json:"parent_name"`
	OrgType    *string   `json:"org_type"`
	SortOrder  int       `json:"sort_order"`
	IsUse      bool      `json:"is_use"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SalesRep struct {
	LoginID    string  `json:"login_id"`
	UserName   string  `json:"user_name"`
	Department *string `json:"department"`
}

type IndustryField struct {
	FieldCode string    `json:"field_code"`
	FieldName string    `json:"field_name"`
	SortOrder int       `json:"sort_order"`
	IsUse     bool      `json:"is_use"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ServiceCode struct {
	ServiceCode string    `json:"service_code"`
	ServiceName string    `json:"service_name"`
	DisplayName *string   `json:"display_name"`
	ParentCode  *string   `json:"parent_code"`
	SortOrder   int       `json:"sort_order"`
	IsUse       bool      `json:"is_use"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Client struct {
	ClientID       int64   `json:"client_id"`
	ClientName     string  `json:"client_name"`
	BusinessNumber *string `json:"business_number"`
	IsActive       bool    `json:"is_active"`
}

type CommonCode struct {
	GroupCode string `json:"group_code"`
	Code      string `json:"code"`
	CodeName  string `json:"code_name"`
	SortOrder int    `json:"sort_order"`
}
