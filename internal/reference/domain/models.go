package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Client is the descriptive record for one client of a biller.
type Client struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	ClientID        string       `gorm:"type:text;not null;uniqueIndex"`
	ClientCode      string       `gorm:"type:text;not null"`
	BillerCode      string       `gorm:"type:text;not null;index"`
	GroupCode       string       `gorm:"type:text"`
	GroupDesc       string       `gorm:"type:text"`
	ServiceLineCode string       `gorm:"type:text"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

// ServiceLine maps a service-line code to its description and owning master line.
type ServiceLine struct {
	Code        string `gorm:"primaryKey;type:text"`
	Description string `gorm:"type:text;not null"`
	MasterCode  string `gorm:"type:text"`
}

// TableName sets the database table name.
func (ServiceLine) TableName() string { return "service_lines" }

// MasterServiceLine is the firm-wide grouping a service line rolls up to.
type MasterServiceLine struct {
	Code string `gorm:"primaryKey;type:text"`
	Name string `gorm:"type:text;not null"`
}

// TableName sets the database table name.
func (MasterServiceLine) TableName() string { return "master_service_lines" }

// Service exposes the descriptive lookups the report join step needs. The
// lookups are independent of each other and of the ledger fetch, so callers
// issue them concurrently.
type Service interface {
	ListClients(ctx context.Context, billerCode string) (map[string]Client, error)
	ListServiceLines(ctx context.Context) (map[string]ServiceLine, error)
	ListMasterServiceLines(ctx context.Context) (map[string]string, error)
}
