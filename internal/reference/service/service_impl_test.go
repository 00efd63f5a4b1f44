package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	referencedomain "github.com/smallbiznis/ledgerline/internal/reference/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (referencedomain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&referencedomain.Client{},
		&referencedomain.ServiceLine{},
		&referencedomain.MasterServiceLine{},
	)
	require.NoError(t, err)

	return NewService(Params{DB: db, Log: zap.NewNop()}), db
}

func TestListClientsFiltersByBiller(t *testing.T) {
	svc, db := newTestService(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	require.NoError(t, db.Create(&referencedomain.Client{
		ID:         node.Generate(),
		ClientID:   "C1",
		ClientCode: "ACME",
		BillerCode: "B1",
		GroupCode:  "G1",
		GroupDesc:  "Acme Group",
	}).Error)
	require.NoError(t, db.Create(&referencedomain.Client{
		ID:         node.Generate(),
		ClientID:   "C2",
		ClientCode: "OTHER",
		BillerCode: "B2",
	}).Error)

	clients, err := svc.ListClients(context.Background(), "B1")
	require.NoError(t, err)

	require.Len(t, clients, 1)
	assert.Equal(t, "ACME", clients["C1"].ClientCode)
	assert.Equal(t, "Acme Group", clients["C1"].GroupDesc)
}

func TestListServiceLines(t *testing.T) {
	svc, db := newTestService(t)

	require.NoError(t, db.Create(&referencedomain.ServiceLine{
		Code:        "TAX-ADV",
		Description: "Tax Advisory",
		MasterCode:  "TAX",
	}).Error)
	require.NoError(t, db.Create(&referencedomain.MasterServiceLine{
		Code: "TAX",
		Name: "Tax",
	}).Error)

	lines, err := svc.ListServiceLines(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Tax Advisory", lines["TAX-ADV"].Description)

	masters, err := svc.ListMasterServiceLines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Tax", masters["TAX"])
}

func TestListClientsEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	clients, err := svc.ListClients(context.Background(), "NOBODY")
	require.NoError(t, err)
	assert.Empty(t, clients)
}
