package service_test

import (
	"context"
	"testing"

	"github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/internal/inventory/service"
	"github.com/premierlux/premierlux-backend/pkg/database"
	"github.com/premierlux/premierlux-backend/pkg/errors"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSuppliers_HiddenFromStaff(t *testing.T) {
	// no DB expectations; the call must be rejected before any query
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	svc := service.NewInventoryService(service.Deps{
		Suppliers: repository.NewSupplierRepository(database.FromSqlx(mockDB.DB, logger.New("test", "development"))),
		Logger:    logger.New("test", "development"),
	})

	_, err := svc.ListSuppliers(context.Background(), staffScope())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	mockDB.ExpectationsWereMet(t)
}

func TestListSuppliers_ManagementSeesAll(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	svc := service.NewInventoryService(service.Deps{
		Suppliers: repository.NewSupplierRepository(database.FromSqlx(mockDB.DB, logger.New("test", "development"))),
		Logger:    logger.New("test", "development"),
	})

	mockDB.ExpectQuery(`FROM suppliers`).
		WillReturnRows(testutil.MockRows(
			"id", "name", "contact_person", "email", "phone", "address", "created_at",
		).AddRow("s1", "Acme Dental", "Jo", "jo@acme.test", "", "", testNow))

	suppliers, err := svc.ListSuppliers(context.Background(), adminScope())
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "Acme Dental", suppliers[0].Name)

	mockDB.ExpectationsWereMet(t)
}
