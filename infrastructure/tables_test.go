package infrastructure

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaNames(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"requests", "equipment", "users", "teams", "workcenters", "categories"},
		SchemaNames())
}

func TestIndexNames(t *testing.T) {
	assert.ElementsMatch(t, []string{"equipmentId-index", "teamId-index", "createdBy-index"}, IndexNames("requests"))
	assert.ElementsMatch(t, []string{"teamId-index", "categoryId-index"}, IndexNames("equipment"))
	assert.Empty(t, IndexNames("teams"))
}

func TestExtractBaseTableName(t *testing.T) {
	assert.Equal(t, "requests", ExtractBaseTableName("dev_requests"))
	assert.Equal(t, "workcenters", ExtractBaseTableName("prod_workcenters"))
	assert.Equal(t, "users", ExtractBaseTableName("users"))
}

func TestGetTablesProvisioned(t *testing.T) {
	input, err := GetTables("dev_requests", false)
	require.NoError(t, err)

	assert.Equal(t, "dev_requests", aws.ToString(input.TableName))
	assert.Equal(t, types.BillingModeProvisioned, input.BillingMode)
	require.NotNil(t, input.ProvisionedThroughput)
	assert.Equal(t, int64(5), aws.ToInt64(input.ProvisionedThroughput.ReadCapacityUnits))

	require.Len(t, input.KeySchema, 1)
	assert.Equal(t, "id", aws.ToString(input.KeySchema[0].AttributeName))
	assert.Equal(t, types.KeyTypeHash, input.KeySchema[0].KeyType)

	require.Len(t, input.GlobalSecondaryIndexes, 3)
	for _, gsi := range input.GlobalSecondaryIndexes {
		assert.NotNil(t, gsi.ProvisionedThroughput)
		assert.Equal(t, types.ProjectionTypeAll, gsi.Projection.ProjectionType)
	}
}

func TestGetTablesPayPerRequest(t *testing.T) {
	input, err := GetTables("dev_equipment", true)
	require.NoError(t, err)

	assert.Equal(t, types.BillingModePayPerRequest, input.BillingMode)
	assert.Nil(t, input.ProvisionedThroughput)
	for _, gsi := range input.GlobalSecondaryIndexes {
		assert.Nil(t, gsi.ProvisionedThroughput)
	}
}

func TestGetTablesUnknown(t *testing.T) {
	_, err := GetTables("dev_invoices", false)
	assert.Error(t, err)
}
