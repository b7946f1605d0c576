package models

// AttributeType enum for different DynamoDB attribute types
type AttributeType int

const (
	StringType AttributeType = iota
	NumberType
	BinaryType
)

// QueryConfig holds all the configuration for any DynamoDB query
type QueryConfig struct {
	TableName string
	IndexName string // empty for primary key lookups
	KeyName   string
	KeyValue  string
	KeyType   AttributeType
}

// WriteOp is one conditional put inside a transactional write.
// ExpectedVersion 0 means the item must not exist yet; any other value must
// match the stored version attribute.
type WriteOp struct {
	TableName       string
	KeyName         string
	KeyValue        string
	Item            interface{}
	ExpectedVersion int64
}

// VersionAttribute is the attribute used for optimistic concurrency checks
const VersionAttribute = "version"
