package sampler

// Exported for tests.
var (
	StatusQuery        = statusQuery
	ProcessQuery       = processQuery
	VariablesQuery     = variablesQuery
	ReplicaQuery       = replicaQuery
	LegacyReplicaQuery = legacyReplicaQuery
	GlobalQueries      = globalQueries
	ReplicationKey     = replicationKey
)
