package sampler

const (
	variablesQuery = "SHOW GLOBAL VARIABLES"
	statusQuery    = "SHOW GLOBAL STATUS"
	processQuery   = "SELECT ID, HOST, DB, TIME, STATE, INFO FROM INFORMATION_SCHEMA.PROCESSLIST ORDER BY TIME DESC"
	replicaQuery   = "SHOW REPLICAS"

	replicationKey = "Replication(ea)"
)

// globalQueries run in order in global mode. Each returns at most one row
// whose columns are merged into the global metrics.
var globalQueries = []string{
	"SELECT sys.format_bytes(total_allocated) AS `Memory size(GB)` FROM sys.memory_global_total",
	"SELECT COUNT(*) AS `Session num(ea)` FROM performance_schema.threads WHERE TYPE = 'FOREGROUND'",
	"SELECT COUNT(*) AS `Lock num(ea)` FROM performance_schema.data_lock_waits",
	"SELECT COUNT(*) AS `Transaction(ea)` FROM information_schema.INNODB_TRX",
	"SELECT ROUND(IFNULL(SUM(SIZE), 0) / 1024 / 1024, 2) AS `Tmp size(MB)` FROM information_schema.INNODB_SESSION_TEMP_TABLESPACES",
	"SELECT COUNT(*) AS `Table Full scan(ea)` FROM sys.statements_with_full_table_scans",
	"SELECT ROUND(IFNULL(SUM(DATA_LENGTH + INDEX_LENGTH), 0) / 1024 / 1024 / 1024, 2) AS `Database size(GB)` FROM information_schema.TABLES",
	"SELECT COUNT(*) AS `ErrorLog(1hour,ea)` FROM performance_schema.error_log WHERE PRIO = 'Error' AND LOGGED > NOW() - INTERVAL 1 HOUR",
	"SELECT COUNT(*) AS `Slow query(>1s,ea)` FROM performance_schema.events_statements_summary_by_digest WHERE AVG_TIMER_WAIT > 1000000000000",
	"SELECT COUNT(*) AS `GroupHA(ea)` FROM performance_schema.replication_group_members WHERE MEMBER_STATE = 'ONLINE'",
}
