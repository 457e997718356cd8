package model

import "time"

// Derived status fields.
const (
	KeyQPS       = "QPS"
	KeyBufferHit = "Buffer_hit"

	KeyUptime             = "Uptime"
	KeyQuestions          = "Questions"
	KeyBufferReadRequests = "Innodb_buffer_pool_read_requests"
	KeyBufferReads        = "Innodb_buffer_pool_reads"
)

// StatusKeywords are the status variables shown in status mode, in order.
var StatusKeywords = []string{
	KeyBufferHit,
	KeyQPS,
	"Aborted_connects",
	"Binlog_cache_disk_use",
	"Bytes_received",
	"Bytes_sent",
	"Connections",
	"Created_tmp_disk_tables",
	"Created_tmp_files",
	"Created_tmp_tables",
	"Handler_delete",
	"Handler_read_first",
	"Handler_read_rnd",
	"Handler_read_rnd_next",
	"Handler_update",
	"Handler_write",
	"Max_used_connections",
	"Open_files",
	"Opened_table_definitions",
	"Opened_tables",
	"Questions",
	"Select_full_join",
	"Select_full_range_join",
	"Select_range",
	"Select_range_check",
	"Select_scan",
	"Slave_running",
	"Slow_queries",
	"Sort_merge_passes",
	"Sort_scan",
	"Table_locks_immediate",
	"Table_locks_waited",
	"Threads_connected",
	"Threads_created",
	"Threads_running",
	"Uptime",
}

// StatusSnapshot is one SHOW GLOBAL STATUS result plus the derived fields.
type StatusSnapshot struct {
	Values  map[string]string
	TakenAt time.Time
}

// Get returns the value for name, or "" if absent.
func (s *StatusSnapshot) Get(name string) string {
	if s == nil {
		return ""
	}

	return s.Values[name]
}

// ProcessRecord is one row of the server process list.
type ProcessRecord struct {
	ID    string `json:"id"`
	Host  string `json:"host"`
	DB    string `json:"db"`
	Time  int64  `json:"time"`
	State string `json:"state"`
	Info  string `json:"info"`
}

// ProcessList is ordered by elapsed time, longest first, as returned by the server.
type ProcessList []ProcessRecord

// GlobalMetrics is an insertion-ordered name/value mapping.
type GlobalMetrics struct {
	keys   []string
	values map[string]string
}

func NewGlobalMetrics() *GlobalMetrics {
	return &GlobalMetrics{values: make(map[string]string)}
}

// Set adds or replaces name. New names keep their first insertion position.
func (g *GlobalMetrics) Set(name, value string) {
	if _, ok := g.values[name]; !ok {
		g.keys = append(g.keys, name)
	}
	g.values[name] = value
}

func (g *GlobalMetrics) Get(name string) (string, bool) {
	v, ok := g.values[name]
	return v, ok
}

// Keys returns the names in insertion order.
func (g *GlobalMetrics) Keys() []string {
	return append([]string(nil), g.keys...)
}

func (g *GlobalMetrics) Len() int {
	return len(g.keys)
}

// Map returns a copy of the mapping.
func (g *GlobalMetrics) Map() map[string]string {
	m := make(map[string]string, len(g.values))
	for k, v := range g.values {
		m[k] = v
	}

	return m
}

// ServerInfo is read once from SHOW VARIABLES.
type ServerInfo struct {
	Hostname         string
	Version          string
	BufferPoolSizeMB int64
}

// Snapshot is the unit published by the sampler. Exactly one of Status,
// Processes or Global is set, matching Mode.
type Snapshot struct {
	Mode      Mode
	Seq       uint64
	Status    *StatusSnapshot
	Processes ProcessList
	Global    *GlobalMetrics
}
