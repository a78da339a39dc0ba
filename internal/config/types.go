package config

// ProducerConfig configures a producer.Options (spec.md §6). WhitespaceChar
// is carried as a string in config so it round-trips cleanly through YAML
// and environment variables; Options wants a single byte.
type ProducerConfig struct {
	Seed           uint64 `mapstructure:"seed"`
	Pretty         bool   `mapstructure:"pretty"`
	Whitespace     bool   `mapstructure:"whitespace"`
	WhitespaceChar string `mapstructure:"whitespace_char"`
	NumJSONs       int    `mapstructure:"num_jsons"`
	NumBatches     int    `mapstructure:"num_batches"`
	Batching       bool   `mapstructure:"batching"`
	NumThreads     int    `mapstructure:"num_threads"`
	QueueSize      int    `mapstructure:"queue_size"`
}

// ServerConfig configures the raw TCP server and its repeat-session loop.
type ServerConfig struct {
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	Verbose          bool   `mapstructure:"verbose"`
	RepeatTimes      int    `mapstructure:"repeat_times"`
	RepeatIntervalMs int    `mapstructure:"repeat_interval_ms"`
	StatsAddr        string `mapstructure:"stats_addr"`
}

// ClientConfig configures either a BufferingClient or a QueueingClient.
type ClientConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Mode           string `mapstructure:"mode"` // "buffer" or "queue"
	NumBuffers     int    `mapstructure:"num_buffers"`
	BufferCapacity int    `mapstructure:"buffer_capacity"`
	RecordQueueLen int    `mapstructure:"record_queue_len"`
	NumSamples     int    `mapstructure:"num_samples"`
	NumStages      int    `mapstructure:"num_stages"`
	SampleInterval uint64 `mapstructure:"sample_interval"`
}

// LoggingConfig mirrors the teacher's LoggingConfig (internal/config/types.go
// in the example pack), trimmed to the fields this system actually uses.
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Directory string `mapstructure:"directory"`
	ToFile    bool   `mapstructure:"to_file"`
}

// Config is the full, viper-unmarshaled configuration tree.
type Config struct {
	Producer ProducerConfig `mapstructure:"producer"`
	Server   ServerConfig   `mapstructure:"server"`
	Client   ClientConfig   `mapstructure:"client"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}
