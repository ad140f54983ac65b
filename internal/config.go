package internal

import (
	"fmt"
	"time"
)

// Config is the server configuration, read from the environment (and a .env file when present).
type Config struct {
	Host string `env:"HOST,default=localhost"`
	Port int    `env:"PORT,default=8080"`

	BufferSize           int  `env:"BUFFER_SIZE,default=1024"`
	ConnectionBufferSize int  `env:"CONNECTION_BUFFER_SIZE,default=256"`
	NumberOfWorkers      int  `env:"NUMBER_OF_WORKERS,default=4"`
	LimitMessages        *int `env:"LIMIT_MESSAGES"`
	RoomHistorySize      int  `env:"ROOM_HISTORY_SIZE,default=100"`
	TimelineSize         int  `env:"TIMELINE_SIZE,default=50"`
	SearchLimit          int  `env:"SEARCH_LIMIT,default=20"`
	MaxContentLength     int  `env:"MAX_CONTENT_LENGTH,default=2000"`
	MaxFrameSize         int  `env:"MAX_FRAME_SIZE,default=16777216"`

	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*"`
	AllowAnonymous  bool   `env:"ALLOW_ANONYMOUS,default=true"`

	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,default=2s"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=1s"`
	MetricInterval    time.Duration `env:"METRIC_INTERVAL,default=5s"`
	PongWait          time.Duration `env:"PONG_WAIT,default=60s"`
	PingInterval      time.Duration `env:"PING_INTERVAL"`
	WriteWait         time.Duration `env:"WRITE_WAIT,default=10s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	JWTSecret      string `env:"JWT_SECRET,required=true"`
	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/badger"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,default=./data/bluge"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
