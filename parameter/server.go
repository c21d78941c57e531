package parameter

import "time"

// Control Server
const (
	// ServerAddress is the default listen address of the control API
	ServerAddress = ":8080"

	// HubBroadcastBuffer is the pending broadcast capacity of the event hub
	HubBroadcastBuffer = 256

	// ClientSendBuffer is the per-connection outbound queue length
	ClientSendBuffer = 256

	// ClientReplyBuffer is the per-connection queue of command rejections
	ClientReplyBuffer = 16

	// WSWriteWait is how long a websocket write may take
	WSWriteWait = 10 * time.Second

	// WSPongWait is how long to wait for a pong before dropping a client
	WSPongWait = 60 * time.Second

	// WSPingPeriod must be less than WSPongWait
	WSPingPeriod = (WSPongWait * 9) / 10

	// WSMaxMessageSize bounds inbound command frames
	WSMaxMessageSize = 4 * 1024

	// CommandWaitTimeout bounds how long a request waits for the host loop to apply its command
	CommandWaitTimeout = 2 * time.Second
)

// Logging
const (
	// LogDir is the directory for debug log files
	LogDir = "logs"

	// LogFileName is the active log file name
	LogFileName = "moodrig.log"

	// MaxLogSize triggers rotation of the active log file (10MB)
	MaxLogSize = 10 * 1024 * 1024
)
