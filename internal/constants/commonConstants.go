package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixBoard CachePrefix = "BOARD_"
)

// Source of a board's flight rows.
const (
	BoardSourceClient = "client"
	BoardSourceServer = "server"
)
